package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/pkg/password"
)

func TestHasher_HashYVerify(t *testing.T) {
	h := password.NewHasher(4)

	digest, err := h.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", digest, "nunca se guarda texto plano")

	assert.True(t, h.Verify("admin123", digest))
	assert.False(t, h.Verify("admin124", digest))
	assert.False(t, h.Verify("admin123", ""))
	assert.False(t, h.Verify("admin123", "no-es-bcrypt"))
}

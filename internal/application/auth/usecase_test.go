package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/internal/application/auth"
	"github.com/jhoicas/mycrm-api/internal/application/dto"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/backend"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/memory"
	"github.com/jhoicas/mycrm-api/pkg/jwt"
	"github.com/jhoicas/mycrm-api/pkg/password"
)

const secret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T) (*auth.AuthUseCase, *backend.Selector) {
	t.Helper()
	hasher := password.NewHasher(4) // costo mínimo: tests rápidos
	fb, err := memory.NewBackend(hasher.Hash)
	require.NoError(t, err)
	stores := backend.NewSelector(context.Background(), nil, fb, zerolog.Nop(), nil)
	uc := auth.NewAuthUseCase(stores, hasher, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "mycrm-test"}, zerolog.Nop())
	return uc, stores
}

func TestLogin_CredencialesValidas_EmiteTokenYRegistraAcceso(t *testing.T) {
	uc, _ := newAuth(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	assert.True(t, out.User.IsAdmin)
	assert.NotNil(t, out.User.LastLoginAt, "el login actualiza la fecha de último acceso")

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, 1, claims.RoleID)
	assert.Equal(t, "mycrm-test", claims.Issuer)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, stores := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := stores.Users().GetByID(ctx, 2)
	require.NoError(t, err)
	u.IsActive = false
	_, err = stores.Users().Update(ctx, u)
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "user", Password: "user123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un usuario inactivo no puede entrar")
}

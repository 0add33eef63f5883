package memory

import (
	"fmt"

	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

// Backend fábrica de stores en memoria sembrados con los datos de ejemplo.
// Los digests de las contraseñas de ejemplo se calculan una sola vez en NewBackend;
// cada store construido después es independiente (un reset del selector arranca limpio).
type Backend struct {
	digests map[string]string
}

// NewBackend precalcula los hashes de las contraseñas de ejemplo con hash.
func NewBackend(hash func(string) (string, error)) (*Backend, error) {
	digests := make(map[string]string)
	for _, p := range []string{"admin123", "user123"} {
		d, err := hash(p)
		if err != nil {
			return nil, fmt.Errorf("memory backend: %w", err)
		}
		digests[p] = d
	}
	return &Backend{digests: digests}, nil
}

func (b *Backend) lookup(p string) (string, error) {
	d, ok := b.digests[p]
	if !ok {
		return "", fmt.Errorf("sin digest precalculado")
	}
	return d, nil
}

func (b *Backend) Customers() repository.CustomerRepository { return NewSampleCustomerStore() }

func (b *Backend) Users() repository.UserRepository {
	s, err := NewSampleUserStore(b.lookup)
	if err != nil {
		// Los digests se validaron en NewBackend; solo falla si cambia la semilla.
		return NewUserStore()
	}
	return s
}

func (b *Backend) Roles() repository.RoleRepository { return NewRoleStore() }

func (b *Backend) EmailLogs() repository.EmailLogRepository { return NewEmailLogStore() }

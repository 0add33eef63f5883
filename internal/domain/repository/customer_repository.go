package repository

import (
	"context"

	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// GetByID y FindByEmail devuelven (nil, nil) cuando el registro no existe.
type CustomerRepository interface {
	List(ctx context.Context) ([]*entity.Customer, error)
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	// Create asigna ID y timestamps y devuelve la entidad completa.
	Create(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	// Update falla con domain.ErrNotFound si el ID no existe.
	Update(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	// Delete elimina físicamente; devuelve si se borró algún registro.
	Delete(ctx context.Context, id int64) (bool, error)

	ListActive(ctx context.Context) ([]*entity.Customer, error)
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
	// SoftDelete marca IsActive=false. Idempotente: true mientras el registro exista.
	SoftDelete(ctx context.Context, id int64) (bool, error)
}

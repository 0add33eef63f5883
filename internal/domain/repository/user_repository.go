package repository

import (
	"context"

	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	List(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
	Delete(ctx context.Context, id int64) (bool, error)

	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// TouchLastLogin actualiza la fecha de último acceso; false si el usuario no existe.
	TouchLastLogin(ctx context.Context, id int64) (bool, error)
}

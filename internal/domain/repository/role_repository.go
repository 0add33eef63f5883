package repository

import (
	"context"

	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// RoleRepository puerto de persistencia para Role (datos de referencia).
type RoleRepository interface {
	List(ctx context.Context) ([]*entity.Role, error)
	GetByID(ctx context.Context, id int) (*entity.Role, error)
	Create(ctx context.Context, role *entity.Role) (*entity.Role, error)
	Update(ctx context.Context, role *entity.Role) (*entity.Role, error)
	Delete(ctx context.Context, id int) (bool, error)

	FindByName(ctx context.Context, name string) (*entity.Role, error)
}

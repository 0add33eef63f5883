package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo roles (datos de referencia) sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

func scanRole(row pgx.Row) (*entity.Role, error) {
	var role entity.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT role_id, role_name, COALESCE(description, '') FROM roles ORDER BY role_id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, role)
	}
	return list, rows.Err()
}

func (r *RoleRepo) GetByID(ctx context.Context, id int) (*entity.Role, error) {
	role, err := scanRole(r.q.QueryRow(ctx,
		`SELECT role_id, role_name, COALESCE(description, '') FROM roles WHERE role_id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (r *RoleRepo) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	role, err := scanRole(r.q.QueryRow(ctx,
		`SELECT role_id, role_name, COALESCE(description, '') FROM roles WHERE LOWER(role_name) = LOWER($1)`, name))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role by name: %w", err)
	}
	return role, nil
}

func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) (*entity.Role, error) {
	var id int
	err := r.q.QueryRow(ctx,
		`INSERT INTO roles (role_name, description) VALUES ($1, NULLIF($2, '')) RETURNING role_id`,
		role.Name, role.Description,
	).Scan(&id)
	if err != nil {
		return nil, wrapWriteErr("insert role", err)
	}
	return r.GetByID(ctx, id)
}

func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) (*entity.Role, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE roles SET role_name = $2, description = NULLIF($3, '') WHERE role_id = $1`,
		role.ID, role.Name, role.Description)
	if err != nil {
		return nil, wrapWriteErr("update role", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update role %d: %w", role.ID, domain.ErrNotFound)
	}
	return r.GetByID(ctx, role.ID)
}

func (r *RoleRepo) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM roles WHERE role_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete role: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

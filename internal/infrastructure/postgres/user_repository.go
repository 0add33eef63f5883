package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `user_id, username, password_hash, email, first_name, last_name, role_id, is_active,
	created_date, modified_date, last_login_date`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.FirstName, &u.LastName,
		&u.RoleID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) findOne(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// List lista usuarios por ID.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, "get user by id", "user_id = $1", id)
}

// FindByUsername obtiene un usuario por username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "get user by username", "username = $1", username)
}

// FindByEmail obtiene un usuario por email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "get user by email", "LOWER(email) = LOWER($1)", email)
}

// Create persiste un nuevo usuario y devuelve la fila completa.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, first_name, last_name, role_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.FirstName, user.LastName, user.RoleID, user.IsActive,
	).Scan(&id)
	if err != nil {
		return nil, wrapWriteErr("insert user", err)
	}
	return r.GetByID(ctx, id)
}

// Update actualiza un usuario (incluye password_hash).
func (r *UserRepo) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		UPDATE users SET username = $2, password_hash = $3, email = $4, first_name = $5, last_name = $6,
			role_id = $7, is_active = $8, modified_date = NOW()
		WHERE user_id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Email, user.FirstName, user.LastName,
		user.RoleID, user.IsActive,
	)
	if err != nil {
		return nil, wrapWriteErr("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update user %d: %w", user.ID, domain.ErrNotFound)
	}
	return r.GetByID(ctx, user.ID)
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return false, wrapWriteErr("delete user", err)
	}
	return tag.RowsAffected() > 0, nil
}

// TouchLastLogin fija last_login_date = NOW().
func (r *UserRepo) TouchLastLogin(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE users SET last_login_date = NOW() WHERE user_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("touch last login: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `customer_id, first_name, last_name, company_name, COALESCE(title, ''), email,
	COALESCE(linkedin_url, ''), is_active, created_date, modified_date`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.CompanyName, &c.Title, &c.Email,
		&c.LinkedInURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ` + where + ` ORDER BY customer_id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// List todos los clientes.
func (r *CustomerRepo) List(ctx context.Context) ([]*entity.Customer, error) {
	return r.list(ctx, "")
}

// ListActive solo clientes con is_active = true.
func (r *CustomerRepo) ListActive(ctx context.Context) ([]*entity.Customer, error) {
	return r.list(ctx, "WHERE is_active = TRUE")
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// FindByEmail obtiene un cliente por email (sin distinguir mayúsculas).
func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE LOWER(email) = LOWER($1) LIMIT 1`, email))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}
	return c, nil
}

// Create inserta y vuelve a leer la fila por su identidad.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	query := `
		INSERT INTO customers (first_name, last_name, company_name, title, email, linkedin_url, is_active)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7)
		RETURNING customer_id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.CompanyName, customer.Title,
		customer.Email, customer.LinkedInURL, customer.IsActive,
	).Scan(&id)
	if err != nil {
		return nil, wrapWriteErr("insert customer", err)
	}
	return r.GetByID(ctx, id)
}

// Update actualiza un cliente y refresca modified_date.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	query := `
		UPDATE customers SET first_name = $2, last_name = $3, company_name = $4, title = NULLIF($5, ''),
			email = $6, linkedin_url = NULLIF($7, ''), is_active = $8, modified_date = NOW()
		WHERE customer_id = $1`
	tag, err := r.q.Exec(ctx, query,
		customer.ID, customer.FirstName, customer.LastName, customer.CompanyName, customer.Title,
		customer.Email, customer.LinkedInURL, customer.IsActive,
	)
	if err != nil {
		return nil, wrapWriteErr("update customer", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update customer %d: %w", customer.ID, domain.ErrNotFound)
	}
	return r.GetByID(ctx, customer.ID)
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		return false, wrapWriteErr("delete customer", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SoftDelete marca is_active = false.
func (r *CustomerRepo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET is_active = FALSE, modified_date = NOW() WHERE customer_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("soft delete customer: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

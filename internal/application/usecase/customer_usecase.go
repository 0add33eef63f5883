package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/mycrm-api/internal/application/dto"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

// CustomerUseCase reglas de negocio de clientes: validación y unicidad de email.
type CustomerUseCase struct {
	stores repository.Provider
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(stores repository.Provider) *CustomerUseCase {
	return &CustomerUseCase{stores: stores}
}

// Create valida, verifica que el email no exista y persiste.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	const op = "crear cliente"
	c := entity.NewCustomer(in.FirstName, in.LastName, in.CompanyName, in.Title, in.Email)
	c.LinkedInURL = in.LinkedInURL
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if problems := c.Validate(); len(problems) > 0 {
		return nil, domain.NewValidationError(op, problems...)
	}

	store := uc.stores.Customers()
	existing, err := store.FindByEmail(ctx, c.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: email %s: %w", op, c.Email, domain.ErrDuplicate)
	}

	saved, err := store.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toCustomerResponse(saved), nil
}

// Update reemplaza los campos editables. El email debe seguir siendo único (excluyendo al propio cliente).
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	const op = "actualizar cliente"
	store := uc.stores.Customers()
	current, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current == nil {
		return nil, fmt.Errorf("customer with ID %d: %w", id, domain.ErrNotFound)
	}

	current.FirstName = in.FirstName
	current.LastName = in.LastName
	current.CompanyName = in.CompanyName
	current.Title = in.Title
	current.Email = in.Email
	current.LinkedInURL = in.LinkedInURL
	if in.IsActive != nil {
		current.IsActive = *in.IsActive
	}
	if problems := current.Validate(); len(problems) > 0 {
		return nil, domain.NewValidationError(op, problems...)
	}

	other, err := store.FindByEmail(ctx, current.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if other != nil && other.ID != id {
		return nil, fmt.Errorf("%s: email %s: %w", op, current.Email, domain.ErrDuplicate)
	}

	saved, err := store.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toCustomerResponse(saved), nil
}

// GetByID devuelve ErrNotFound si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.stores.Customers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("customer with ID %d: %w", id, domain.ErrNotFound)
	}
	return toCustomerResponse(c), nil
}

// List todos los clientes; activeOnly filtra los dados de baja.
func (uc *CustomerUseCase) List(ctx context.Context, activeOnly bool) ([]dto.CustomerResponse, error) {
	store := uc.stores.Customers()
	var (
		list []*entity.Customer
		err  error
	)
	if activeOnly {
		list, err = store.ListActive(ctx)
	} else {
		list, err = store.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return toCustomerResponses(list), nil
}

// Search filtra por nombre, empresa o email sin distinguir mayúsculas. Query vacío = todos.
func (uc *CustomerUseCase) Search(ctx context.Context, query string) ([]dto.CustomerResponse, error) {
	list, err := uc.stores.Customers().List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return toCustomerResponses(list), nil
	}
	matches := make([]*entity.Customer, 0, len(list))
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.FullName()), q) ||
			strings.Contains(strings.ToLower(c.CompanyName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			matches = append(matches, c)
		}
	}
	return toCustomerResponses(matches), nil
}

// Deactivate baja lógica (is_active=false). Idempotente.
func (uc *CustomerUseCase) Deactivate(ctx context.Context, id int64) error {
	ok, err := uc.stores.Customers().SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("customer with ID %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete borrado físico.
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	ok, err := uc.stores.Customers().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("customer with ID %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    c.FullName(),
		CompanyName: c.CompanyName,
		Title:       c.Title,
		Email:       c.Email,
		LinkedInURL: c.LinkedInURL,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCustomerResponses(list []*entity.Customer) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out
}

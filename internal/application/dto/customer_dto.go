package dto

import "time"

// CreateCustomerRequest entrada para crear o actualizar un cliente.
type CreateCustomerRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
	Email       string `json:"email" validate:"required,email"`
	LinkedInURL string `json:"linkedin_url" validate:"omitempty,url"`
	IsActive    *bool  `json:"is_active,omitempty"` // nil = true al crear, sin cambio al actualizar
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID          int64      `json:"customer_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	CompanyName string     `json:"company_name"`
	Title       string     `json:"title"`
	Email       string     `json:"email"`
	LinkedInURL string     `json:"linkedin_url"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   *time.Time `json:"created_date"`
	UpdatedAt   *time.Time `json:"modified_date"`
}

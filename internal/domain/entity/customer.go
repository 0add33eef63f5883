package entity

import (
	"strings"
	"time"
)

// Customer representa un contacto comercial del CRM (destinatario de los correos).
// ID es 0 hasta que el store lo persiste.
type Customer struct {
	ID          int64      `json:"customer_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	CompanyName string     `json:"company_name"`
	Title       string     `json:"title"`
	Email       string     `json:"email"`
	LinkedInURL string     `json:"linkedin_url"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   *time.Time `json:"created_date"`
	UpdatedAt   *time.Time `json:"modified_date"`
}

// NewCustomer devuelve un borrador activo (IsActive por defecto true).
func NewCustomer(firstName, lastName, company, title, email string) *Customer {
	return &Customer{
		FirstName:   firstName,
		LastName:    lastName,
		CompanyName: company,
		Title:       title,
		Email:       email,
		IsActive:    true,
	}
}

// FullName nombre y apellido separados por espacio, sin espacios sobrantes.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) String() string {
	return c.FullName() + " (" + c.CompanyName + ")"
}

// Validate devuelve la lista de problemas del registro; vacía si es válido.
func (c *Customer) Validate() []string {
	var problems []string
	if strings.TrimSpace(c.FirstName) == "" {
		problems = append(problems, "first name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		problems = append(problems, "last name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		problems = append(problems, "email is required")
	} else if !ValidEmail(c.Email) {
		problems = append(problems, "email format is invalid")
	}
	if c.LinkedInURL != "" &&
		!strings.HasPrefix(c.LinkedInURL, "http://") &&
		!strings.HasPrefix(c.LinkedInURL, "https://") {
		problems = append(problems, "linkedin url must start with http:// or https://")
	}
	return problems
}

// ValidEmail regla mínima del CRM: contiene '@' y el dominio contiene '.'.
func ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

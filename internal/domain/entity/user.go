package entity

import (
	"strings"
	"time"
)

// Roles válidos para User (enumeración cerrada).
const (
	RoleAdmin    = 1
	RoleStandard = 2
)

// BootstrapAdminID usuario administrador inicial; nunca se elimina.
const BootstrapAdminID int64 = 1

// User representa un usuario del sistema.
type User struct {
	ID           int64      `json:"user_id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // bcrypt hash, nunca plano
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	RoleID       int        `json:"role_id"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    *time.Time `json:"created_date"`
	UpdatedAt    *time.Time `json:"modified_date"`
	LastLoginAt  *time.Time `json:"last_login_date"`
}

// FullName nombre completo del usuario.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin indica si el usuario tiene el rol de administrador.
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}

func (u *User) String() string {
	return u.Username + " (" + u.FullName() + ")"
}

// ValidRole indica si id pertenece a la enumeración de roles conocida.
func ValidRole(id int) bool {
	return id == RoleAdmin || id == RoleStandard
}

// Validate devuelve la lista de problemas del usuario; vacía si es válido.
func (u *User) Validate() []string {
	var problems []string
	username := strings.TrimSpace(u.Username)
	if username == "" {
		problems = append(problems, "username is required")
	} else if len(username) < 3 {
		problems = append(problems, "username must be at least 3 characters long")
	}
	if strings.TrimSpace(u.Email) == "" {
		problems = append(problems, "email is required")
	} else if !ValidEmail(u.Email) {
		problems = append(problems, "email format is invalid")
	}
	if strings.TrimSpace(u.FirstName) == "" {
		problems = append(problems, "first name is required")
	}
	if strings.TrimSpace(u.LastName) == "" {
		problems = append(problems, "last name is required")
	}
	if !ValidRole(u.RoleID) {
		problems = append(problems, "invalid role id")
	}
	return problems
}

package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	RoleID    int    `json:"role_id" validate:"required,oneof=1 2"`
}

// UpdateUserRequest campos editables de un usuario (la contraseña tiene su propio flujo).
type UpdateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	RoleID    int    `json:"role_id" validate:"required,oneof=1 2"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// ResetPasswordRequest un administrador fija la contraseña de otro usuario.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangePasswordRequest el propio usuario cambia su contraseña.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          int64      `json:"user_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	RoleID      int        `json:"role_id"`
	IsAdmin     bool       `json:"is_admin"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   *time.Time `json:"created_date"`
	UpdatedAt   *time.Time `json:"modified_date"`
	LastLoginAt *time.Time `json:"last_login_date"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RoleResponse rol del sistema.
type RoleResponse struct {
	ID          int    `json:"role_id"`
	Name        string `json:"role_name"`
	Description string `json:"description"`
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/mycrm-api/internal/application/dto"
	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
)

// MinPasswordLength largo mínimo de contraseña.
const MinPasswordLength = 6

// UserUseCase aplica reglas de negocio para usuarios y roles.
type UserUseCase struct {
	stores repository.Provider
	hasher ports.PasswordHasher
}

// NewUserUseCase construye el caso de uso con el proveedor de stores y el hasher de contraseñas.
func NewUserUseCase(stores repository.Provider, hasher ports.PasswordHasher) *UserUseCase {
	return &UserUseCase{stores: stores, hasher: hasher}
}

// Create valida, exige username y email únicos y guarda el hash de la contraseña.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	const op = "crear usuario"
	user := &entity.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.TrimSpace(in.Email),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		RoleID:    in.RoleID,
		IsActive:  true,
	}
	problems := user.Validate()
	if len(in.Password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(op, problems...)
	}
	if err := uc.ensureUnique(ctx, op, user); err != nil {
		return nil, err
	}

	digest, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = digest

	saved, err := uc.stores.Users().Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toUserResponse(saved), nil
}

// Update modifica datos y rol; la contraseña no cambia por esta vía.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	const op = "actualizar usuario"
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Username = strings.TrimSpace(in.Username)
	user.Email = strings.TrimSpace(in.Email)
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.RoleID = in.RoleID
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if problems := user.Validate(); len(problems) > 0 {
		return nil, domain.NewValidationError(op, problems...)
	}
	if err := uc.ensureUnique(ctx, op, user); err != nil {
		return nil, err
	}

	saved, err := uc.stores.Users().Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toUserResponse(saved), nil
}

// Delete elimina un usuario. El administrador inicial no se puede borrar.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	if id == entity.BootstrapAdminID {
		return fmt.Errorf("eliminar usuario %d: administrador inicial: %w", id, domain.ErrForbidden)
	}
	ok, err := uc.stores.Users().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user with ID %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetByID devuelve ErrNotFound si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List todos los usuarios ordenados por ID.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.stores.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// ResetPassword un administrador fija una contraseña nueva sin conocer la anterior.
func (uc *UserUseCase) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	user, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	return uc.storePassword(ctx, "restablecer contraseña", user, newPassword)
}

// ChangePassword el usuario cambia su propia contraseña; exige la actual.
func (uc *UserUseCase) ChangePassword(ctx context.Context, id int64, current, newPassword string) error {
	const op = "cambiar contraseña"
	user, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if !uc.hasher.Verify(current, user.PasswordHash) {
		return fmt.Errorf("%s: contraseña actual incorrecta: %w", op, domain.ErrUnauthorized)
	}
	return uc.storePassword(ctx, op, user, newPassword)
}

// ListRoles roles disponibles.
func (uc *UserUseCase) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := uc.stores.Roles().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

// GetRole busca por ID; ErrNotFound si no existe.
func (uc *UserUseCase) GetRole(ctx context.Context, id int) (*dto.RoleResponse, error) {
	role, err := uc.stores.Roles().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("role with ID %d: %w", id, domain.ErrNotFound)
	}
	out := toRoleResponse(role)
	return &out, nil
}

// FindRoleByName busca por nombre; ErrNotFound si no existe.
func (uc *UserUseCase) FindRoleByName(ctx context.Context, name string) (*dto.RoleResponse, error) {
	role, err := uc.stores.Roles().FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("role %q: %w", name, domain.ErrNotFound)
	}
	out := toRoleResponse(role)
	return &out, nil
}

func (uc *UserUseCase) load(ctx context.Context, id int64) (*entity.User, error) {
	user, err := uc.stores.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user with ID %d: %w", id, domain.ErrNotFound)
	}
	return user, nil
}

// ensureUnique username y email no pueden pertenecer a otro usuario.
func (uc *UserUseCase) ensureUnique(ctx context.Context, op string, user *entity.User) error {
	store := uc.stores.Users()
	byName, err := store.FindByUsername(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if byName != nil && byName.ID != user.ID {
		return fmt.Errorf("%s: username %s: %w", op, user.Username, domain.ErrDuplicate)
	}
	byEmail, err := store.FindByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if byEmail != nil && byEmail.ID != user.ID {
		return fmt.Errorf("%s: email %s: %w", op, user.Email, domain.ErrDuplicate)
	}
	return nil
}

func (uc *UserUseCase) storePassword(ctx context.Context, op string, user *entity.User, plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return domain.NewValidationError(op, fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	digest, err := uc.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user.PasswordHash = digest
	if _, err := uc.stores.Users().Update(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		RoleID:      u.RoleID,
		IsAdmin:     u.IsAdmin(),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func toRoleResponse(r *entity.Role) dto.RoleResponse {
	return dto.RoleResponse{ID: r.ID, Name: r.Name, Description: r.Description}
}

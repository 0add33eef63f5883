package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/mycrm-api/internal/application/dto"
	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
	"github.com/jhoicas/mycrm-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login con usuario y contraseña.
type AuthUseCase struct {
	stores repository.Provider
	hasher ports.PasswordHasher
	jwtCfg JWTConfig
	log    zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(stores repository.Provider, hasher ports.PasswordHasher, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{stores: stores, hasher: hasher, jwtCfg: jwtCfg, log: log}
}

// Login verifica username/password de un usuario activo, registra el acceso y emite el JWT.
// Usuario inexistente, inactivo o contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	users := uc.stores.Users()
	user, err := users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil || !user.IsActive || !uc.hasher.Verify(in.Password, user.PasswordHash) {
		uc.log.Warn().Str("username", in.Username).Msg("intento de login rechazado")
		return nil, fmt.Errorf("login %s: credenciales inválidas: %w", in.Username, domain.ErrUnauthorized)
	}

	if _, err := users.TouchLastLogin(ctx, user.ID); err != nil {
		// No bloquea el acceso.
		uc.log.Error().Err(err).Int64("user_id", user.ID).Msg("no se pudo registrar el último acceso")
	} else if fresh, err := users.GetByID(ctx, user.ID); err == nil && fresh != nil {
		user = fresh
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.RoleID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("login: firmar token: %w", err)
	}
	uc.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("login exitoso")
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
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

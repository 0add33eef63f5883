package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mycrm-api/internal/application/dto"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// userLookup contrato mínimo para verificar el usuario del token contra el store.
// Lo implementa repository.UserRepository; la interfaz evita acoplar el middleware al Provider.
type userLookup interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

// RequireActiveUser verifica que el usuario del token siga existiendo y activo.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 Unauthorized → usuario eliminado.
//   - 403 Forbidden → usuario desactivado después de emitir el token.
//   - 503 Service Unavailable → fallo del store al consultar.
func RequireActiveUser(users func() userLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		user, err := users().GetByID(c.UserContext(), userID)
		if err != nil {
			requestLogger(c).Error().Err(err).Int64("user_id", userID).Msg("verificar usuario activo")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SERVICE_UNAVAILABLE",
				Message: "no se pudo verificar el usuario",
			})
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "el usuario del token ya no existe",
			})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "USER_INACTIVE",
				Message: "usuario desactivado",
			})
		}
		return c.Next()
	}
}

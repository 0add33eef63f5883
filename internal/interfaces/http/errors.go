package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mycrm-api/internal/application/dto"
	"github.com/jhoicas/mycrm-api/internal/domain"
)

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:   fiber.StatusBadRequest,
	domain.KindDuplicate:    fiber.StatusConflict,
	domain.KindNotFound:     fiber.StatusNotFound,
	domain.KindUnauthorized: fiber.StatusUnauthorized,
	domain.KindForbidden:    fiber.StatusForbidden,
	domain.KindProvider:     fiber.StatusBadGateway,
	domain.KindBackend:      fiber.StatusServiceUnavailable,
	domain.KindInternal:     fiber.StatusInternalServerError,
}

// respondError traduce un error de caso de uso a status + ErrorResponse según su Kind.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	out := dto.ErrorResponse{Code: string(kind), Message: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		out.Details = verr.Problems
	}
	if status >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error interno en handler")
		if kind == domain.KindInternal {
			out.Message = "error interno"
		}
	}
	return c.Status(status).JSON(out)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// idParam lee un ID numérico positivo de la ruta.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("leer ruta", name+" debe ser un entero positivo")
	}
	return id, nil
}

// requestLogger logger de la petición (con request_id) o Nop si no hay middleware.
func requestLogger(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(LocalLogger).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}

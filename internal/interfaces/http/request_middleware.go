package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalLogger key del logger por petición en c.Locals.
const LocalLogger = "logger"

// HeaderRequestID header de correlación; se respeta si el cliente lo envía.
const HeaderRequestID = "X-Request-ID"

// RequestLogger asigna un request id (uuid), deja un sublogger en Locals y registra
// método, ruta, status y latencia al terminar.
func RequestLogger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		l := base.With().Str("request_id", requestID).Logger()
		c.Locals(LocalLogger, &l)
		c.SetUserContext(l.WithContext(c.UserContext()))

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler de Fiber fije el status antes de registrar.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := l.Info()
		if status >= fiber.StatusInternalServerError {
			event = l.Error()
		}
		event.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición HTTP")
		return nil
	}
}

package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mycrm-api/internal/infrastructure/backend"
)

// backendAdmin contrato del selector de backend que expone el panel de administración.
type backendAdmin interface {
	Reset(ctx context.Context) bool
	UsingDurable() bool
	Backends() map[backend.Kind]string
}

// BackendStatus estado del selector para /health y administración.
type BackendStatus struct {
	DurableAvailable bool                    `json:"durable_available"`
	Stores           map[backend.Kind]string `json:"stores"`
}

// AdminHandler operaciones de administración del backend de persistencia.
type AdminHandler struct {
	stores backendAdmin
}

// NewAdminHandler construye el handler.
func NewAdminHandler(stores backendAdmin) *AdminHandler {
	return &AdminHandler{stores: stores}
}

func (h *AdminHandler) status() BackendStatus {
	return BackendStatus{DurableAvailable: h.stores.UsingDurable(), Stores: h.stores.Backends()}
}

// Backend GET /api/admin/backend
func (h *AdminHandler) Backend(c *fiber.Ctx) error {
	return c.JSON(h.status())
}

// ResetBackend POST /api/admin/backend/reset: descarta los stores memorizados y vuelve a
// probar el backend durable. Los datos en memoria se pierden.
func (h *AdminHandler) ResetBackend(c *fiber.Ctx) error {
	available := h.stores.Reset(c.UserContext())
	requestLogger(c).Warn().Bool("durable_available", available).Str("by", GetUsername(c)).
		Msg("selector de backend reiniciado")
	return c.JSON(h.status())
}

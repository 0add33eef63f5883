package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/mycrm-api/internal/application/auth"
	"github.com/jhoicas/mycrm-api/internal/application/email"
	"github.com/jhoicas/mycrm-api/internal/application/usecase"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/backend"
)

// Stores lo que el router necesita del selector de backend.
type Stores interface {
	repository.Provider
	backendAdmin
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CustomerUC   *usecase.CustomerUseCase
	UserUC       *usecase.UserUseCase
	EmailUC      *email.EmailUseCase
	Stores       Stores
	Gatherer     prometheus.Gatherer // nil = sin /metrics
	AppName      string
	AIConfigured bool
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	admin := NewAdminHandler(deps.Stores)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":        "ok",
			"service":       deps.AppName,
			"ai_configured": deps.AIConfigured,
			"backend":       admin.status(),
		})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token de un usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(func() userLookup {
		return deps.Stores.Users()
	}))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/password", authHandler.ChangePassword)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	emailHandler := NewEmailHandler(deps.EmailUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Get("/:id/emails", emailHandler.ListByCustomer)

	// Emails
	emails := protected.Group("/emails")
	emails.Post("/generate", emailHandler.Generate)
	emails.Post("/generate/bulk", emailHandler.GenerateBulk)
	emails.Post("/send", emailHandler.SendBulk)
	emails.Get("/", emailHandler.List)
	emails.Get("/sent", emailHandler.ListSent)
	emails.Get("/mine", emailHandler.ListMine)
	emails.Get("/report.pdf", adminOnly, emailHandler.Report)
	emails.Get("/:id", emailHandler.GetByID)
	emails.Post("/:id/send", emailHandler.Send)

	// Roles
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/roles", userHandler.ListRoles)
	protected.Get("/roles/:id", userHandler.GetRole)

	// Users (solo administradores)
	users := protected.Group("/users", adminOnly)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Post("/:id/reset-password", userHandler.ResetPassword)
	users.Get("/:id/emails", emailHandler.ListByUser)

	// Administración del backend
	adminGroup := protected.Group("/admin", adminOnly)
	adminGroup.Get("/backend", admin.Backend)
	adminGroup.Post("/backend/reset", admin.ResetBackend)
}

var _ Stores = (*backend.Selector)(nil)

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/mycrm-api/internal/application/auth"
	"github.com/jhoicas/mycrm-api/internal/application/email"
	"github.com/jhoicas/mycrm-api/internal/application/usecase"
	infraai "github.com/jhoicas/mycrm-api/internal/infrastructure/ai"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/backend"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/mycrm-api/internal/infrastructure/pdf"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/postgres"
	infrasmtp "github.com/jhoicas/mycrm-api/internal/infrastructure/smtp"
	httpRouter "github.com/jhoicas/mycrm-api/internal/interfaces/http"
	"github.com/jhoicas/mycrm-api/pkg/config"
	"github.com/jhoicas/mycrm-api/pkg/logger"
	"github.com/jhoicas/mycrm-api/pkg/metrics"
	"github.com/jhoicas/mycrm-api/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	hasher := password.NewHasher(cfg.Security.BcryptCost)

	// Persistencia: PostgreSQL si responde al probe, memoria en caso contrario (por tipo de entidad).
	ctx := context.Background()
	fallback, err := memory.NewBackend(hasher.Hash)
	if err != nil {
		log.Fatal().Err(err).Msg("backend en memoria")
	}
	var durable backend.Durable
	if cfg.DB.Configured() {
		pg := postgres.NewBackend(cfg.DB)
		defer pg.Close()
		if cfg.DB.AutoMigrate {
			if err := pg.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("no se pudo aplicar el esquema; el probe decidirá el backend")
			}
		}
		durable = pg
	}
	stores := backend.NewSelector(ctx, durable, fallback, log.Component("backend"), m)

	// Generación de texto: nil si no hay API key (se usan los textos de respaldo).
	generator := infraai.NewTextGenerator(cfg.AI)
	if generator == nil {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("proveedor de IA no configurado; personalización literal y revisiones omitidas")
	}

	emailLog := log.Component("email")
	emailUC := email.NewEmailUseCase(email.Deps{
		Stores: stores,
		Personalizer: email.NewTemplatePersonalizer(generator, email.PersonalizerConfig{
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
			Signature:   cfg.Email.Signature,
		}, emailLog),
		Reviewer:  email.NewComplianceReviewer(generator, cfg.AI.Timeout, emailLog, m),
		Transport: infrasmtp.NewTransport(cfg.SMTP),
		Reports:   infrapdf.NewEmailAuditReport(cfg.App.Name),
		Flags: email.Flags{
			HIPAA: cfg.Security.EnableHIPAACompliance,
			AI:    cfg.Security.EnableAICompliance,
		},
		Log:     emailLog,
		Metrics: m,
	})

	customerUC := usecase.NewCustomerUseCase(stores)
	userUC := usecase.NewUserUseCase(stores, hasher)
	authUC := auth.NewAuthUseCase(stores, hasher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // la generación masiva espera al proveedor de IA
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CustomerUC:   customerUC,
		UserUC:       userUC,
		EmailUC:      emailUC,
		Stores:       stores,
		Gatherer:     prometheus.DefaultGatherer,
		AppName:      cfg.App.Name,
		AIConfigured: generator != nil,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

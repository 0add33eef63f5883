// Package email implementa el pipeline de generación y envío de correos:
// personalización → doble revisión de cumplimiento → compuerta de aprobación →
// entrega → registro del estado de envío.
package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
	"github.com/jhoicas/mycrm-api/pkg/metrics"
)

// Resultados reportados en métricas.
const (
	resultApproved       = "approved"
	resultRejected       = "rejected"
	resultFailed         = "failed"
	resultSent           = "sent"
	resultTransportError = "transport_error"
)

// Deps colaboradores del pipeline. Transport y Reports pueden ser nil.
type Deps struct {
	Stores       repository.Provider
	Personalizer Personalizer
	Reviewer     Reviewer
	Transport    ports.MailTransport
	Reports      ports.EmailReportGenerator
	Flags        Flags
	Log          zerolog.Logger
	Metrics      *metrics.Metrics
}

// EmailUseCase orquesta generación, revisión, persistencia y envío de EmailLog.
// Las operaciones masivas son bucles secuenciales con aislamiento por ítem.
type EmailUseCase struct {
	stores       repository.Provider
	personalizer Personalizer
	reviewer     Reviewer
	transport    ports.MailTransport
	reports      ports.EmailReportGenerator
	flags        Flags
	log          zerolog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewEmailUseCase construye el caso de uso.
func NewEmailUseCase(d Deps) *EmailUseCase {
	return &EmailUseCase{
		stores:       d.Stores,
		personalizer: d.Personalizer,
		reviewer:     d.Reviewer,
		transport:    d.Transport,
		reports:      d.Reports,
		flags:        d.Flags,
		log:          d.Log,
		metrics:      d.Metrics,
		now:          time.Now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Generación
// ──────────────────────────────────────────────────────────────────────────────

// Generate construye el borrador, personaliza, revisa y persiste. No captura errores:
// cualquier falla se propaga al llamador.
func (uc *EmailUseCase) Generate(ctx context.Context, customer *entity.Customer, template string, authorID int64) (*entity.EmailLog, error) {
	const op = "generar correo"
	if customer == nil {
		return nil, domain.NewValidationError(op, "customer is required")
	}
	problems := entity.ValidateTemplate(template)
	problems = append(problems, customer.Validate()...)
	if authorID <= 0 {
		problems = append(problems, "user id is required")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("cliente %d: %w", customer.ID, domain.NewValidationError(op, problems...))
	}

	log := &entity.EmailLog{
		CustomerID:     customer.ID,
		UserID:         authorID,
		TemplateText:   template,
		RecipientEmail: customer.Email,
		Status:         entity.EmailStatusGenerated,
	}
	if problems := log.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("cliente %d: %w", customer.ID, domain.NewValidationError(op, problems...))
	}

	draft, err := uc.personalizer.Personalize(ctx, customer, template)
	if err != nil {
		return nil, fmt.Errorf("%s: personalizar cliente %d: %w", op, customer.ID, err)
	}
	log.Subject = draft.Subject
	log.GeneratedEmail = draft.Body

	verdict := uc.reviewer.Review(ctx, log.GeneratedEmail, uc.flags)
	log.HIPAACheck = verdict.HIPAA
	log.AICheck = verdict.AI
	log.ComplianceApproved = verdict.Approved

	saved, err := uc.stores.EmailLogs().Create(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("%s: guardar registro de cliente %d: %w", op, customer.ID, err)
	}

	result := resultApproved
	if !saved.ComplianceApproved {
		result = resultRejected
	}
	uc.metrics.ObserveGenerated(result)
	uc.log.Info().Int64("email_log_id", saved.ID).Int64("customer_id", customer.ID).
		Bool("approved", saved.ComplianceApproved).Msg("correo personalizado generado")
	return saved, nil
}

// GenerateBulk llama a Generate por cliente, en orden. Una falla se registra como
// EmailLog con Status "failed" y el mensaje de error; el lote continúa.
// len(resultado) == len(customers) siempre.
func (uc *EmailUseCase) GenerateBulk(ctx context.Context, customers []*entity.Customer, template string, authorID int64) []*entity.EmailLog {
	logs := make([]*entity.EmailLog, 0, len(customers))
	for _, customer := range customers {
		log, err := uc.Generate(ctx, customer, template, authorID)
		if err == nil {
			logs = append(logs, log)
			continue
		}

		uc.metrics.ObserveGenerated(resultFailed)
		failed := &entity.EmailLog{
			UserID:       authorID,
			TemplateText: template,
			Status:       entity.EmailStatusFailed,
			ErrorMessage: err.Error(),
		}
		if customer != nil {
			failed.CustomerID = customer.ID
			failed.RecipientEmail = customer.Email
		}
		uc.log.Error().Err(err).Int64("customer_id", failed.CustomerID).Msg("falló la generación para el cliente")

		saved, saveErr := uc.stores.EmailLogs().Create(ctx, failed)
		if saveErr != nil {
			// Se devuelve el registro sin ID para conservar la correspondencia con la entrada.
			uc.log.Error().Err(saveErr).Int64("customer_id", failed.CustomerID).Msg("no se pudo guardar el registro de falla")
			logs = append(logs, failed)
			continue
		}
		logs = append(logs, saved)
	}
	uc.log.Info().Int("generated", len(logs)).Int("customers", len(customers)).Msg("generación masiva completada")
	return logs
}

// ResolveCustomers carga los clientes por ID en el orden recibido.
// Falla con ErrNotFound si alguno no existe.
func (uc *EmailUseCase) ResolveCustomers(ctx context.Context, ids []int64) ([]*entity.Customer, error) {
	customers := make([]*entity.Customer, 0, len(ids))
	for _, id := range ids {
		c, err := uc.stores.Customers().GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cargar cliente %d: %w", id, err)
		}
		if c == nil {
			return nil, fmt.Errorf("customer with ID %d: %w", id, domain.ErrNotFound)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío
// ──────────────────────────────────────────────────────────────────────────────

// Send aplica la compuerta (aprobado y no enviado) y entrega el correo.
// Falla del transporte → (false, nil) sin modificar el registro; sin reintentos.
func (uc *EmailUseCase) Send(ctx context.Context, logID int64) (bool, error) {
	store := uc.stores.EmailLogs()
	log, err := store.GetByID(ctx, logID)
	if err != nil {
		return false, fmt.Errorf("enviar correo %d: %w", logID, err)
	}
	if log == nil {
		return false, fmt.Errorf("email log with ID %d: %w", logID, domain.ErrNotFound)
	}
	if err := log.CanSend(); err != nil {
		uc.metrics.ObserveSend(resultRejected)
		return false, fmt.Errorf("enviar correo %d: %w: %w", logID, domain.ErrValidation, err)
	}

	if uc.transport == nil {
		uc.metrics.ObserveSend(resultTransportError)
		uc.log.Error().Int64("email_log_id", logID).Msg("transporte de correo no configurado")
		return false, nil
	}
	if err := uc.transport.Deliver(ctx, log.RecipientEmail, log.Subject, log.GeneratedEmail); err != nil {
		uc.metrics.ObserveSend(resultTransportError)
		uc.log.Error().Err(err).Int64("email_log_id", logID).Str("recipient", log.RecipientEmail).
			Msg("falló el envío del correo")
		return false, nil
	}

	if err := log.MarkSent(uc.now()); err != nil {
		return false, fmt.Errorf("enviar correo %d: %w: %w", logID, domain.ErrValidation, err)
	}
	if _, err := store.Update(ctx, log); err != nil {
		uc.log.Error().Err(err).Int64("email_log_id", logID).Msg("correo entregado pero no se pudo registrar el envío")
		return false, fmt.Errorf("enviar correo %d: registrar envío: %w", logID, err)
	}

	uc.metrics.ObserveSend(resultSent)
	uc.log.Info().Int64("email_log_id", logID).Str("recipient", log.RecipientEmail).Msg("correo enviado")
	return true, nil
}

// SendBulk llama a Send por ID, en orden; cualquier error cuenta como false.
// Un ID repetido se procesa una sola vez.
func (uc *EmailUseCase) SendBulk(ctx context.Context, logIDs []int64) map[int64]bool {
	results := make(map[int64]bool, len(logIDs))
	for _, id := range logIDs {
		if _, done := results[id]; done {
			continue
		}
		ok, err := uc.Send(ctx, id)
		if err != nil {
			uc.log.Error().Err(err).Int64("email_log_id", id).Msg("falló el envío masivo para el registro")
			results[id] = false
			continue
		}
		results[id] = ok
	}
	return results
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

// GetByID devuelve ErrNotFound si no existe.
func (uc *EmailUseCase) GetByID(ctx context.Context, id int64) (*entity.EmailLog, error) {
	log, err := uc.stores.EmailLogs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, fmt.Errorf("email log with ID %d: %w", id, domain.ErrNotFound)
	}
	return log, nil
}

func (uc *EmailUseCase) ListAll(ctx context.Context) ([]*entity.EmailLog, error) {
	return uc.stores.EmailLogs().List(ctx)
}

func (uc *EmailUseCase) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.EmailLog, error) {
	return uc.stores.EmailLogs().ListByCustomer(ctx, customerID)
}

func (uc *EmailUseCase) ListByUser(ctx context.Context, userID int64) ([]*entity.EmailLog, error) {
	return uc.stores.EmailLogs().ListByUser(ctx, userID)
}

func (uc *EmailUseCase) ListSent(ctx context.Context) ([]*entity.EmailLog, error) {
	return uc.stores.EmailLogs().ListSent(ctx)
}

// ErrReportUnavailable no hay generador de reportes configurado.
var ErrReportUnavailable = errors.New("generador de reportes no configurado")

// AuditReport PDF con todos los registros de correo.
func (uc *EmailUseCase) AuditReport(ctx context.Context) ([]byte, error) {
	if uc.reports == nil {
		return nil, ErrReportUnavailable
	}
	logs, err := uc.stores.EmailLogs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte de correos: %w", err)
	}
	return uc.reports.GenerateEmailReport(ctx, logs, uc.now())
}

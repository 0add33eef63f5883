package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/pkg/metrics"
)

// ViolationToken token que bloquea la aprobación (sin distinguir mayúsculas).
const ViolationToken = "VIOLATION"

const (
	complianceMaxTokens   = 200
	complianceTemperature = 0.1

	hipaaSystemPrompt = "You are a HIPAA compliance officer reviewing business emails."
	aiSystemPrompt    = "You are an AI ethics reviewer checking content for responsible AI principles."
)

// Flags habilitan cada revisión (ENABLE_HIPAA_COMPLIANCE / ENABLE_AI_COMPLIANCE).
type Flags struct {
	HIPAA bool
	AI    bool
}

// Verdict resultado de la doble revisión.
type Verdict struct {
	HIPAA    string
	AI       string
	Approved bool
}

// Reviewer clasifica el cuerpo de un correo.
type Reviewer interface {
	Review(ctx context.Context, body string, flags Flags) Verdict
}

// HasViolation indica si un veredicto contiene el token de violación.
func HasViolation(verdict string) bool {
	return strings.Contains(strings.ToUpper(verdict), ViolationToken)
}

// Approved aprobación agregada: ninguno de los dos veredictos señala violación.
func Approved(hipaa, ai string) bool {
	return !HasViolation(hipaa) && !HasViolation(ai)
}

// check una de las dos revisiones.
type check struct {
	label        string // "HIPAA" | "AI"; prefijo de los textos centinela
	metricLabel  string
	systemPrompt string
	prompt       func(body string) string
}

var (
	hipaaCheck = check{
		label:        "HIPAA",
		metricLabel:  "hipaa",
		systemPrompt: hipaaSystemPrompt,
		prompt: func(body string) string {
			return fmt.Sprintf(`Please review the following email content for HIPAA compliance:

%s

Check for:
1. No personal health information (PHI)
2. No medical condition details
3. No protected health information
4. Professional business communication only

Respond with either:
"APPROVED: [brief reason]" or "VIOLATION: [specific issue]"`, body)
		},
	}
	aiCheck = check{
		label:        "AI",
		metricLabel:  "ai",
		systemPrompt: aiSystemPrompt,
		prompt: func(body string) string {
			return fmt.Sprintf(`Please review the following email content against Responsible AI principles:

%s

Check for:
1. Fairness and inclusivity
2. Reliability and safety
3. Privacy and security
4. Transparency
5. Accountability
6. No harmful or inappropriate content

Respond with either:
"APPROVED: [brief reason]" or "VIOLATION: [specific issue]"`, body)
		},
	}
)

// ComplianceReviewer ejecuta las revisiones HIPAA y de IA responsable con el generador de texto.
//
// Política permisiva: si una revisión no puede ejecutarse (generador no configurado o
// error del proveedor) el veredicto registra el motivo y NO bloquea la aprobación.
// Solo una respuesta explícita con VIOLATION bloquea el envío.
type ComplianceReviewer struct {
	gen     ports.TextGenerator // nil = no configurado
	timeout time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewComplianceReviewer construye el revisor. gen y m pueden ser nil.
func NewComplianceReviewer(gen ports.TextGenerator, timeout time.Duration, log zerolog.Logger, m *metrics.Metrics) *ComplianceReviewer {
	return &ComplianceReviewer{gen: gen, timeout: timeout, log: log, metrics: m}
}

// Review ejecuta ambas revisiones de forma secuencial e independiente.
func (r *ComplianceReviewer) Review(ctx context.Context, body string, flags Flags) Verdict {
	v := Verdict{
		HIPAA: r.run(ctx, hipaaCheck, flags.HIPAA, body),
		AI:    r.run(ctx, aiCheck, flags.AI, body),
	}
	v.Approved = Approved(v.HIPAA, v.AI)
	r.log.Info().Bool("approved", v.Approved).Msg("revisión de cumplimiento completada")
	return v
}

func (r *ComplianceReviewer) run(ctx context.Context, c check, enabled bool, body string) string {
	if !enabled {
		return c.label + " compliance checking disabled"
	}
	if r.gen == nil {
		return c.label + " compliance check skipped - AI provider not configured"
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	out, err := r.gen.Complete(ctx, c.systemPrompt, c.prompt(body), complianceMaxTokens, complianceTemperature)
	if err != nil {
		r.metrics.ObserveComplianceFailure(c.metricLabel)
		r.log.Warn().Err(err).Str("check", c.metricLabel).
			Msg("revisión de cumplimiento no ejecutada; no bloquea la aprobación")
		return fmt.Sprintf("%s compliance check failed: %v", c.label, err)
	}
	return strings.TrimSpace(out)
}

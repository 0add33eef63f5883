package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

const (
	bodySystemPrompt    = "You are a professional email assistant that creates personalized business emails."
	subjectSystemPrompt = "You are a professional email assistant that creates email subject lines."

	subjectMaxTokens   = 50
	subjectTemperature = 0.3
	subjectTemplateLen = 200
)

// Draft asunto y cuerpo personalizados.
type Draft struct {
	Subject string
	Body    string
}

// Personalizer convierte plantilla + cliente en un borrador.
type Personalizer interface {
	Personalize(ctx context.Context, customer *entity.Customer, template string) (Draft, error)
}

// PersonalizerConfig parámetros del modelo para el cuerpo y la firma del marco fijo.
type PersonalizerConfig struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Signature   string
}

// TemplatePersonalizer usa el generador de texto si está configurado; si no (o si la
// llamada falla) aplica sustitución literal de placeholders.
type TemplatePersonalizer struct {
	gen ports.TextGenerator // nil = no configurado
	cfg PersonalizerConfig
	log zerolog.Logger
}

// NewTemplatePersonalizer construye el motor. gen puede ser nil.
func NewTemplatePersonalizer(gen ports.TextGenerator, cfg PersonalizerConfig, log zerolog.Logger) *TemplatePersonalizer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Signature == "" {
		cfg.Signature = "MyCRM Team"
	}
	return &TemplatePersonalizer{gen: gen, cfg: cfg, log: log}
}

// Personalize nunca falla por el proveedor: cada solicitud tiene su propio respaldo.
func (p *TemplatePersonalizer) Personalize(ctx context.Context, customer *entity.Customer, template string) (Draft, error) {
	if p.gen == nil {
		return Draft{
			Subject: "Message from MyCRM - " + customer.CompanyName,
			Body:    p.FallbackBody(customer, template),
		}, nil
	}

	body, err := p.complete(ctx, bodySystemPrompt, bodyPrompt(customer, template), p.cfg.MaxTokens, p.cfg.Temperature)
	if err != nil {
		p.log.Error().Err(err).Int64("customer_id", customer.ID).Msg("error generando cuerpo, usando sustitución")
		body = p.FallbackBody(customer, template)
	}

	subject, err := p.complete(ctx, subjectSystemPrompt, subjectPrompt(customer, template), subjectMaxTokens, subjectTemperature)
	if err != nil {
		p.log.Error().Err(err).Int64("customer_id", customer.ID).Msg("error generando asunto")
		subject = "Message for " + customer.CompanyName
	}

	return Draft{Subject: subject, Body: body}, nil
}

func (p *TemplatePersonalizer) complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}
	out, err := p.gen.Complete(ctx, system, user, maxTokens, temperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// FallbackBody sustituye {name}, {first_name}, {last_name}, {company} y {title}
// y envuelve el texto en el saludo y la firma fijos.
func (p *TemplatePersonalizer) FallbackBody(customer *entity.Customer, template string) string {
	r := strings.NewReplacer(
		"{name}", customer.FullName(),
		"{first_name}", customer.FirstName,
		"{last_name}", customer.LastName,
		"{company}", customer.CompanyName,
		"{title}", customer.Title,
	)
	return fmt.Sprintf("Dear %s,\n\n%s\n\nBest regards,\n%s", customer.FullName(), r.Replace(template), p.cfg.Signature)
}

func bodyPrompt(c *entity.Customer, template string) string {
	return fmt.Sprintf(`Please personalize the following email template for a customer:

Customer Information:
- Name: %s
- Company: %s
- Title: %s

Email Template:
%s

Please create a professional, personalized email that:
1. Uses the customer's name and company appropriately
2. Maintains a professional tone
3. Is appropriate for business communication
4. Does not include any inappropriate content

Return only the email body content, no subject line.`, c.FullName(), c.CompanyName, c.Title, template)
}

func subjectPrompt(c *entity.Customer, template string) string {
	excerpt := template
	if runes := []rune(template); len(runes) > subjectTemplateLen {
		excerpt = string(runes[:subjectTemplateLen])
	}
	return fmt.Sprintf(`Based on this email template for %s at %s:
%s...

Generate a professional email subject line that is:
1. Clear and concise
2. Relevant to the content
3. Professional
4. Under 50 characters

Return only the subject line, no quotes or extra text.`, c.FullName(), c.CompanyName, excerpt)
}

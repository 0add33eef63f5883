package entity

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTemplateLength longitud máxima (en caracteres) del texto de plantilla.
const MaxTemplateLength = 1000

// Estados persistidos en EmailLog.Status.
const (
	EmailStatusGenerated = "generated"
	EmailStatusFailed    = "failed"
)

// EmailState estado derivado del registro para la máquina de envío.
type EmailState string

const (
	EmailStateDraft            EmailState = "DRAFT"
	EmailStateReviewedApproved EmailState = "REVIEWED_APPROVED"
	EmailStateReviewedRejected EmailState = "REVIEWED_REJECTED"
	EmailStateSent             EmailState = "SENT"
	EmailStateFailed           EmailState = "FAILED"
)

var (
	// ErrNotApproved el correo no pasó la revisión de cumplimiento.
	ErrNotApproved = errors.New("email has not been approved for sending due to compliance issues")
	// ErrAlreadySent el correo ya fue enviado; sent nunca vuelve a false.
	ErrAlreadySent = errors.New("email has already been sent")
)

// EmailLog registro auditable de un intento de generación y envío.
// Referencia a Customer (destinatario) y User (autor) solo por ID.
type EmailLog struct {
	ID                 int64      `json:"email_log_id"`
	CustomerID         int64      `json:"customer_id"`
	UserID             int64      `json:"user_id"`
	TemplateText       string     `json:"template_text"`
	Subject            string     `json:"subject"`
	GeneratedEmail     string     `json:"generated_email"`
	RecipientEmail     string     `json:"recipient_email"`
	HIPAACheck         string     `json:"hipaa_compliance_check"`
	AICheck            string     `json:"ai_compliance_check"`
	ComplianceApproved bool       `json:"compliance_approved"`
	Sent               bool       `json:"email_sent"`
	SentAt             *time.Time `json:"sent_date"`
	CreatedAt          *time.Time `json:"created_date"`
	Status             string     `json:"status,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
}

// State estado derivado: FAILED, SENT, DRAFT (sin revisar) o REVIEWED_*.
func (l *EmailLog) State() EmailState {
	switch {
	case l.Status == EmailStatusFailed:
		return EmailStateFailed
	case l.Sent:
		return EmailStateSent
	case l.HIPAACheck == "" && l.AICheck == "":
		return EmailStateDraft
	case l.ComplianceApproved:
		return EmailStateReviewedApproved
	default:
		return EmailStateReviewedRejected
	}
}

// CanSend aplica la compuerta de aprobación: aprobado y aún no enviado.
func (l *EmailLog) CanSend() error {
	if !l.ComplianceApproved {
		return ErrNotApproved
	}
	if l.Sent {
		return ErrAlreadySent
	}
	return nil
}

// MarkSent transición única false→true.
func (l *EmailLog) MarkSent(at time.Time) error {
	if err := l.CanSend(); err != nil {
		return err
	}
	l.Sent = true
	l.SentAt = &at
	return nil
}

func (l *EmailLog) String() string {
	status := "Draft"
	if l.Sent {
		status = "Sent"
	}
	return "Email to " + l.RecipientEmail + " - " + status
}

// Validate devuelve la lista de problemas del registro; vacía si es válido.
func (l *EmailLog) Validate() []string {
	var problems []string
	if l.CustomerID <= 0 {
		problems = append(problems, "customer id is required")
	}
	if l.UserID <= 0 {
		problems = append(problems, "user id is required")
	}
	problems = append(problems, ValidateTemplate(l.TemplateText)...)
	if strings.TrimSpace(l.RecipientEmail) == "" {
		problems = append(problems, "recipient email is required")
	} else if !ValidEmail(l.RecipientEmail) {
		problems = append(problems, "recipient email format is invalid")
	}
	return problems
}

// ValidateTemplate reglas del texto de plantilla: no vacío y hasta MaxTemplateLength caracteres.
func ValidateTemplate(template string) []string {
	if strings.TrimSpace(template) == "" {
		return []string{"template text is required"}
	}
	if utf8.RuneCountInString(template) > MaxTemplateLength {
		return []string{"template text cannot exceed 1000 characters"}
	}
	return nil
}

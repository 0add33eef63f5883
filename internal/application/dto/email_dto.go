package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IDList acepta en JSON un ID suelto, una lista, o strings numéricos
// (1, "1", [1,2], ["1","2"], "1,2"). La normalización queda en el borde HTTP.
type IDList []int64

// UnmarshalJSON implementa json.Unmarshaler.
func (l *IDList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids, err := toIDs(raw)
	if err != nil {
		return err
	}
	*l = ids
	return nil
}

func toIDs(raw any) ([]int64, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		return []int64{int64(v)}, nil
	case string:
		var out []int64
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("id inválido %q", part)
			}
			out = append(out, n)
		}
		return out, nil
	case []any:
		var out []int64
		for _, item := range v {
			ids, err := toIDs(item)
			if err != nil {
				return nil, err
			}
			out = append(out, ids...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tipo de id no soportado %T", raw)
	}
}

// GenerateEmailRequest genera correos para uno o varios clientes.
type GenerateEmailRequest struct {
	CustomerIDs  IDList `json:"customer_ids"`
	CustomerID   IDList `json:"customer_id"` // alias de un solo ID
	TemplateText string `json:"template_text" validate:"required,max=1000"`
}

// IDs une customer_id y customer_ids respetando el orden.
func (r GenerateEmailRequest) IDs() []int64 {
	return append(append([]int64{}, r.CustomerID...), r.CustomerIDs...)
}

// SendEmailsRequest envío masivo.
type SendEmailsRequest struct {
	EmailLogIDs IDList `json:"email_log_ids"`
}

// SendResult resultado de un envío individual o masivo.
type SendResult struct {
	EmailLogID int64 `json:"email_log_id"`
	Sent       bool  `json:"sent"`
}

// EmailLogResponse salida de un registro de correo.
type EmailLogResponse struct {
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
	State              string     `json:"state"`
}

// EmailLogPage listado paginado de registros de correo.
type EmailLogPage struct {
	Items []EmailLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/pkg/config"
)

var _ ports.MailTransport = (*Transport)(nil)

// Transport entrega correos de texto plano vía SMTP (STARTTLS + login opcional).
type Transport struct {
	cfg     config.SMTPConfig
	timeout time.Duration
	send    func(m *gomail.Message) error
}

// NewTransport construye el transporte; no abre conexión hasta Deliver.
func NewTransport(cfg config.SMTPConfig) *Transport {
	t := &Transport{cfg: cfg, timeout: cfg.Timeout}
	if t.timeout <= 0 {
		t.timeout = 15 * time.Second
	}
	t.send = t.dialAndSend
	return t
}

// WithSender reemplaza el envío real (tests).
func (t *Transport) WithSender(send func(m *gomail.Message) error) *Transport {
	t.send = send
	return t
}

func (t *Transport) dialer() *gomail.Dialer {
	d := gomail.NewDialer(t.cfg.Server, t.cfg.Port, t.cfg.Username, t.cfg.Password)
	if t.cfg.Username == "" {
		d.Auth = nil
	}
	if t.cfg.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: t.cfg.Server, MinVersion: tls.VersionTLS12}
		// 465 es TLS implícito; el resto negocia STARTTLS.
		d.SSL = t.cfg.Port == 465
	}
	return d
}

func (t *Transport) dialAndSend(m *gomail.Message) error {
	return t.dialer().DialAndSend(m)
}

// NewMessage arma el mensaje con From "Nombre <email>".
func (t *Transport) NewMessage(recipient, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", t.cfg.SenderEmail, t.cfg.SenderName)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

// Deliver envía el correo. Respeta ctx y el timeout configurado; gomail no acepta
// contexto, así que el envío corre en una goroutine y se abandona al vencer.
// Un envío abandonado puede completarse igual: el llamador solo sabe que no hubo confirmación.
func (t *Transport) Deliver(ctx context.Context, recipient, subject, body string) error {
	if t.cfg.Server == "" {
		return fmt.Errorf("smtp: SMTP_SERVER no configurado: %w", domain.ErrProvider)
	}
	if t.cfg.SenderEmail == "" {
		return fmt.Errorf("smtp: SENDER_EMAIL no configurado: %w", domain.ErrProvider)
	}

	m := t.NewMessage(recipient, subject, body)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- t.send(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: enviar a %s: %v: %w", recipient, err, domain.ErrProvider)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: enviar a %s: %v: %w", recipient, ctx.Err(), domain.ErrProvider)
	}
}

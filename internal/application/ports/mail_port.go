package ports

import "context"

// MailTransport entrega un correo de texto plano a un destinatario.
// Un error indica que el correo no se entregó; el pipeline lo traduce a false
// sin propagarlo.
type MailTransport interface {
	Deliver(ctx context.Context, recipient, subject, body string) error
}

// PasswordHasher capacidad opaca de hash/verificación de contraseñas.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

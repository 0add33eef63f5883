package email_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/internal/application/email"
	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Generate
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_SinProveedor_PersisteRegistroAprobado(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil, nil)
	ana := customer(10, "Ana", "Ríos", "Acme", "ana@acme.com")

	log, err := p.uc.Generate(ctx, ana, "Hello {first_name} from {company}", 1)

	require.NoError(t, err)
	require.NotZero(t, log.ID)
	assert.Equal(t, "Dear Ana Ríos,\n\nHello Ana from Acme\n\nBest regards,\nMyCRM Team", log.GeneratedEmail)
	assert.Equal(t, "Message from MyCRM - Acme", log.Subject)
	assert.Equal(t, "ana@acme.com", log.RecipientEmail)
	assert.True(t, log.ComplianceApproved, "revisiones omitidas no bloquean")
	assert.False(t, log.Sent)
	assert.Equal(t, entity.EmailStateReviewedApproved, log.State())

	stored, err := p.uc.GetByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, log.GeneratedEmail, stored.GeneratedEmail)
}

func TestGenerate_VeredictoViolacion_RegistroRechazado(t *testing.T) {
	p := newPipeline(t, verdictGenerator("VIOLATION: contiene PHI", "APPROVED"), nil)

	log, err := p.uc.Generate(context.Background(), customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"), "Hola", 1)

	require.NoError(t, err)
	assert.False(t, log.ComplianceApproved)
	assert.Equal(t, entity.EmailStateReviewedRejected, log.State())
	assert.Equal(t, "Cuerpo generado", log.GeneratedEmail)
	assert.Equal(t, "Asunto generado", log.Subject)
}

func TestGenerate_EntradaInvalida_ErrorDeValidacion(t *testing.T) {
	p := newPipeline(t, nil, nil)
	ana := customer(10, "Ana", "Ríos", "Acme", "ana@acme.com")

	_, err := p.uc.Generate(context.Background(), ana, strings.Repeat("a", entity.MaxTemplateLength+1), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "cannot exceed 1000 characters")

	_, err = p.uc.Generate(context.Background(), ana, "   ", 1)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	bad := customer(11, "Bob", "X", "Y", "sin-arroba")
	_, err = p.uc.Generate(context.Background(), bad, "Hola", 1)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	logs, _ := p.uc.ListAll(context.Background())
	assert.Empty(t, logs, "el camino individual no persiste fallas")
}

func TestGenerate_ClienteSinID_ErrorDeValidacion(t *testing.T) {
	p := newPipeline(t, nil, nil)
	draft := entity.NewCustomer("Ana", "Ríos", "Acme", "CFO", "ana@acme.com")

	log, err := p.uc.Generate(context.Background(), draft, "Hola", 1)

	require.Error(t, err)
	assert.Nil(t, log)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "customer id is required")
	logs, _ := p.uc.ListAll(context.Background())
	assert.Empty(t, logs, "no se persiste un registro sin cliente")
}

func TestGenerate_PlantillaEnLimite_Aceptada(t *testing.T) {
	p := newPipeline(t, nil, nil)
	// 1000 runas multibyte: el límite es en caracteres, no en bytes.
	_, err := p.uc.Generate(context.Background(), customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"),
		strings.Repeat("ñ", entity.MaxTemplateLength), 1)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateBulk
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateBulk_FallaAisladaYPersistida(t *testing.T) {
	ctx := context.Background()
	inner := email.NewTemplatePersonalizer(nil, email.PersonalizerConfig{}, zerolog.Nop())
	p := newPipeline(t, nil, failingPersonalizer{inner: inner, failID: 21})

	c1 := customer(20, "Ana", "Ríos", "Acme", "ana@acme.com")
	c2 := customer(21, "Luis", "Paz", "Beta", "luis@beta.com")
	c3 := customer(22, "Eva", "Sol", "Gamma", "eva@gamma.com")

	logs := p.uc.GenerateBulk(ctx, []*entity.Customer{c1, c2, c3}, "Hola {first_name}", 1)

	require.Len(t, logs, 3)
	assert.Equal(t, entity.EmailStatusGenerated, logs[0].Status)
	assert.Equal(t, c1.ID, logs[0].CustomerID)
	assert.Equal(t, entity.EmailStatusFailed, logs[1].Status)
	assert.Equal(t, c2.ID, logs[1].CustomerID)
	assert.NotEmpty(t, logs[1].ErrorMessage)
	assert.Contains(t, logs[1].ErrorMessage, errPersonalize.Error())
	assert.Equal(t, entity.EmailStateFailed, logs[1].State())
	assert.Equal(t, entity.EmailStatusGenerated, logs[2].Status)
	assert.Equal(t, c3.ID, logs[2].CustomerID)

	for i, l := range logs {
		require.NotZero(t, l.ID, "registro %d debe estar persistido", i)
		got, err := p.uc.GetByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, l.Status, got.Status)
	}
}

func TestGenerateBulk_ErrorValidacion_RegistroFallido(t *testing.T) {
	p := newPipeline(t, nil, nil)
	bad := customer(30, "Bob", "X", "Y", "correo-invalido")

	logs := p.uc.GenerateBulk(context.Background(), []*entity.Customer{bad}, "Hola", 1)

	require.Len(t, logs, 1)
	assert.Equal(t, entity.EmailStatusFailed, logs[0].Status)
	assert.Contains(t, logs[0].ErrorMessage, "email format is invalid")
	assert.False(t, logs[0].ComplianceApproved, "un registro fallido nunca es enviable")
}

func TestGenerateBulk_EntradaVacia(t *testing.T) {
	p := newPipeline(t, nil, nil)
	assert.Empty(t, p.uc.GenerateBulk(context.Background(), nil, "Hola", 1))
}

// ──────────────────────────────────────────────────────────────────────────────
// Send
// ──────────────────────────────────────────────────────────────────────────────

func TestSend_TransicionUnica(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil, nil)
	log, err := p.uc.Generate(ctx, customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"), "Hola", 1)
	require.NoError(t, err)

	ok, err := p.uc.Send(ctx, log.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, p.transport.calls())
	assert.Equal(t, "ana@acme.com", p.transport.deliveries[0].To)

	sent, err := p.uc.GetByID(ctx, log.ID)
	require.NoError(t, err)
	assert.True(t, sent.Sent)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, entity.EmailStateSent, sent.State())

	ok, err = p.uc.Send(ctx, log.ID)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.True(t, errors.Is(err, entity.ErrAlreadySent))
	assert.Equal(t, 1, p.transport.calls(), "el segundo envío no debe llamar al transporte")

	listed, _ := p.uc.ListSent(ctx)
	assert.Len(t, listed, 1)
}

func TestSend_Rechazado_SinLlamarTransporte(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, verdictGenerator("APPROVED", "VIOLATION: sesgo"), nil)
	log, err := p.uc.Generate(ctx, customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"), "Hola", 1)
	require.NoError(t, err)

	ok, err := p.uc.Send(ctx, log.ID)

	assert.False(t, ok)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.True(t, errors.Is(err, entity.ErrNotApproved))
	assert.Zero(t, p.transport.calls())
}

func TestSend_FallaTransporte_FalseSinModificar(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil, nil)
	p.transport.err = errors.New("connection reset")
	log, err := p.uc.Generate(ctx, customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"), "Hola", 1)
	require.NoError(t, err)

	ok, err := p.uc.Send(ctx, log.ID)

	require.NoError(t, err)
	assert.False(t, ok)
	after, _ := p.uc.GetByID(ctx, log.ID)
	assert.False(t, after.Sent)
	assert.Nil(t, after.SentAt)

	// Sin reintento automático; un nuevo intento manual sí llama al transporte.
	p.transport.err = nil
	ok, err = p.uc.Send(ctx, log.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, p.transport.calls())
}

func TestSend_NoExiste(t *testing.T) {
	p := newPipeline(t, nil, nil)

	ok, err := p.uc.Send(context.Background(), 999)

	assert.False(t, ok)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "999")
}

func TestSend_RegistroFallido_NoEnviable(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil, nil)
	logs := p.uc.GenerateBulk(ctx, []*entity.Customer{customer(30, "Bob", "X", "Y", "invalido")}, "Hola", 1)
	require.Len(t, logs, 1)

	_, err := p.uc.Send(ctx, logs[0].ID)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Zero(t, p.transport.calls())
}

// ──────────────────────────────────────────────────────────────────────────────
// SendBulk
// ──────────────────────────────────────────────────────────────────────────────

func TestSendBulk_MapeoCompleto(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil, nil)
	a, err := p.uc.Generate(ctx, customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"), "Hola", 1)
	require.NoError(t, err)
	b, err := p.uc.Generate(ctx, customer(11, "Luis", "Paz", "Beta", "luis@beta.com"), "Hola", 1)
	require.NoError(t, err)
	_, err = p.uc.Send(ctx, b.ID)
	require.NoError(t, err)

	results := p.uc.SendBulk(ctx, []int64{a.ID, b.ID, 404})

	assert.Equal(t, map[int64]bool{a.ID: true, b.ID: false, 404: false}, results)
	assert.Equal(t, 2, p.transport.calls(), "un envío previo + uno del lote")
}

func TestSendBulk_IDRepetido_ConservaEnvioExitoso(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil, nil)
	a, err := p.uc.Generate(ctx, customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"), "Hola", 1)
	require.NoError(t, err)

	results := p.uc.SendBulk(ctx, []int64{a.ID, a.ID})

	assert.Equal(t, map[int64]bool{a.ID: true}, results)
	assert.Equal(t, 1, p.transport.calls(), "el ID repetido no se reenvía")
	stored, err := p.uc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Sent)
}

func TestSendBulk_TodosFallan_DevuelveCadaID(t *testing.T) {
	p := newPipeline(t, nil, nil)
	results := p.uc.SendBulk(context.Background(), []int64{7, 8})
	assert.Equal(t, map[int64]bool{7: false, 8: false}, results)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestList_PorClienteYUsuario(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, nil, nil)
	_, err := p.uc.Generate(ctx, customer(10, "Ana", "Ríos", "Acme", "ana@acme.com"), "Hola", 1)
	require.NoError(t, err)
	_, err = p.uc.Generate(ctx, customer(11, "Luis", "Paz", "Beta", "luis@beta.com"), "Hola", 2)
	require.NoError(t, err)

	byCustomer, err := p.uc.ListByCustomer(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	byUser, err := p.uc.ListByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, int64(11), byUser[0].CustomerID)
}

func TestResolveCustomers_ConservaOrdenYReportaFaltantes(t *testing.T) {
	p := newPipeline(t, nil, nil)

	got, err := p.uc.ResolveCustomers(context.Background(), []int64{2, 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Jane", got[0].FirstName)
	assert.Equal(t, "John", got[1].FirstName)

	_, err = p.uc.ResolveCustomers(context.Background(), []int64{1, 99})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAuditReport_SinGenerador(t *testing.T) {
	p := newPipeline(t, nil, nil)
	_, err := p.uc.AuditReport(context.Background())
	assert.ErrorIs(t, err, email.ErrReportUnavailable)
}

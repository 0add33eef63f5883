package email_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/internal/application/email"
	"github.com/jhoicas/mycrm-api/internal/domain/entity"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/backend"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/memory"
)

// ── Generador de texto falso ──────────────────────────────────────────────────

type completion struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// fakeGenerator responde según el prompt de sistema; registra cada llamada.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   []completion
	respond func(system, user string) (string, error)
}

func (g *fakeGenerator) Complete(_ context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, completion{system, user, maxTokens, temperature})
	g.mu.Unlock()
	return g.respond(system, user)
}

// verdictGenerator aprueba todo salvo lo indicado: hipaa/ai devuelven el texto dado.
func verdictGenerator(hipaa, ai string) *fakeGenerator {
	return &fakeGenerator{respond: func(system, _ string) (string, error) {
		switch {
		case strings.Contains(system, "HIPAA"):
			return hipaa, nil
		case strings.Contains(system, "ethics"):
			return ai, nil
		case strings.Contains(system, "subject"):
			return "Asunto generado", nil
		default:
			return "Cuerpo generado", nil
		}
	}}
}

// ── Transporte falso ──────────────────────────────────────────────────────────

type delivery struct{ To, Subject, Body string }

type fakeTransport struct {
	mu         sync.Mutex
	deliveries []delivery
	err        error
}

func (t *fakeTransport) Deliver(_ context.Context, to, subject, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deliveries = append(t.deliveries, delivery{to, subject, body})
	return t.err
}

func (t *fakeTransport) calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.deliveries)
}

// ── Personalizador que falla para un cliente ─────────────────────────────────

var errPersonalize = errors.New("modelo no disponible para este cliente")

type failingPersonalizer struct {
	inner  email.Personalizer
	failID int64
}

func (p failingPersonalizer) Personalize(ctx context.Context, c *entity.Customer, template string) (email.Draft, error) {
	if c.ID == p.failID {
		return email.Draft{}, errPersonalize
	}
	return p.inner.Personalize(ctx, c, template)
}

// ── Armado ────────────────────────────────────────────────────────────────────

func newStores(t *testing.T) *backend.Selector {
	t.Helper()
	fb, err := memory.NewBackend(func(p string) (string, error) { return "h:" + p, nil })
	require.NoError(t, err)
	return backend.NewSelector(context.Background(), nil, fb, zerolog.Nop(), nil)
}

type pipeline struct {
	uc        *email.EmailUseCase
	stores    *backend.Selector
	transport *fakeTransport
}

func newPipeline(t *testing.T, gen *fakeGenerator, personalizer email.Personalizer) pipeline {
	t.Helper()
	stores := newStores(t)
	var g email.Personalizer = personalizer
	var reviewer *email.ComplianceReviewer
	if gen != nil {
		if g == nil {
			g = email.NewTemplatePersonalizer(gen, email.PersonalizerConfig{}, zerolog.Nop())
		}
		reviewer = email.NewComplianceReviewer(gen, 0, zerolog.Nop(), nil)
	} else {
		if g == nil {
			g = email.NewTemplatePersonalizer(nil, email.PersonalizerConfig{}, zerolog.Nop())
		}
		reviewer = email.NewComplianceReviewer(nil, 0, zerolog.Nop(), nil)
	}
	transport := &fakeTransport{}
	uc := email.NewEmailUseCase(email.Deps{
		Stores:       stores,
		Personalizer: g,
		Reviewer:     reviewer,
		Transport:    transport,
		Flags:        email.Flags{HIPAA: true, AI: true},
		Log:          zerolog.Nop(),
	})
	return pipeline{uc: uc, stores: stores, transport: transport}
}

func customer(id int64, first, last, company, mail string) *entity.Customer {
	c := entity.NewCustomer(first, last, company, "CFO", mail)
	c.ID = id
	return c
}

package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/internal/domain/repository"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/backend"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/memory"
	"github.com/jhoicas/mycrm-api/pkg/metrics"
)

// fakeDurable backend durable de prueba: el "store durable" es uno en memoria
// envuelto para poder distinguirlo por tipo.
type fakeDurable struct {
	pingErr  error
	failKind backend.Kind
	pings    int
}

type durableCustomers struct{ repository.CustomerRepository }
type durableUsers struct{ repository.UserRepository }
type durableRoles struct{ repository.RoleRepository }
type durableEmailLogs struct{ repository.EmailLogRepository }

var errConstruct = errors.New("tabla inexistente")

func (f *fakeDurable) Ping(context.Context) error {
	f.pings++
	return f.pingErr
}

func (f *fakeDurable) Customers(context.Context) (repository.CustomerRepository, error) {
	if f.failKind == backend.KindCustomer {
		return nil, errConstruct
	}
	return durableCustomers{memory.NewCustomerStore()}, nil
}

func (f *fakeDurable) Users(context.Context) (repository.UserRepository, error) {
	if f.failKind == backend.KindUser {
		return nil, errConstruct
	}
	return durableUsers{memory.NewUserStore()}, nil
}

func (f *fakeDurable) Roles(context.Context) (repository.RoleRepository, error) {
	if f.failKind == backend.KindRole {
		return nil, errConstruct
	}
	return durableRoles{memory.NewRoleStore()}, nil
}

func (f *fakeDurable) EmailLogs(context.Context) (repository.EmailLogRepository, error) {
	if f.failKind == backend.KindEmailLog {
		return nil, errConstruct
	}
	return durableEmailLogs{memory.NewEmailLogStore()}, nil
}

func newFallback(t *testing.T) *memory.Backend {
	t.Helper()
	fb, err := memory.NewBackend(func(p string) (string, error) { return "h:" + p, nil })
	require.NoError(t, err)
	return fb
}

// ──────────────────────────────────────────────────────────────────────────────
// Probe negativo
// ──────────────────────────────────────────────────────────────────────────────

func TestSelector_SinDurable_StoreMemoriaMemorizado(t *testing.T) {
	s := backend.NewSelector(context.Background(), &fakeDurable{pingErr: errors.New("connection refused")},
		newFallback(t), zerolog.Nop(), nil)

	assert.False(t, s.UsingDurable())

	first := s.Customers()
	_, isMemory := first.(*memory.CustomerStore)
	require.True(t, isMemory, "con probe negativo el store debe ser en memoria")

	second := s.Customers()
	assert.Same(t, first.(*memory.CustomerStore), second.(*memory.CustomerStore),
		"la segunda llamada debe devolver la misma instancia")
	assert.Equal(t, map[backend.Kind]string{backend.KindCustomer: backend.BackendMemory}, s.Backends())
}

func TestSelector_DurableNil_UsaMemoria(t *testing.T) {
	s := backend.NewSelector(context.Background(), nil, newFallback(t), zerolog.Nop(), nil)

	assert.False(t, s.UsingDurable())
	_, ok := s.EmailLogs().(*memory.EmailLogStore)
	assert.True(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Probe positivo con fallas por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestSelector_FallaConstruccion_AisladaPorTipo(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s := backend.NewSelector(context.Background(), &fakeDurable{failKind: backend.KindUser},
		newFallback(t), zerolog.Nop(), m)

	require.True(t, s.UsingDurable())

	_, ok := s.Customers().(durableCustomers)
	assert.True(t, ok, "customers debe ser durable")
	_, ok = s.Users().(*memory.UserStore)
	assert.True(t, ok, "users cae a memoria porque su construcción falló")
	_, ok = s.Roles().(durableRoles)
	assert.True(t, ok, "roles no se ve afectado por la falla de users")
	_, ok = s.EmailLogs().(durableEmailLogs)
	assert.True(t, ok)

	backends := s.Backends()
	assert.Equal(t, backend.BackendDurable, backends[backend.KindCustomer])
	assert.Equal(t, backend.BackendMemory, backends[backend.KindUser])

	assert.Equal(t, 1.0, m.StoreBackendValue("user", backend.BackendMemory))
	assert.Equal(t, 0.0, m.StoreBackendValue("user", backend.BackendDurable))
	assert.Equal(t, 1.0, m.CounterValue("probes", "available"))
}

func TestSelector_UsuariosDeEjemploEnRespaldo(t *testing.T) {
	s := backend.NewSelector(context.Background(), nil, newFallback(t), zerolog.Nop(), nil)

	admin, err := s.Users().FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "h:admin123", admin.PasswordHash)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reset
// ──────────────────────────────────────────────────────────────────────────────

func TestSelector_Reset_VuelveAProbarYReconstruye(t *testing.T) {
	durable := &fakeDurable{pingErr: errors.New("down")}
	s := backend.NewSelector(context.Background(), durable, newFallback(t), zerolog.Nop(), nil)

	_, ok := s.Customers().(*memory.CustomerStore)
	require.True(t, ok)
	assert.Equal(t, 1, durable.pings)

	// El backend se recupera: sin Reset la elección sigue memorizada.
	durable.pingErr = nil
	_, ok = s.Customers().(*memory.CustomerStore)
	assert.True(t, ok, "sin Reset no se vuelve a probar")
	assert.Equal(t, 1, durable.pings)

	assert.True(t, s.Reset(context.Background()))
	assert.Equal(t, 2, durable.pings)
	assert.True(t, s.UsingDurable())
	assert.Empty(t, s.Backends(), "Reset descarta las instancias memorizadas")

	_, ok = s.Customers().(durableCustomers)
	assert.True(t, ok, "tras Reset se construye el store durable")
}

// Package backend elige, por tipo de entidad, entre el store durable (PostgreSQL)
// y el store en memoria, y memoriza la elección hasta el próximo Reset.
package backend

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/mycrm-api/internal/domain/repository"
	"github.com/jhoicas/mycrm-api/pkg/metrics"
)

// Kind tipo de entidad administrado por el selector.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindUser     Kind = "user"
	KindRole     Kind = "role"
	KindEmailLog Kind = "email_log"
)

// Nombres de backend reportados en logs, métricas y /health.
const (
	BackendDurable = "postgres"
	BackendMemory  = "memory"
)

// Durable lado persistente. Cada constructor puede fallar de forma independiente.
type Durable interface {
	Ping(ctx context.Context) error
	Customers(ctx context.Context) (repository.CustomerRepository, error)
	Users(ctx context.Context) (repository.UserRepository, error)
	Roles(ctx context.Context) (repository.RoleRepository, error)
	EmailLogs(ctx context.Context) (repository.EmailLogRepository, error)
}

// Fallback construye stores en memoria; nunca falla.
type Fallback interface {
	Customers() repository.CustomerRepository
	Users() repository.UserRepository
	Roles() repository.RoleRepository
	EmailLogs() repository.EmailLogRepository
}

var _ repository.Provider = (*Selector)(nil)

// Selector implementa repository.Provider. Se construye una vez en main y se
// inyecta en los casos de uso; no hay estado global.
type Selector struct {
	durable  Durable // nil = sin backend durable configurado
	fallback Fallback
	log      zerolog.Logger
	metrics  *metrics.Metrics

	mu        sync.Mutex
	available bool
	stores    map[Kind]any
	backends  map[Kind]string
}

// NewSelector construye el selector y ejecuta el primer probe.
func NewSelector(ctx context.Context, durable Durable, fallback Fallback, log zerolog.Logger, m *metrics.Metrics) *Selector {
	s := &Selector{
		durable:  durable,
		fallback: fallback,
		log:      log,
		metrics:  m,
		stores:   make(map[Kind]any),
		backends: make(map[Kind]string),
	}
	s.available = s.Probe(ctx)
	return s
}

// Probe intenta un ping al backend durable. Cualquier error se traduce a false.
// No modifica el flag memorizado; eso solo ocurre en NewSelector y Reset.
func (s *Selector) Probe(ctx context.Context) bool {
	if s.durable == nil {
		s.metrics.ObserveProbe("unavailable")
		s.log.Info().Msg("backend durable no configurado, se usará memoria")
		return false
	}
	if err := s.durable.Ping(ctx); err != nil {
		s.metrics.ObserveProbe("unavailable")
		s.log.Warn().Err(err).Msg("backend durable no disponible, se usará memoria")
		return false
	}
	s.metrics.ObserveProbe("available")
	s.log.Info().Msg("backend durable disponible")
	return true
}

// Reset descarta los stores memorizados y repite el probe.
func (s *Selector) Reset(ctx context.Context) bool {
	available := s.Probe(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = available
	s.stores = make(map[Kind]any)
	s.backends = make(map[Kind]string)
	s.metrics.ResetStoreBackends()
	s.log.Info().Bool("durable", available).Msg("selector de backend reiniciado")
	return available
}

// UsingDurable resultado memorizado del último probe.
func (s *Selector) UsingDurable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// Backends copia de la elección por tipo (solo tipos ya construidos).
func (s *Selector) Backends() map[Kind]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Kind]string, len(s.backends))
	for k, v := range s.backends {
		out[k] = v
	}
	return out
}

// get devuelve el store memorizado de kind o lo construye: durable si el probe fue
// positivo y la construcción no falla; en cualquier otro caso, memoria.
func (s *Selector) get(kind Kind, durable func(context.Context) (any, error), memory func() any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if store, ok := s.stores[kind]; ok {
		return store
	}

	var store any
	backend := BackendMemory
	if s.available && s.durable != nil {
		built, err := durable(context.Background())
		if err != nil {
			s.log.Error().Err(err).Str("kind", string(kind)).Msg("no se pudo construir el store durable, usando memoria")
		} else {
			store, backend = built, BackendDurable
		}
	}
	if store == nil {
		store = memory()
	}

	s.stores[kind] = store
	s.backends[kind] = backend
	s.metrics.SetStoreBackend(string(kind), backend)
	s.log.Info().Str("kind", string(kind)).Str("backend", backend).Msg("store seleccionado")
	return store
}

// Customers store de clientes.
func (s *Selector) Customers() repository.CustomerRepository {
	return s.get(KindCustomer,
		func(ctx context.Context) (any, error) { return s.durable.Customers(ctx) },
		func() any { return s.fallback.Customers() },
	).(repository.CustomerRepository)
}

// Users store de usuarios.
func (s *Selector) Users() repository.UserRepository {
	return s.get(KindUser,
		func(ctx context.Context) (any, error) { return s.durable.Users(ctx) },
		func() any { return s.fallback.Users() },
	).(repository.UserRepository)
}

// Roles store de roles.
func (s *Selector) Roles() repository.RoleRepository {
	return s.get(KindRole,
		func(ctx context.Context) (any, error) { return s.durable.Roles(ctx) },
		func() any { return s.fallback.Roles() },
	).(repository.RoleRepository)
}

// EmailLogs store de registros de correo.
func (s *Selector) EmailLogs() repository.EmailLogRepository {
	return s.get(KindEmailLog,
		func(ctx context.Context) (any, error) { return s.durable.EmailLogs(ctx) },
		func() any { return s.fallback.EmailLogs() },
	).(repository.EmailLogRepository)
}

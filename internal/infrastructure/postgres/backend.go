package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/domain/repository"
	"github.com/jhoicas/mycrm-api/pkg/config"
)

//go:embed schema.sql
var schemaSQL string

// Backend lado durable del selector: crea el pool de forma perezosa y construye
// un repositorio por tipo de entidad tras verificar que su tabla responde.
type Backend struct {
	cfg     config.DBConfig
	timeout time.Duration

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewBackend no abre conexiones; la primera ocurre en Ping.
func NewBackend(cfg config.DBConfig) *Backend {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Backend{cfg: cfg, timeout: timeout}
}

func (b *Backend) getPool(ctx context.Context) (*pgxpool.Pool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pool != nil {
		return b.pool, nil
	}
	if !b.cfg.Configured() {
		return nil, fmt.Errorf("postgres: sin DATABASE_URL ni DB_HOST: %w", domain.ErrBackendUnavailable)
	}
	pool, err := NewPool(ctx, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: %v: %w", err, domain.ErrBackendUnavailable)
	}
	b.pool = pool
	return pool, nil
}

// Ping prueba de conectividad acotada por DB_CONNECT_TIMEOUT_SECONDS.
func (b *Backend) Ping(ctx context.Context) error {
	pool, err := b.getPool(ctx)
	if err != nil {
		return err
	}
	if err := Ping(ctx, pool, b.timeout); err != nil {
		return fmt.Errorf("postgres: %v: %w", err, domain.ErrBackendUnavailable)
	}
	return nil
}

// EnsureSchema aplica schema.sql (idempotente) en una sola transacción.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	pool, err := b.getPool(ctx)
	if err != nil {
		return err
	}
	return NewTxRunner(pool).Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
		return nil
	})
}

// ready verifica que la tabla existe y es legible.
func (b *Backend) ready(ctx context.Context, table string) (*pgxpool.Pool, error) {
	pool, err := b.getPool(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	if _, err := pool.Exec(ctx, `SELECT 1 FROM `+table+` LIMIT 0`); err != nil {
		return nil, fmt.Errorf("postgres: tabla %s: %v: %w", table, err, domain.ErrBackendUnavailable)
	}
	return pool, nil
}

func (b *Backend) Customers(ctx context.Context) (repository.CustomerRepository, error) {
	pool, err := b.ready(ctx, "customers")
	if err != nil {
		return nil, err
	}
	return NewCustomerRepository(pool), nil
}

func (b *Backend) Users(ctx context.Context) (repository.UserRepository, error) {
	pool, err := b.ready(ctx, "users")
	if err != nil {
		return nil, err
	}
	return NewUserRepository(pool), nil
}

func (b *Backend) Roles(ctx context.Context) (repository.RoleRepository, error) {
	pool, err := b.ready(ctx, "roles")
	if err != nil {
		return nil, err
	}
	return NewRoleRepository(pool), nil
}

func (b *Backend) EmailLogs(ctx context.Context) (repository.EmailLogRepository, error) {
	pool, err := b.ready(ctx, "email_logs")
	if err != nil {
		return nil, err
	}
	return NewEmailLogRepository(pool), nil
}

// Close libera el pool si se llegó a crear.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
}

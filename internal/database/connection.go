package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/tunevault/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
)

// DB is the catalogue's PostgreSQL pool. Repositories share it; the health
// endpoint pings through it.
type DB struct {
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

// New wraps an existing pool. Used by tests that bring their own container.
func New(pool *pgxpool.Pool, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{Pool: pool, logger: logger}
}

// NewConnection opens the pool described by cfg and fails unless the
// server answers a ping within connectTimeout.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool for %s: %w", cfg.Name, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	logger.Info("postgres pool ready",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Name),
		slog.String("sslmode", cfg.SSLMode),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Int("min_conns", int(poolConfig.MinConns)),
		slog.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
		slog.Duration("max_conn_idle_time", poolConfig.MaxConnIdleTime),
		slog.Duration("health_check_period", poolConfig.HealthCheckPeriod),
	)

	return &DB{Pool: pool, logger: logger}, nil
}

// newPoolConfig applies the DB_* tuning knobs on top of the parsed DSN.
// Zero values keep pgxpool's own defaults.
func newPoolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = min(cfg.MinConns, poolConfig.MaxConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	return poolConfig, nil
}

func (db *DB) Close() {
	stat := db.Pool.Stat()
	db.logger.Info("closing postgres pool",
		slog.Int("acquired_conns", int(stat.AcquiredConns())),
		slog.Int("total_conns", int(stat.TotalConns())),
	)
	db.Pool.Close()
}

// HealthCheck pings the server. The caller's deadline wins when it is
// shorter than pingTimeout.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres health check: %w", err)
	}
	return nil
}

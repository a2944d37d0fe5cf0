// Package postgres provides the PostgreSQL implementation of the user and
// project repositories. It uses pgx/v5 connection pooling and applies its
// embedded schema migrations on start when configured to.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store owns the connection pool shared by the repositories.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New creates a PostgreSQL store with the given configuration.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool, log: log}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Users returns the user repository backed by s.
func (s *Store) Users() *UserRepository { return &UserRepository{pool: s.pool} }

// Projects returns the project repository backed by s.
func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{pool: s.pool} }

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close releases all pooled connections.
func (s *Store) Close() { s.pool.Close() }

// Package dbpool provides the PostgreSQL handle for the relational source.
package dbpool

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Pool wraps a pgxpool.Pool. The migration is sequential, so the pool is kept
// small: one connection serves the reader and a spare covers verification.
type Pool struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

// Options tunes a Pool.
type Options struct {
	// ReadOnly makes every session default to read-only transactions.
	ReadOnly bool
	MaxConns int32
}

// NewPool creates a PostgreSQL connection pool and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string, opts Options) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	if opts.ReadOnly {
		cfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
	}

	cfg.ConnConfig.RuntimeParams["application_name"] = "bookgraph"

	cfg.MaxConns = 2
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 2 * time.Hour
	cfg.MaxConnIdleTime = 10 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool, db: stdlib.OpenDBFromPool(pool)}, nil
}

// DB returns a database/sql view of the pool. The source reader and goose
// both work against database/sql so that SQLite sources share their code.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Close releases the database/sql view and then the pool.
func (p *Pool) Close() {
	p.db.Close() //nolint:errcheck // closing the stdlib wrapper never fails for pool-backed DBs.
	p.pool.Close()
}

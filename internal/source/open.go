package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // register the pure-Go SQLite driver.

	"github.com/persistorai/bookgraph/internal/config"
	"github.com/persistorai/bookgraph/internal/dbpool"
)

// Handle is the single relational connection held for a run.
type Handle struct {
	DB     *sql.DB
	Driver string

	pool *dbpool.Pool
}

// Open connects to the relational source described by cfg. With readOnly set,
// PostgreSQL sessions default to read-only transactions and SQLite files are
// opened in read-only mode.
func Open(ctx context.Context, cfg *config.SourceConfig, readOnly bool) (*Handle, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := dbpool.NewPool(ctx, cfg.URL(), dbpool.Options{ReadOnly: readOnly})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &Handle{DB: pool.DB(), Driver: cfg.Driver, pool: pool}, nil

	case config.DriverSQLite:
		dsn := cfg.SQLitePath
		if readOnly {
			dsn = "file:" + dsn + "?mode=ro"
		}

		lite, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		lite.SetMaxOpenConns(1)

		if err := lite.PingContext(ctx); err != nil {
			lite.Close() //nolint:errcheck // already failing.

			return nil, fmt.Errorf("ping sqlite: %w", err)
		}

		return &Handle{DB: lite, Driver: cfg.Driver}, nil

	default:
		return nil, fmt.Errorf("unsupported source driver %q", cfg.Driver)
	}
}

// Close releases the connection.
func (h *Handle) Close() {
	if h.pool != nil {
		h.pool.Close()

		return
	}

	h.DB.Close() //nolint:errcheck // nothing useful to do on close failure.
}

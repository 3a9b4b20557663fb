// Migration runner using goose (github.com/pressly/goose/v3).
//
// The relational catalogue schema is owned by the connectors that fill it.
// bookgraph embeds a copy of that schema so a local or test database can be
// bootstrapped with `bookgraph schema`; the migration pipeline itself never
// writes to the relational store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/bookgraph/internal/config"
	"github.com/persistorai/bookgraph/internal/db/migrations"
)

// dialectFS returns the goose dialect and migration directory for a source driver.
func dialectFS(driver string) (goose.Dialect, fs.FS, error) {
	var (
		dialect goose.Dialect
		dir     string
	)

	switch driver {
	case config.DriverPostgres:
		dialect, dir = goose.DialectPostgres, "postgres"
	case config.DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "sqlite"
	default:
		return "", nil, fmt.Errorf("no schema migrations for driver %q", driver)
	}

	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s migrations: %w", dir, err)
	}

	return dialect, sub, nil
}

// RunMigrations applies all pending catalogue schema migrations for driver.
func RunMigrations(ctx context.Context, sqlDB *sql.DB, driver string, log *logrus.Logger) error {
	dialect, fsys, err := dialectFS(driver)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.Debug("all migrations already applied")
	}

	return nil
}

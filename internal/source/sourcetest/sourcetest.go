// Package sourcetest provides a migrated, file-backed SQLite catalogue for tests.
package sourcetest

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/bookgraph/internal/config"
	"github.com/persistorai/bookgraph/internal/db"
	"github.com/persistorai/bookgraph/internal/source"
)

// Logger returns a logger that discards everything.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

// Open creates an empty catalogue schema in a temporary SQLite file and
// returns its handle. The handle is closed when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	cfg := &config.SourceConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "catalogue.db"),
	}

	h, err := source.Open(ctx, cfg, false)
	if err != nil {
		t.Fatalf("open sqlite source: %v", err)
	}
	t.Cleanup(h.Close)

	if err := db.RunMigrations(ctx, h.DB, config.DriverSQLite, Logger()); err != nil {
		t.Fatalf("migrate sqlite source: %v", err)
	}

	return h.DB
}

// Exec runs each statement in order, failing the test on the first error.
func Exec(t *testing.T, sqlDB *sql.DB, stmts ...string) {
	t.Helper()

	for _, stmt := range stmts {
		if _, err := sqlDB.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
}

// Catalogue is a small catalogue covering nulls, missing satellites and a
// link to an author that does not exist.
var Catalogue = []string{
	`INSERT INTO Publisher (publisher_id, name) VALUES (1, 'Penguin'), (2, NULL)`,
	`INSERT INTO Author (author_id, name) VALUES (1, 'Ann'), (2, 'Bo')`,
	`INSERT INTO Category (category_id, name) VALUES (3, 'Fiction')`,
	`INSERT INTO Subject (subject_id, name) VALUES (4, 'Sea')`,
	`INSERT INTO Book (book_id, isbn13, title, publication_year, page_count)
		VALUES (10, '9780000000001', 'Moby', 1851, 635), (11, NULL, 'Drift', NULL, NULL)`,
	`INSERT INTO Ratings (book_id, avg_rating, ratings_count) VALUES (10, 4.5, 120)`,
	`INSERT INTO PhysicalBook (book_id, format) VALUES (10, 'hardcover')`,
	`INSERT INTO EBook (book_id, ebook_url) VALUES (11, 'https://books.example/drift')`,
	`INSERT INTO Price (price_id, book_id, country, on_sale_date, saleability, list_price, retail_price,
		list_price_currency_code, retail_price_currency_code, buy_link)
		VALUES (7, 10, 'US', '2020-01-01', 'FOR_SALE', 10.0, 8.0, 'USD', 'USD', 'https://buy.example/7'),
		       (8, 99, 'GB', NULL, 'NOT_FOR_SALE', NULL, 0.0, NULL, 'GBP', NULL)`,
	`INSERT INTO BookAuthor (book_id, author_id) VALUES (10, 1), (10, 999), (11, 2)`,
	`INSERT INTO BookPublisher (book_id, publisher_id) VALUES (10, 1)`,
	`INSERT INTO BookCategory (book_id, category_id) VALUES (11, 3)`,
	`INSERT INTO BookSubject (book_id, subject_id) VALUES (10, 4), (12, 4)`,
}

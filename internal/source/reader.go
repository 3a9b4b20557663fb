// Package source reads the catalogue from its relational store.
//
// Every read returns the complete table in primary-key order; there is no
// filtering or pagination. Errors are returned unchanged in kind, wrapped with
// the table they came from, and are fatal to a migration run.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/bookgraph/internal/models"
)

const defaultQueryTimeout = 5 * time.Minute

// bookQuery denormalizes the three optional satellites into the book row.
const bookQuery = `SELECT b.book_id, b.isbn10, b.isbn13, b.title, b.subtitle, b.description,
	b.language_code, b.publication_year, b.page_count, b.maturity_rating,
	b.google_books_id, b.google_preview_link, b.google_info_link, b.google_canonical_link,
	r.avg_rating, r.ratings_count, pb.format, eb.ebook_url
FROM Book b
LEFT JOIN Ratings r ON b.book_id = r.book_id
LEFT JOIN PhysicalBook pb ON b.book_id = pb.book_id
LEFT JOIN EBook eb ON b.book_id = eb.book_id
ORDER BY b.book_id`

// priceQuery casts on_sale_date to text so PostgreSQL DATE and SQLite TEXT
// columns both come back as YYYY-MM-DD.
const priceQuery = `SELECT price_id, book_id, country, CAST(on_sale_date AS TEXT), saleability,
	list_price, retail_price, list_price_currency_code, retail_price_currency_code, buy_link
FROM Price
ORDER BY price_id`

// Reader issues the read queries of a migration run against one handle.
type Reader struct {
	db      *sql.DB
	log     *logrus.Logger
	timeout time.Duration
}

// NewReader creates a Reader. A non-positive timeout selects the default.
func NewReader(db *sql.DB, log *logrus.Logger, timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &Reader{db: db, log: log, timeout: timeout}
}

// withTimeout creates a context bounded by the per-query timeout.
func (r *Reader) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// ReadNamed returns every row of a Publisher, Author, Category or Subject table.
func (r *Reader) ReadNamed(ctx context.Context, entity models.EntityType) ([]models.NamedRow, error) {
	if !entity.Named() {
		return nil, fmt.Errorf("read %q: %w", entity, models.ErrUnknownEntity)
	}

	query := fmt.Sprintf("SELECT %[1]s, name FROM %[2]s ORDER BY %[1]s", entity.KeyColumn(), entity.Table())

	return queryAll(ctx, r, entity.Table(), query, scanNamed)
}

// ReadBooks returns every Book row joined with its satellites. A satellite
// table holding more than one row for a book would fan the book out; only the
// first joined row per book is kept so identity keys stay unique.
func (r *Reader) ReadBooks(ctx context.Context) ([]models.BookRow, error) {
	rows, err := queryAll(ctx, r, models.EntityBook.Table(), bookQuery, scanBook)
	if err != nil {
		return nil, err
	}

	out := rows[:0]
	seen := make(map[int64]bool, len(rows))
	for i := range rows {
		if seen[rows[i].ID] {
			r.log.WithField("book_id", rows[i].ID).Warn("duplicate satellite row for book, keeping first")
			continue
		}
		seen[rows[i].ID] = true
		out = append(out, rows[i])
	}

	return out, nil
}

// ReadPrices returns every Price row.
func (r *Reader) ReadPrices(ctx context.Context) ([]models.PriceRow, error) {
	return queryAll(ctx, r, models.EntityPrice.Table(), priceQuery, scanPrice)
}

// ReadLinks returns every row of the join table backing rel. PRICED_AT has no
// join table; its pairs come from ReadPrices.
func (r *Reader) ReadLinks(ctx context.Context, rel models.RelationType) ([]models.LinkRow, error) {
	table := rel.JoinTable()
	if table == "" {
		return nil, fmt.Errorf("read links %q: %w", rel, models.ErrUnknownRelation)
	}

	query := fmt.Sprintf("SELECT book_id, %[1]s FROM %[2]s ORDER BY book_id, %[1]s", rel.JoinColumn(), table)

	return queryAll(ctx, r, table, query, scanLink)
}

// Count returns the number of rows in entity's table.
func (r *Reader) Count(ctx context.Context, entity models.EntityType) (int, error) {
	if !entity.Valid() {
		return 0, fmt.Errorf("count %q: %w", entity, models.ErrUnknownEntity)
	}

	return r.count(ctx, entity.Table(), "SELECT count(*) FROM "+entity.Table())
}

// CountLinks returns the number of rel pairs whose book and target rows both
// exist, i.e. the number of edges a migration is expected to create.
func (r *Reader) CountLinks(ctx context.Context, rel models.RelationType) (int, error) {
	if !rel.Valid() {
		return 0, fmt.Errorf("count %q: %w", rel, models.ErrUnknownRelation)
	}

	if rel == models.RelPricedAt {
		return r.count(ctx, "Price",
			"SELECT count(*) FROM Price p JOIN Book b ON b.book_id = p.book_id")
	}

	target := rel.Target()
	query := fmt.Sprintf(
		"SELECT count(*) FROM %s j JOIN Book b ON b.book_id = j.book_id JOIN %s e ON e.%s = j.%s",
		rel.JoinTable(), target.Table(), target.KeyColumn(), rel.JoinColumn())

	return r.count(ctx, rel.JoinTable(), query)
}

func (r *Reader) count(ctx context.Context, table, query string) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	return n, nil
}

// queryAll runs query and scans every row with scan.
func queryAll[T any](ctx context.Context, r *Reader, table, query string, scan func(func(...any) error) (T, error)) ([]T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	r.log.WithFields(logrus.Fields{
		"table":    table,
		"rows":     len(out),
		"duration": time.Since(start),
	}).Debug("read table")

	return out, nil
}

package source_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/persistorai/bookgraph/internal/config"
	"github.com/persistorai/bookgraph/internal/db"
	"github.com/persistorai/bookgraph/internal/dbpool"
	"github.com/persistorai/bookgraph/internal/models"
	"github.com/persistorai/bookgraph/internal/source"
	"github.com/persistorai/bookgraph/internal/source/sourcetest"
)

// newPostgresReader migrates the database at TEST_DATABASE_URL, replaces its
// catalogue with sourcetest.Catalogue and returns a reader over it.
func newPostgresReader(t *testing.T) *source.Reader {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL, dbpool.Options{})
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}
	t.Cleanup(pool.Close)

	log := sourcetest.Logger()
	if err := db.RunMigrations(ctx, pool.DB(), config.DriverPostgres, log); err != nil {
		t.Fatalf("migrating test DB: %v", err)
	}

	sourcetest.Exec(t, pool.DB(),
		`TRUNCATE Publisher, Author, Category, Subject, Book, Ratings, PhysicalBook, EBook, Price,
			BookAuthor, BookPublisher, BookCategory, BookSubject`)
	sourcetest.Exec(t, pool.DB(), sourcetest.Catalogue...)

	return source.NewReader(pool.DB(), log, time.Minute)
}

func TestPostgresReadPrices(t *testing.T) {
	r := newPostgresReader(t)

	prices, err := r.ReadPrices(context.Background())
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(prices))
	}

	if prices[0].OnSaleDate.String != "2020-01-01" {
		t.Errorf("OnSaleDate = %q, want 2020-01-01", prices[0].OnSaleDate.String)
	}
	if prices[0].ListPrice.Float64 != 10 {
		t.Errorf("ListPrice = %v, want 10", prices[0].ListPrice.Float64)
	}
	if !prices[1].RetailPrice.Valid || prices[1].RetailPrice.Float64 != 0 {
		t.Errorf("RetailPrice = %+v, want valid 0", prices[1].RetailPrice)
	}
}

func TestPostgresCounts(t *testing.T) {
	r := newPostgresReader(t)
	ctx := context.Background()

	books, err := r.ReadBooks(ctx)
	if err != nil {
		t.Fatalf("ReadBooks: %v", err)
	}
	if len(books) != 2 || books[0].AvgRating.Float64 != 4.5 {
		t.Errorf("books = %+v", books)
	}

	n, err := r.CountLinks(ctx, models.RelAuthoredBy)
	if err != nil {
		t.Fatalf("CountLinks: %v", err)
	}
	if n != 2 {
		t.Errorf("AUTHORED_BY expected edges = %d, want 2", n)
	}
}

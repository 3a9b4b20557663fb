package source_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/persistorai/bookgraph/internal/models"
	"github.com/persistorai/bookgraph/internal/source"
	"github.com/persistorai/bookgraph/internal/source/sourcetest"
)

func newReader(t *testing.T, stmts ...string) *source.Reader {
	t.Helper()

	sqlDB := sourcetest.Open(t)
	sourcetest.Exec(t, sqlDB, stmts...)

	return source.NewReader(sqlDB, sourcetest.Logger(), time.Minute)
}

func TestReadNamed(t *testing.T) {
	r := newReader(t, sourcetest.Catalogue...)

	rows, err := r.ReadNamed(context.Background(), models.EntityPublisher)
	if err != nil {
		t.Fatalf("ReadNamed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d publishers, want 2", len(rows))
	}
	if rows[0].ID != 1 || rows[0].Name.String != "Penguin" || !rows[0].Name.Valid {
		t.Errorf("rows[0] = %+v, want Penguin with id 1", rows[0])
	}
	if rows[1].ID != 2 || rows[1].Name.Valid {
		t.Errorf("rows[1] = %+v, want id 2 with null name", rows[1])
	}
}

func TestReadNamedEmptyTable(t *testing.T) {
	r := newReader(t)

	rows, err := r.ReadNamed(context.Background(), models.EntityAuthor)
	if err != nil {
		t.Fatalf("ReadNamed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestReadNamedRejectsUnnamedEntities(t *testing.T) {
	r := newReader(t)

	for _, e := range []models.EntityType{models.EntityBook, models.EntityPrice, "Shelf"} {
		if _, err := r.ReadNamed(context.Background(), e); !errors.Is(err, models.ErrUnknownEntity) {
			t.Errorf("ReadNamed(%q) error = %v, want ErrUnknownEntity", e, err)
		}
	}
}

func TestReadBooksJoinsSatellites(t *testing.T) {
	r := newReader(t, sourcetest.Catalogue...)

	books, err := r.ReadBooks(context.Background())
	if err != nil {
		t.Fatalf("ReadBooks: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}

	moby := books[0]
	if moby.ID != 10 || moby.Title.String != "Moby" {
		t.Fatalf("books[0] = %d %q, want 10 Moby", moby.ID, moby.Title.String)
	}
	if !moby.AvgRating.Valid || moby.AvgRating.Float64 != 4.5 {
		t.Errorf("AvgRating = %+v, want 4.5", moby.AvgRating)
	}
	if !moby.RatingsCount.Valid || moby.RatingsCount.Int64 != 120 {
		t.Errorf("RatingsCount = %+v, want 120", moby.RatingsCount)
	}
	if moby.Format.String != "hardcover" {
		t.Errorf("Format = %q, want hardcover", moby.Format.String)
	}
	if moby.EbookURL.Valid {
		t.Errorf("EbookURL = %q, want null", moby.EbookURL.String)
	}
	if moby.PublicationYear.Int64 != 1851 || moby.PageCount.Int64 != 635 {
		t.Errorf("year/pages = %d/%d, want 1851/635", moby.PublicationYear.Int64, moby.PageCount.Int64)
	}

	drift := books[1]
	if drift.AvgRating.Valid || drift.RatingsCount.Valid || drift.Format.Valid {
		t.Errorf("book 11 satellites = %+v, want all null", drift)
	}
	if drift.EbookURL.String != "https://books.example/drift" {
		t.Errorf("EbookURL = %q", drift.EbookURL.String)
	}
	if drift.ISBN13.Valid || drift.PublicationYear.Valid {
		t.Errorf("book 11 isbn13/year should be null")
	}
}

func TestReadPrices(t *testing.T) {
	r := newReader(t, sourcetest.Catalogue...)

	prices, err := r.ReadPrices(context.Background())
	if err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(prices))
	}

	p := prices[0]
	if p.ID != 7 || p.BookID.Int64 != 10 || p.Country.String != "US" {
		t.Errorf("prices[0] = %+v", p)
	}
	if p.OnSaleDate.String != "2020-01-01" {
		t.Errorf("OnSaleDate = %q, want 2020-01-01", p.OnSaleDate.String)
	}
	if p.ListPrice.Float64 != 10.0 || p.RetailPrice.Float64 != 8.0 {
		t.Errorf("prices = %v/%v, want 10/8", p.ListPrice.Float64, p.RetailPrice.Float64)
	}

	q := prices[1]
	if q.ListPrice.Valid {
		t.Error("prices[1].ListPrice should be null")
	}
	if !q.RetailPrice.Valid || q.RetailPrice.Float64 != 0 {
		t.Errorf("prices[1].RetailPrice = %+v, want valid 0", q.RetailPrice)
	}
	if q.OnSaleDate.Valid {
		t.Error("prices[1].OnSaleDate should be null")
	}
}

func TestReadLinks(t *testing.T) {
	r := newReader(t, sourcetest.Catalogue...)

	links, err := r.ReadLinks(context.Background(), models.RelAuthoredBy)
	if err != nil {
		t.Fatalf("ReadLinks: %v", err)
	}

	want := [][2]int64{{10, 1}, {10, 999}, {11, 2}}
	if len(links) != len(want) {
		t.Fatalf("got %d links, want %d", len(links), len(want))
	}
	for i, w := range want {
		if links[i].BookID.Int64 != w[0] || links[i].EntityID.Int64 != w[1] {
			t.Errorf("links[%d] = (%d, %d), want %v", i, links[i].BookID.Int64, links[i].EntityID.Int64, w)
		}
	}
}

func TestReadLinksRejectsPricedAt(t *testing.T) {
	r := newReader(t)

	if _, err := r.ReadLinks(context.Background(), models.RelPricedAt); !errors.Is(err, models.ErrUnknownRelation) {
		t.Errorf("ReadLinks(PRICED_AT) error = %v, want ErrUnknownRelation", err)
	}
}

func TestCount(t *testing.T) {
	r := newReader(t, sourcetest.Catalogue...)
	ctx := context.Background()

	tests := []struct {
		entity models.EntityType
		want   int
	}{
		{models.EntityPublisher, 2},
		{models.EntityAuthor, 2},
		{models.EntityCategory, 1},
		{models.EntitySubject, 1},
		{models.EntityBook, 2},
		{models.EntityPrice, 2},
	}

	for _, tt := range tests {
		got, err := r.Count(ctx, tt.entity)
		if err != nil {
			t.Fatalf("Count(%s): %v", tt.entity, err)
		}
		if got != tt.want {
			t.Errorf("Count(%s) = %d, want %d", tt.entity, got, tt.want)
		}
	}
}

func TestCountLinksIgnoresDanglingPairs(t *testing.T) {
	r := newReader(t, sourcetest.Catalogue...)
	ctx := context.Background()

	tests := []struct {
		rel  models.RelationType
		want int
	}{
		{models.RelAuthoredBy, 2},
		{models.RelPublishedBy, 1},
		{models.RelCategorizedAs, 1},
		{models.RelHasSubject, 1},
		{models.RelPricedAt, 1},
	}

	for _, tt := range tests {
		got, err := r.CountLinks(ctx, tt.rel)
		if err != nil {
			t.Fatalf("CountLinks(%s): %v", tt.rel, err)
		}
		if got != tt.want {
			t.Errorf("CountLinks(%s) = %d, want %d", tt.rel, got, tt.want)
		}
	}
}

func TestReaderHonoursCancelledContext(t *testing.T) {
	r := newReader(t, sourcetest.Catalogue...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ReadBooks(ctx); err == nil {
		t.Error("ReadBooks with cancelled context: expected error")
	}
}

package loader_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/bookgraph/internal/graphdb"
	"github.com/persistorai/bookgraph/internal/loader"
	"github.com/persistorai/bookgraph/internal/loader/loadertest"
	"github.com/persistorai/bookgraph/internal/models"
)

func newLoader(t *testing.T, batchSize int) (*loader.Loader, *loadertest.Graph) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	g := loadertest.New()

	return loader.New(g, log, batchSize), g
}

func books(ids ...int64) []models.Record {
	out := make([]models.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Record{"id": id, "title": "t"})
	}

	return out
}

func TestCreateNodes(t *testing.T) {
	l, g := newLoader(t, 0)
	ctx := context.Background()

	n, err := l.CreateNodes(ctx, models.EntityBook, books(1, 2, 3))
	if err != nil {
		t.Fatalf("CreateNodes: %v", err)
	}
	if n != 3 {
		t.Errorf("created %d, want 3", n)
	}
	if got := len(g.Nodes("Book")); got != 3 {
		t.Errorf("graph holds %d Book nodes, want 3", got)
	}
	if len(g.Writes) != 1 || len(g.Writes[0]) != 1 {
		t.Errorf("writes = %d transactions, want 1 transaction with 1 statement", len(g.Writes))
	}
}

func TestCreateNodesEmptyIsNoop(t *testing.T) {
	l, g := newLoader(t, 0)

	n, err := l.CreateNodes(context.Background(), models.EntityAuthor, nil)
	if err != nil || n != 0 {
		t.Fatalf("CreateNodes(empty) = %d, %v, want 0, nil", n, err)
	}
	if len(g.Writes) != 0 {
		t.Errorf("empty input issued %d writes", len(g.Writes))
	}
}

func TestCreateNodesNullAttributesAreAbsent(t *testing.T) {
	l, g := newLoader(t, 0)

	_, err := l.CreateNodes(context.Background(), models.EntityPublisher, []models.Record{{"id": int64(2), "name": nil}})
	if err != nil {
		t.Fatalf("CreateNodes: %v", err)
	}

	node := g.Nodes("Publisher")[0]
	if _, ok := node["name"]; ok {
		t.Error("null name stored on node")
	}
}

func TestCreateNodesValidation(t *testing.T) {
	l, g := newLoader(t, 0)
	ctx := context.Background()

	if _, err := l.CreateNodes(ctx, "Shelf; DROP", books(1)); !errors.Is(err, models.ErrUnknownEntity) {
		t.Errorf("unknown label error = %v, want ErrUnknownEntity", err)
	}

	if _, err := l.CreateNodes(ctx, models.EntityBook, []models.Record{{"title": "no id"}}); err == nil {
		t.Error("record without id: expected error")
	}

	if len(g.Writes) != 0 {
		t.Errorf("invalid input issued %d writes", len(g.Writes))
	}
}

func TestCreateNodesBatching(t *testing.T) {
	l, g := newLoader(t, 2)

	n, err := l.CreateNodes(context.Background(), models.EntityBook, books(1, 2, 3, 4, 5))
	if err != nil {
		t.Fatalf("CreateNodes: %v", err)
	}
	if n != 5 {
		t.Errorf("created %d, want 5", n)
	}
	if len(g.Writes) != 1 {
		t.Fatalf("got %d transactions, want 1", len(g.Writes))
	}
	if len(g.Writes[0]) != 3 {
		t.Errorf("got %d statements, want 3", len(g.Writes[0]))
	}
}

func TestCreateNodesFailureWritesNothing(t *testing.T) {
	l, g := newLoader(t, 1)
	calls := 0
	g.FailOn = func(graphdb.Statement) error {
		calls++
		if calls == 2 {
			return errors.New("constraint violation")
		}

		return nil
	}

	if _, err := l.CreateNodes(context.Background(), models.EntityBook, books(1, 2)); err == nil {
		t.Fatal("expected error")
	}
	if got := len(g.Nodes("Book")); got != 0 {
		t.Errorf("failed batch left %d nodes", got)
	}
}

func TestCreateRelationships(t *testing.T) {
	l, g := newLoader(t, 0)
	ctx := context.Background()

	if _, err := l.CreateNodes(ctx, models.EntityBook, books(10)); err != nil {
		t.Fatalf("CreateNodes(Book): %v", err)
	}
	if _, err := l.CreateNodes(ctx, models.EntityAuthor, []models.Record{{"id": int64(1), "name": "Ann"}}); err != nil {
		t.Fatalf("CreateNodes(Author): %v", err)
	}

	pairs := []models.Record{
		{"book_id": int64(10), "entity_id": int64(1)},
		{"book_id": int64(10), "entity_id": int64(999)},
		{"book_id": int64(10), "entity_id": nil},
	}

	n, err := l.CreateRelationships(ctx, models.RelAuthoredBy, models.EntityAuthor, pairs)
	if err != nil {
		t.Fatalf("CreateRelationships: %v", err)
	}
	if n != 1 {
		t.Errorf("created %d, want 1", n)
	}

	edges := g.Edges("AUTHORED_BY")
	if len(edges) != 1 || edges[0].FromID != int64(10) || edges[0].ToID != int64(1) {
		t.Errorf("edges = %+v", edges)
	}
}

func TestCreateRelationshipsValidation(t *testing.T) {
	l, _ := newLoader(t, 0)
	ctx := context.Background()
	pairs := []models.Record{{"book_id": int64(1), "entity_id": int64(1)}}

	if _, err := l.CreateRelationships(ctx, "LIKES", models.EntityAuthor, pairs); !errors.Is(err, models.ErrUnknownRelation) {
		t.Errorf("unknown type error = %v, want ErrUnknownRelation", err)
	}

	if _, err := l.CreateRelationships(ctx, models.RelAuthoredBy, models.EntitySubject, pairs); !errors.Is(err, models.ErrUnknownEntity) {
		t.Errorf("mismatched target error = %v, want ErrUnknownEntity", err)
	}

	n, err := l.CreateRelationships(ctx, models.RelHasSubject, models.EntitySubject, nil)
	if err != nil || n != 0 {
		t.Errorf("empty pairs = %d, %v, want 0, nil", n, err)
	}
}

func TestEnsureIndexesIsIdempotent(t *testing.T) {
	l, g := newLoader(t, 0)
	ctx := context.Background()

	for range 2 {
		if err := l.EnsureIndexes(ctx); err != nil {
			t.Fatalf("EnsureIndexes: %v", err)
		}
	}

	for _, e := range models.AllEntities {
		if !g.HasIndex(e.IndexName()) {
			t.Errorf("index %s missing", e.IndexName())
		}
	}

	for _, tx := range g.Writes {
		if len(tx) != 1 || !strings.HasPrefix(tx[0].Query, "CREATE INDEX ") {
			t.Errorf("unexpected index transaction %+v", tx)
		}
	}
}

func TestReset(t *testing.T) {
	l, g := newLoader(t, 0)
	ctx := context.Background()

	g.Seed("Book", map[string]any{"id": int64(1)})
	g.Seed("Author", map[string]any{"id": int64(1)})

	n, err := l.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	if g.NodeCount() != 0 {
		t.Errorf("graph holds %d nodes after reset", g.NodeCount())
	}

	n, err = l.Reset(ctx)
	if err != nil || n != 0 {
		t.Errorf("second Reset = %d, %v, want 0, nil", n, err)
	}
}

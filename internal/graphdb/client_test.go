package graphdb_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/bookgraph/internal/config"
	"github.com/persistorai/bookgraph/internal/graphdb"
	"github.com/persistorai/bookgraph/internal/loader"
	"github.com/persistorai/bookgraph/internal/models"
)

// newTestClient connects to the Neo4j server at TEST_NEO4J_URI. The database
// is wiped by the tests that use it.
func newTestClient(t *testing.T) *graphdb.Client {
	t.Helper()

	uri := os.Getenv("TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TEST_NEO4J_URI not set")
	}

	user := os.Getenv("TEST_NEO4J_USERNAME")
	if user == "" {
		user = "neo4j"
	}

	ctx := context.Background()

	c, err := graphdb.NewClient(ctx, &config.GraphConfig{
		URI:      uri,
		Username: user,
		Password: config.Secret(os.Getenv("TEST_NEO4J_PASSWORD")),
		Database: "neo4j",
	})
	if err != nil {
		t.Fatalf("connecting to neo4j: %v", err)
	}
	t.Cleanup(func() { c.Close(context.Background()) }) //nolint:errcheck // best-effort cleanup

	return c
}

func TestLoadAndCount(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	session := c.NewWriteSession(ctx)
	defer session.Close(ctx) //nolint:errcheck // best-effort cleanup

	log := logrus.New()
	log.SetOutput(io.Discard)
	l := loader.New(session, log, 1)

	if _, err := l.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := l.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	n, err := l.CreateNodes(ctx, models.EntityBook, []models.Record{
		{"id": int64(1), "title": "Moby", "avg_rating": nil},
		{"id": int64(2), "title": "Drift", "avg_rating": 0.0},
	})
	if err != nil || n != 2 {
		t.Fatalf("CreateNodes(Book) = %d, %v, want 2, nil", n, err)
	}

	if _, err := l.CreateNodes(ctx, models.EntityAuthor, []models.Record{{"id": int64(1), "name": "Ann"}}); err != nil {
		t.Fatalf("CreateNodes(Author): %v", err)
	}

	created, err := l.CreateRelationships(ctx, models.RelAuthoredBy, models.EntityAuthor, []models.Record{
		{"book_id": int64(1), "entity_id": int64(1)},
		{"book_id": int64(2), "entity_id": int64(404)},
	})
	if err != nil {
		t.Fatalf("CreateRelationships: %v", err)
	}
	if created != 1 {
		t.Errorf("created %d relationships, want 1", created)
	}

	books, err := c.Count(ctx, models.EntityBook)
	if err != nil || books != 2 {
		t.Errorf("Count(Book) = %d, %v, want 2, nil", books, err)
	}

	edges, err := c.CountLinks(ctx, models.RelAuthoredBy)
	if err != nil || edges != 1 {
		t.Errorf("CountLinks(AUTHORED_BY) = %d, %v, want 1, nil", edges, err)
	}

	deleted, err := l.Reset(ctx)
	if err != nil || deleted != 3 {
		t.Errorf("Reset = %d, %v, want 3, nil", deleted, err)
	}
}

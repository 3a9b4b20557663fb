// Package loader writes projected records into the graph.
//
// Labels and relationship types are interpolated into Cypher only after they
// have been checked against the models enums; every value travels as a
// parameter.
package loader

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/bookgraph/internal/graphdb"
	"github.com/persistorai/bookgraph/internal/models"
)

// Executor runs write statements in one transaction and reports what they
// changed. graphdb.Session implements it.
type Executor interface {
	Write(ctx context.Context, stmts ...graphdb.Statement) (graphdb.Counters, error)
}

const resetQuery = "MATCH (n) DETACH DELETE n"

// Loader issues the graph writes of a migration run.
type Loader struct {
	exec      Executor
	log       *logrus.Logger
	batchSize int
}

// New creates a Loader. A positive batchSize splits each call's rows into
// statements of at most that many rows; all of them still commit together.
func New(exec Executor, log *logrus.Logger, batchSize int) *Loader {
	if batchSize < 0 {
		batchSize = 0
	}

	return &Loader{exec: exec, log: log, batchSize: batchSize}
}

// Reset deletes every node and relationship and returns the number of nodes
// deleted.
func (l *Loader) Reset(ctx context.Context) (int, error) {
	c, err := l.exec.Write(ctx, graphdb.Statement{Query: resetQuery})
	if err != nil {
		return 0, fmt.Errorf("resetting graph: %w", err)
	}

	return c.NodesDeleted, nil
}

// EnsureIndexes creates the identity index of every label if it is missing.
// Each index is created in its own transaction.
func (l *Loader) EnsureIndexes(ctx context.Context) error {
	for _, e := range models.AllEntities {
		query := fmt.Sprintf("CREATE INDEX %s IF NOT EXISTS FOR (n:%s) ON (n.id)", e.IndexName(), e)

		c, err := l.exec.Write(ctx, graphdb.Statement{Query: query})
		if err != nil {
			return fmt.Errorf("creating index %s: %w", e.IndexName(), err)
		}

		l.log.WithFields(logrus.Fields{"index": e.IndexName(), "created": c.IndexesAdded > 0}).Debug("index ensured")
	}

	return nil
}

// CreateNodes creates one node labelled entity per record and returns the
// number of nodes created. No existence check is made.
func (l *Loader) CreateNodes(ctx context.Context, entity models.EntityType, records []models.Record) (int, error) {
	if !entity.Valid() {
		return 0, fmt.Errorf("create nodes %q: %w", entity, models.ErrUnknownEntity)
	}

	if len(records) == 0 {
		return 0, nil
	}

	for i, rec := range records {
		if rec["id"] == nil {
			return 0, fmt.Errorf("create %s nodes: record %d has no id", entity, i)
		}
	}

	query := fmt.Sprintf("UNWIND $rows AS row CREATE (n:%s) SET n = row", entity)

	c, err := l.exec.Write(ctx, l.statements(query, records)...)
	if err != nil {
		return 0, fmt.Errorf("creating %s nodes: %w", entity, err)
	}

	return c.NodesCreated, nil
}

// CreateRelationships creates a rel edge from Book to target for every pair
// whose endpoints both exist and returns the number created. Pairs with a
// missing or null endpoint are dropped by the MATCH.
func (l *Loader) CreateRelationships(
	ctx context.Context, rel models.RelationType, target models.EntityType, pairs []models.Record,
) (int, error) {
	if !rel.Valid() {
		return 0, fmt.Errorf("create relationships %q: %w", rel, models.ErrUnknownRelation)
	}

	if target != rel.Target() {
		return 0, fmt.Errorf("create %s relationships to %q: %w", rel, target, models.ErrUnknownEntity)
	}

	if len(pairs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"UNWIND $rows AS row MATCH (b:%s {id: row.book_id}) MATCH (e:%s {id: row.entity_id}) CREATE (b)-[:%s]->(e)",
		rel.Source(), target, rel)

	c, err := l.exec.Write(ctx, l.statements(query, pairs)...)
	if err != nil {
		return 0, fmt.Errorf("creating %s relationships: %w", rel, err)
	}

	return c.RelationshipsCreated, nil
}

// statements splits records into batch-sized UNWIND statements.
func (l *Loader) statements(query string, records []models.Record) []graphdb.Statement {
	size := l.batchSize
	if size == 0 || size > len(records) {
		size = len(records)
	}

	stmts := make([]graphdb.Statement, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))

		rows := make([]map[string]any, 0, end-start)
		for _, rec := range records[start:end] {
			rows = append(rows, rec)
		}

		stmts = append(stmts, graphdb.Statement{Query: query, Params: map[string]any{"rows": rows}})
	}

	return stmts
}

// Package loadertest provides an in-memory graph that understands the
// statements the loader issues, for tests that need a destination without a
// Neo4j server.
package loadertest

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/persistorai/bookgraph/internal/graphdb"
)

var (
	reIndex = regexp.MustCompile(`^CREATE INDEX (\w+) IF NOT EXISTS FOR \(n:(\w+)\) ON \(n\.id\)$`)
	reNodes = regexp.MustCompile(`^UNWIND \$rows AS row CREATE \(n:(\w+)\) SET n = row$`)
	reRels  = regexp.MustCompile(`^UNWIND \$rows AS row MATCH \(b:(\w+) \{id: row\.book_id\}\) ` +
		`MATCH \(e:(\w+) \{id: row\.entity_id\}\) CREATE \(b\)-\[:(\w+)\]->\(e\)$`)
)

// Edge is a relationship held by Graph.
type Edge struct {
	Type    string
	FromID  any
	ToLabel string
	ToID    any
}

type state struct {
	nodes   map[string][]map[string]any
	edges   []Edge
	indexes map[string]bool
}

func (s *state) clone() *state {
	c := &state{
		nodes:   make(map[string][]map[string]any, len(s.nodes)),
		edges:   append([]Edge(nil), s.edges...),
		indexes: make(map[string]bool, len(s.indexes)),
	}
	for k, v := range s.nodes {
		c.nodes[k] = append([]map[string]any(nil), v...)
	}
	for k, v := range s.indexes {
		c.indexes[k] = v
	}

	return c
}

// Graph is an in-memory loader.Executor. Each Write is atomic.
type Graph struct {
	mu    sync.Mutex
	state *state

	// FailOn, when set, is consulted before each statement; a non-nil error
	// aborts the transaction.
	FailOn func(stmt graphdb.Statement) error

	// Writes records every transaction in order.
	Writes [][]graphdb.Statement
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{state: &state{nodes: map[string][]map[string]any{}, indexes: map[string]bool{}}}
}

// Write applies stmts atomically.
func (g *Graph) Write(ctx context.Context, stmts ...graphdb.Statement) (graphdb.Counters, error) {
	if err := ctx.Err(); err != nil {
		return graphdb.Counters{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.Writes = append(g.Writes, stmts)

	next := g.state.clone()

	var total graphdb.Counters
	for _, stmt := range stmts {
		if g.FailOn != nil {
			if err := g.FailOn(stmt); err != nil {
				return graphdb.Counters{}, err
			}
		}

		c, err := next.apply(stmt)
		if err != nil {
			return graphdb.Counters{}, err
		}

		total.NodesCreated += c.NodesCreated
		total.NodesDeleted += c.NodesDeleted
		total.RelationshipsCreated += c.RelationshipsCreated
		total.IndexesAdded += c.IndexesAdded
	}

	g.state = next

	return total, nil
}

func (s *state) apply(stmt graphdb.Statement) (graphdb.Counters, error) {
	var c graphdb.Counters

	if stmt.Query == "MATCH (n) DETACH DELETE n" {
		for _, nodes := range s.nodes {
			c.NodesDeleted += len(nodes)
		}
		s.nodes = map[string][]map[string]any{}
		s.edges = nil

		return c, nil
	}

	if m := reIndex.FindStringSubmatch(stmt.Query); m != nil {
		if !s.indexes[m[1]] {
			s.indexes[m[1]] = true
			c.IndexesAdded = 1
		}

		return c, nil
	}

	rows, ok := stmt.Params["rows"].([]map[string]any)
	if !ok && (reNodes.MatchString(stmt.Query) || reRels.MatchString(stmt.Query)) {
		return c, fmt.Errorf("memgraph: $rows is %T", stmt.Params["rows"])
	}

	if m := reNodes.FindStringSubmatch(stmt.Query); m != nil {
		for _, row := range rows {
			props := make(map[string]any, len(row))
			for k, v := range row {
				if v != nil {
					props[k] = v
				}
			}
			s.nodes[m[1]] = append(s.nodes[m[1]], props)
			c.NodesCreated++
		}

		return c, nil
	}

	if m := reRels.FindStringSubmatch(stmt.Query); m != nil {
		for _, row := range rows {
			from := s.match(m[1], row["book_id"])
			to := s.match(m[2], row["entity_id"])
			for range from {
				for _, dst := range to {
					s.edges = append(s.edges, Edge{Type: m[3], FromID: row["book_id"], ToLabel: m[2], ToID: dst["id"]})
					c.RelationshipsCreated++
				}
			}
		}

		return c, nil
	}

	return c, fmt.Errorf("memgraph: unsupported statement %q", stmt.Query)
}

func (s *state) match(label string, id any) []map[string]any {
	if id == nil {
		return nil
	}

	var out []map[string]any
	for _, n := range s.nodes[label] {
		if n["id"] == id {
			out = append(out, n)
		}
	}

	return out
}

// Nodes returns the nodes labelled label.
func (g *Graph) Nodes(label string) []map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]map[string]any(nil), g.state.nodes[label]...)
}

// Edges returns the relationships of type typ.
func (g *Graph) Edges(typ string) []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Edge
	for _, e := range g.state.edges {
		if e.Type == typ {
			out = append(out, e)
		}
	}

	return out
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, nodes := range g.state.nodes {
		n += len(nodes)
	}

	return n
}

// HasIndex reports whether the named index exists.
func (g *Graph) HasIndex(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.indexes[name]
}

// Seed adds a node outside any transaction.
func (g *Graph) Seed(label string, props map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state.nodes[label] = append(g.state.nodes[label], props)
}

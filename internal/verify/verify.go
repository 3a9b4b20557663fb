// Package verify compares a migrated graph against its relational source.
package verify

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/persistorai/bookgraph/internal/models"
)

// Counter returns element counts from one store. source.Reader counts rows
// and endpoint-complete join rows; graphdb.Client counts nodes and edges.
type Counter interface {
	Count(ctx context.Context, entity models.EntityType) (int, error)
	CountLinks(ctx context.Context, rel models.RelationType) (int, error)
}

// Check is one expected-versus-actual comparison.
type Check struct {
	Name     string
	Expected int
	Actual   int
}

// OK reports whether the counts match.
func (c Check) OK() bool { return c.Expected == c.Actual }

// Result holds every check of a verification.
type Result struct {
	Checks []Check
}

// OK reports whether every check passed.
func (r *Result) OK() bool {
	for _, c := range r.Checks {
		if !c.OK() {
			return false
		}
	}

	return true
}

type counts struct {
	nodes map[models.EntityType]int
	edges map[models.RelationType]int
}

// Run counts both stores in parallel and compares them label by label and
// relationship type by relationship type.
func Run(ctx context.Context, source, graph Counter) (*Result, error) {
	var want, got counts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		want, err = collect(gctx, source)
		if err != nil {
			return fmt.Errorf("counting source: %w", err)
		}

		return nil
	})
	g.Go(func() error {
		var err error
		got, err = collect(gctx, graph)
		if err != nil {
			return fmt.Errorf("counting graph: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, e := range models.AllEntities {
		res.Checks = append(res.Checks, Check{Name: e.String(), Expected: want.nodes[e], Actual: got.nodes[e]})
	}
	for _, rel := range models.AllRelations {
		res.Checks = append(res.Checks, Check{Name: rel.String(), Expected: want.edges[rel], Actual: got.edges[rel]})
	}

	return res, nil
}

func collect(ctx context.Context, c Counter) (counts, error) {
	out := counts{
		nodes: make(map[models.EntityType]int, len(models.AllEntities)),
		edges: make(map[models.RelationType]int, len(models.AllRelations)),
	}

	for _, e := range models.AllEntities {
		n, err := c.Count(ctx, e)
		if err != nil {
			return out, err
		}
		out.nodes[e] = n
	}

	for _, rel := range models.AllRelations {
		n, err := c.CountLinks(ctx, rel)
		if err != nil {
			return out, err
		}
		out.edges[rel] = n
	}

	return out, nil
}

// Print writes one line per check to w.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== bookgraph Verification ===")

	for _, c := range r.Checks {
		icon := "✅"
		if !c.OK() {
			icon = "❌"
		}
		fmt.Fprintf(w, "%-16s expected %d, found %d %s\n", c.Name, c.Expected, c.Actual, icon)
	}

	if r.OK() {
		fmt.Fprintln(w, "Status: MATCH")
	} else {
		fmt.Fprintln(w, "Status: MISMATCH")
	}
}

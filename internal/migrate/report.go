package migrate

import (
	"fmt"
	"io"
	"time"
)

// StageResult holds the counts of one stage.
type StageResult struct {
	Stage Stage
	// Read is the number of relational rows the stage consumed.
	Read int
	// Nodes is the number of nodes created.
	Nodes int
	// Pairs is the number of relationship pairs submitted.
	Pairs int
	// Edges is the number of relationships created.
	Edges int
	// Skipped is Pairs minus Edges: pairs dropped for a missing endpoint.
	Skipped int
	// Deleted is the number of nodes removed by RESET.
	Deleted  int
	Duration time.Duration
}

// Written returns the number of graph elements the stage created.
func (s StageResult) Written() int { return s.Nodes + s.Edges }

// Report is the summary of one migration run.
type Report struct {
	RunID    string
	Source   string
	Target   string
	DryRun   bool
	Started  time.Time
	Duration time.Duration
	Stages   []StageResult
	Err      error
}

// Totals sums nodes, edges and skipped pairs over every stage.
func (r *Report) Totals() (nodes, edges, skipped int) {
	for _, s := range r.Stages {
		nodes += s.Nodes
		edges += s.Edges
		skipped += s.Skipped
	}

	return nodes, edges, skipped
}

// Print writes a human-readable summary of the run to w.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== bookgraph Migration Report ===")
	if r.DryRun {
		fmt.Fprintln(w, "MODE: DRY RUN (no changes made)")
	}
	fmt.Fprintf(w, "Run:    %s\n", r.RunID)
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	fmt.Fprintf(w, "Target: %s\n", r.Target)
	fmt.Fprintln(w)

	for _, s := range r.Stages {
		switch {
		case s.Stage == StageReset:
			fmt.Fprintf(w, "%-16s %d nodes deleted\n", s.Stage, s.Deleted)
		case s.Pairs > 0 && s.Nodes > 0:
			fmt.Fprintf(w, "%-16s %d read → %d nodes, %d edges (%d skipped)\n",
				s.Stage, s.Read, s.Nodes, s.Edges, s.Skipped)
		case s.Pairs > 0 || s.Stage.Relation() != "":
			fmt.Fprintf(w, "%-16s %d read → %d edges (%d skipped)\n", s.Stage, s.Read, s.Edges, s.Skipped)
		case s.Stage.Entity() != "":
			fmt.Fprintf(w, "%-16s %d read → %d nodes\n", s.Stage, s.Read, s.Nodes)
		default:
			fmt.Fprintf(w, "%-16s ok\n", s.Stage)
		}
	}

	nodes, edges, skipped := r.Totals()
	fmt.Fprintf(w, "\nTotal: %d nodes, %d edges, %d skipped pairs\n", nodes, edges, skipped)
	fmt.Fprintf(w, "Duration: %.1fs\n", r.Duration.Seconds())

	if r.Err != nil {
		fmt.Fprintf(w, "Status: FAILED: %v\n", r.Err)
	} else {
		fmt.Fprintln(w, "Status: SUCCESS")
	}
}

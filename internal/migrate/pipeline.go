// Package migrate runs the relational-to-graph migration as an explicit,
// strictly sequential stage sequence: wipe the graph, ensure indexes, load
// every node label, then create every relationship type.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/bookgraph/internal/models"
	"github.com/persistorai/bookgraph/internal/projector"
)

// Source reads the relational catalogue. source.Reader implements it.
type Source interface {
	ReadNamed(ctx context.Context, entity models.EntityType) ([]models.NamedRow, error)
	ReadBooks(ctx context.Context) ([]models.BookRow, error)
	ReadPrices(ctx context.Context) ([]models.PriceRow, error)
	ReadLinks(ctx context.Context, rel models.RelationType) ([]models.LinkRow, error)
}

// Graph writes to the destination. loader.Loader implements it.
type Graph interface {
	Reset(ctx context.Context) (int, error)
	EnsureIndexes(ctx context.Context) error
	CreateNodes(ctx context.Context, entity models.EntityType, records []models.Record) (int, error)
	CreateRelationships(ctx context.Context, rel models.RelationType, target models.EntityType, pairs []models.Record) (int, error)
}

// Recorder observes stage and run outcomes.
type Recorder interface {
	ObserveStage(result StageResult)
	ObserveRun(report *Report)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(StageResult) {}
func (nopRecorder) ObserveRun(*Report)       {}

// Options tunes a Pipeline.
type Options struct {
	// DryRun reads and projects everything but writes nothing.
	DryRun bool
	// Plan overrides DefaultPlan.
	Plan []Stage
	// Source and Target describe the stores in the report.
	Source string
	Target string
	// Recorder receives stage results; nil discards them.
	Recorder Recorder
}

// Pipeline is a configured migration.
type Pipeline struct {
	src      Source
	graph    Graph
	log      *logrus.Logger
	opts     Options
	recorder Recorder
}

// New creates a Pipeline.
func New(src Source, graph Graph, log *logrus.Logger, opts Options) *Pipeline {
	if opts.Plan == nil {
		opts.Plan = DefaultPlan
	}

	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}

	return &Pipeline{src: src, graph: graph, log: log, opts: opts, recorder: rec}
}

// run carries the state of one Run call.
type run struct {
	*Pipeline
	log *logrus.Entry
	// ids holds the identity keys projected per label, so a dry run can tell
	// which pairs would be dropped.
	ids map[models.EntityType]map[any]bool
}

// Run executes the plan. The returned report is never nil once the plan is
// valid; on error it holds every stage that ran, including the failing one.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if err := ValidateOrder(p.opts.Plan); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Source:  p.opts.Source,
		Target:  p.opts.Target,
		DryRun:  p.opts.DryRun,
		Started: time.Now(),
	}

	r := &run{
		Pipeline: p,
		log:      p.log.WithField("run_id", report.RunID),
		ids:      make(map[models.EntityType]map[any]bool),
	}

	r.log.WithFields(logrus.Fields{
		"source":  p.opts.Source,
		"target":  p.opts.Target,
		"dry_run": p.opts.DryRun,
	}).Info("starting migration")

	err := r.execute(ctx, report)

	report.Duration = time.Since(report.Started)
	report.Err = err
	p.recorder.ObserveRun(report)

	if err != nil {
		r.log.WithError(err).Error("migration failed")

		return report, err
	}

	r.log.WithField("duration", report.Duration).Info("migration complete")

	return report, nil
}

func (r *run) execute(ctx context.Context, report *Report) error {
	for _, stage := range r.opts.Plan {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage %s: %w", stage, err)
		}

		start := time.Now()
		res, err := r.runStage(ctx, stage)
		res.Stage = stage
		res.Duration = time.Since(start)

		report.Stages = append(report.Stages, res)
		r.recorder.ObserveStage(res)

		if err != nil {
			return fmt.Errorf("stage %s: %w", stage, err)
		}

		entry := r.log.WithFields(logrus.Fields{
			"stage":    stage,
			"read":     res.Read,
			"written":  res.Written(),
			"skipped":  res.Skipped,
			"duration": res.Duration,
		})
		if res.Skipped > 0 {
			entry.Warn("stage dropped pairs with a missing endpoint")
		} else {
			entry.Info("stage complete")
		}
	}

	return nil
}

func (r *run) runStage(ctx context.Context, stage Stage) (StageResult, error) {
	def := stageDefs[stage]

	switch def.kind {
	case kindReset:
		return r.reset(ctx)
	case kindIndex:
		return r.index(ctx)
	case kindNodes:
		return r.loadNodes(ctx, def.entity)
	case kindLinks:
		return r.link(ctx, def.rel)
	default:
		return StageResult{}, nil
	}
}

func (r *run) reset(ctx context.Context) (StageResult, error) {
	if r.opts.DryRun {
		return StageResult{}, nil
	}

	n, err := r.graph.Reset(ctx)

	return StageResult{Deleted: n}, err
}

func (r *run) index(ctx context.Context) (StageResult, error) {
	if r.opts.DryRun {
		return StageResult{}, nil
	}

	return StageResult{}, r.graph.EnsureIndexes(ctx)
}

// loadNodes reads, projects and creates the nodes of one label. Prices also
// produce their PRICED_AT edges.
func (r *run) loadNodes(ctx context.Context, entity models.EntityType) (StageResult, error) {
	var (
		nodes []models.Record
		pairs []models.Record
	)

	switch entity {
	case models.EntityBook:
		rows, err := r.src.ReadBooks(ctx)
		if err != nil {
			return StageResult{}, err
		}
		nodes = projector.Books(rows)
	case models.EntityPrice:
		rows, err := r.src.ReadPrices(ctx)
		if err != nil {
			return StageResult{}, err
		}
		nodes, pairs = projector.Prices(rows)
	default:
		rows, err := r.src.ReadNamed(ctx, entity)
		if err != nil {
			return StageResult{}, err
		}
		nodes = projector.Named(rows)
	}

	res := StageResult{Read: len(nodes)}
	r.remember(entity, nodes)

	n, err := r.createNodes(ctx, entity, nodes)
	res.Nodes = n
	if err != nil {
		return res, err
	}

	if entity == models.EntityPrice {
		res.Pairs = len(pairs)

		created, err := r.createRelationships(ctx, models.RelPricedAt, pairs)
		if err != nil {
			return res, err
		}

		res.Edges = created
		res.Skipped = len(pairs) - created
	}

	return res, nil
}

func (r *run) link(ctx context.Context, rel models.RelationType) (StageResult, error) {
	rows, err := r.src.ReadLinks(ctx, rel)
	if err != nil {
		return StageResult{}, err
	}

	pairs := projector.Links(rows)
	res := StageResult{Read: len(rows), Pairs: len(pairs)}

	created, err := r.createRelationships(ctx, rel, pairs)
	if err != nil {
		return res, err
	}

	res.Edges = created
	res.Skipped = len(pairs) - created

	return res, nil
}

func (r *run) createNodes(ctx context.Context, entity models.EntityType, nodes []models.Record) (int, error) {
	if r.opts.DryRun {
		return len(nodes), nil
	}

	return r.graph.CreateNodes(ctx, entity, nodes)
}

// createRelationships returns the number of edges created. A dry run counts
// the pairs whose endpoints were projected by earlier stages.
func (r *run) createRelationships(ctx context.Context, rel models.RelationType, pairs []models.Record) (int, error) {
	if !r.opts.DryRun {
		return r.graph.CreateRelationships(ctx, rel, rel.Target(), pairs)
	}

	books, targets := r.ids[rel.Source()], r.ids[rel.Target()]

	n := 0
	for _, p := range pairs {
		if books[p[projector.KeyBookID]] && targets[p[projector.KeyEntityID]] {
			n++
		}
	}

	return n, nil
}

func (r *run) remember(entity models.EntityType, nodes []models.Record) {
	if !r.opts.DryRun {
		return
	}

	set := make(map[any]bool, len(nodes))
	for _, n := range nodes {
		if id := n["id"]; id != nil {
			set[id] = true
		}
	}
	r.ids[entity] = set
}

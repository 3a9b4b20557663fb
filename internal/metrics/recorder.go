package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/persistorai/bookgraph/internal/migrate"
)

// Recorder feeds stage and run results into the package metrics.
type Recorder struct{}

// ObserveStage implements migrate.Recorder.
func (Recorder) ObserveStage(res migrate.StageResult) {
	stage := string(res.Stage)

	StageRecords.WithLabelValues(stage, "read").Set(float64(res.Read))
	StageRecords.WithLabelValues(stage, "nodes").Set(float64(res.Nodes))
	StageRecords.WithLabelValues(stage, "edges").Set(float64(res.Edges))
	StageRecords.WithLabelValues(stage, "skipped").Set(float64(res.Skipped))
	StageRecords.WithLabelValues(stage, "deleted").Set(float64(res.Deleted))
	StageDuration.WithLabelValues(stage).Set(res.Duration.Seconds())

	if res.Skipped > 0 {
		SkippedPairsTotal.WithLabelValues(stage).Add(float64(res.Skipped))
	}
}

// ObserveRun implements migrate.Recorder.
func (Recorder) ObserveRun(report *migrate.Report) {
	RunDuration.Set(report.Duration.Seconds())

	if report.Err != nil {
		RunFailuresTotal.Inc()
		return
	}

	LastSuccess.Set(float64(report.Started.Add(report.Duration).Unix()))
}

// Push sends every bookgraph metric to the Pushgateway at url, grouped by
// run ID.
func Push(ctx context.Context, url, runID string) error {
	pusher := push.New(url, "bookgraph_migration").Grouping("run_id", runID)
	for _, c := range collectors {
		pusher = pusher.Collector(c)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}

	return nil
}

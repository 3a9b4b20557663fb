// Package metrics defines Prometheus metrics for bookgraph migration runs.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	StageRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookgraph_stage_records",
			Help: "Records handled by the last run, by stage and kind (read, nodes, edges, skipped, deleted)",
		},
		[]string{"stage", "kind"},
	)

	StageDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookgraph_stage_duration_seconds",
			Help: "Duration of each stage of the last run in seconds",
		},
		[]string{"stage"},
	)

	SkippedPairsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookgraph_skipped_pairs_total",
			Help: "Relationship pairs dropped for a missing endpoint",
		},
		[]string{"stage"},
	)

	RunDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookgraph_run_duration_seconds",
			Help: "Duration of the last migration run in seconds",
		},
	)

	LastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookgraph_last_success_timestamp_seconds",
			Help: "Unix time of the last successful migration run",
		},
	)

	RunFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookgraph_run_failures_total",
			Help: "Total failed migration runs",
		},
	)
)

// collectors lists every metric, for registration and for pushing.
var collectors = []prometheus.Collector{
	StageRecords, StageDuration, SkippedPairsTotal,
	RunDuration, LastSuccess, RunFailuresTotal,
}

func init() {
	prometheus.MustRegister(collectors...)
}

package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/bookgraph/internal/config"
	"github.com/persistorai/bookgraph/internal/graphdb"
	"github.com/persistorai/bookgraph/internal/loader"
	"github.com/persistorai/bookgraph/internal/metrics"
	"github.com/persistorai/bookgraph/internal/migrate"
	"github.com/persistorai/bookgraph/internal/source"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Wipe the graph and load the catalogue into it",
		Long: "Runs every stage in order: RESET, INDEX, the six node loads and the four\n" +
			"link stages. Any error stops the run and exits non-zero.",
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Read and project everything without writing (env: DRY_RUN)")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	src, err := source.Open(ctx, &cfg.Source, true)
	if err != nil {
		log.WithError(err).Error("opening relational source")
		return err
	}
	defer src.Close()

	graph, err := graphdb.NewClient(ctx, &cfg.Graph)
	if err != nil {
		log.WithError(err).Error("connecting to neo4j")
		return err
	}
	defer graph.Close(context.WithoutCancel(ctx)) //nolint:errcheck // best-effort close on exit.

	session := graph.NewWriteSession(ctx)
	defer session.Close(context.WithoutCancel(ctx)) //nolint:errcheck // best-effort close on exit.

	pipeline := migrate.New(
		source.NewReader(src.DB, log, cfg.Source.QueryTimeout),
		loader.New(session, log, cfg.Graph.BatchSize),
		log,
		migrate.Options{
			DryRun:   cfg.DryRun,
			Source:   cfg.Source.Describe(),
			Target:   cfg.Graph.URI + "/" + cfg.Graph.Database,
			Recorder: metrics.Recorder{},
		},
	)

	report, err := pipeline.Run(ctx)
	if report != nil {
		report.Print(cmd.OutOrStdout())
		pushMetrics(ctx, cfg, log, report.RunID)
	}

	return err
}

// pushMetrics sends run metrics to the Pushgateway when one is configured.
// A failed push is logged and does not fail the run.
func pushMetrics(ctx context.Context, cfg *config.Config, log *logrus.Logger, runID string) {
	if cfg.PushgatewayURL == "" {
		return
	}

	if err := metrics.Push(context.WithoutCancel(ctx), cfg.PushgatewayURL, runID); err != nil {
		log.WithError(err).Warn("pushing run metrics")
	}
}

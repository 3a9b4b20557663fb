// Command bookgraph migrates a relational book catalogue into a Neo4j
// property graph.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/bookgraph/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string
	flagDryRun   bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic // stop already called.
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookgraph",
		Short: "Migrate a relational book catalogue into Neo4j",
		Long: "bookgraph reads publishers, authors, categories, subjects, books and prices\n" +
			"from PostgreSQL or SQLite and recreates them as a Neo4j property graph.\n" +
			"Without a subcommand it runs the migration.",
		Version:      config.Version,
		SilenceUsage: true,
		RunE:         runMigrate,
	}
	root.SetVersionTemplate("bookgraph version {{.Version}}\n")

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (env: BOOKGRAPH_CONFIG)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug|info|warn|error (env: LOG_LEVEL)")
	root.Flags().BoolVar(&flagDryRun, "dry-run", false, "Read and project everything without writing (env: DRY_RUN)")

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command, withGraph bool) (*config.Config, error) {
	load := config.LoadSource
	if withGraph {
		load = config.Load
	}

	cfg, err := load(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	if f := cmd.Flags().Lookup("dry-run"); f != nil && f.Changed {
		cfg.DryRun = flagDryRun
	}

	return cfg, nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bookgraph version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookgraph version %s\n", config.Version)
		},
	}
}

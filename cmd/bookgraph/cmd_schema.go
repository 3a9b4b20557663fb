package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/bookgraph/internal/db"
	"github.com/persistorai/bookgraph/internal/source"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the catalogue tables in the relational source",
		Long: "Applies the embedded catalogue DDL to the configured PostgreSQL database or\n" +
			"SQLite file. Already-applied migrations are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, false)
			if err != nil {
				return err
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			src, err := source.Open(ctx, &cfg.Source, false)
			if err != nil {
				return err
			}
			defer src.Close()

			if err := db.RunMigrations(ctx, src.DB, src.Driver, log); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (%s)\n", db.SchemaVersion(src.Driver), cfg.Source.Describe())

			return nil
		},
	}
}

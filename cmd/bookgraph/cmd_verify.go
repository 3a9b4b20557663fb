package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/persistorai/bookgraph/internal/graphdb"
	"github.com/persistorai/bookgraph/internal/source"
	"github.com/persistorai/bookgraph/internal/verify"
)

var errMismatch = errors.New("graph does not match the relational source")

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Compare graph node and edge counts with the relational source",
		Long: "Counts every label and relationship type in Neo4j and compares them with\n" +
			"the relational row counts. Join rows with a missing endpoint are not expected\n" +
			"to have an edge. Exits non-zero on any mismatch.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
				return err
			}
			defer src.Close()

			graph, err := graphdb.NewClient(ctx, &cfg.Graph)
			if err != nil {
				return err
			}
			defer graph.Close(context.WithoutCancel(ctx)) //nolint:errcheck // best-effort close on exit.

			res, err := verify.Run(ctx, source.NewReader(src.DB, log, cfg.Source.QueryTimeout), graph)
			if err != nil {
				log.WithError(err).Error("verification failed")
				return err
			}

			res.Print(cmd.OutOrStdout())

			if !res.OK() {
				return errMismatch
			}

			return nil
		},
	}
}

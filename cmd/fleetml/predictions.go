package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/pkg/database/queries"
)

func newPredictionsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predictions",
		Short: "Maintain stored prediction history",
	}
	cmd.AddCommand(newPredictionsPruneCmd(root))
	return cmd
}

func newPredictionsPruneCmd(root *rootOptions) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete predictions older than --older-than (default monitor.retention)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if olderThan <= 0 {
				olderThan = cfg.Monitor.Retention
			}
			if olderThan <= 0 {
				return fmt.Errorf("retention is disabled; pass --older-than")
			}

			rt, err := openRuntime(cfg, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			deleted, err := queries.NewPredictionRepository(rt.db.DB).DeleteOlderThan(context.Background(), time.Now().Add(-olderThan))
			if err != nil {
				return fmt.Errorf("failed to prune predictions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d predictions\n", deleted)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "age cutoff, e.g. 720h")
	return cmd
}

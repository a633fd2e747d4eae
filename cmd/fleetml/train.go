package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/predictor"
)

func newTrainCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Load the persisted models, training any that are missing",
		Long: "Loads all five models from the configured store. When any model is missing " +
			"or unreadable, all five are trained on synthetic data and saved. " +
			"--force discards the stored models and trains from scratch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := openRuntime(cfg, cfg.Store.Type == "postgres")
			if err != nil {
				return err
			}
			defer rt.Close()

			engine := rt.newEngine()
			instrument(engine, nil, nil)

			ctx, cancel := initTimeout(cfg)
			defer cancel()

			if force {
				if err := engine.ResetStore(ctx); err != nil {
					logger.WithError(err).Warn("Failed to clear stored models")
				}
			}
			if err := engine.Initialize(ctx); err != nil {
				return fmt.Errorf("initialization aborted: %w", err)
			}
			if engine.State() != predictor.StateReady {
				return fmt.Errorf("engine finished in state %s", engine.State())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(engine.Models())
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "discard stored models and retrain")
	return cmd
}

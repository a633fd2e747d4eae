package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fleetml",
		Short:         "Predictive maintenance for vehicle fleets",
		Long:          "Trains and serves the engine, brake, battery, tire and fuel models and monitors vehicles for impending failures.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default ./config.yaml or ./configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override app.log_level")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTrainCmd(opts),
		newPredictCmd(opts),
		newModelsCmd(opts),
		newOperatorCmd(opts),
		newPredictionsCmd(opts),
		newVehiclesCmd(opts),
	)
	return cmd
}

// load reads and validates the configuration and sets up logging.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.App.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	if err := logger.SetupFile(logger.FileConfig{
		Path:       cfg.App.LogFile,
		MaxSizeMB:  cfg.App.LogMaxSizeMB,
		MaxBackups: cfg.App.LogMaxBackups,
		MaxAgeDays: cfg.App.LogMaxAgeDays,
		Compress:   true,
	}); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return cfg, nil
}

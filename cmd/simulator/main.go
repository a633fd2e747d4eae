// Command simulator serves synthetic vehicle telemetry for the HTTP
// collector.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/simulator"
)

var Version = "dev"

type options struct {
	port       int
	fleetPath  string
	timeScale  float64
	autoCreate bool
	seed       uint64
	logLevel   string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(Version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "simulator",
		Short:         "Serve synthetic, slowly degrading vehicle telemetry",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.port, "port", "p", 9000, "simulator server port")
	f.StringVarP(&opts.fleetPath, "fleet", "f", "", "fleet YAML file (patterns: "+fmt.Sprint(simulator.PatternNames())+")")
	f.Float64Var(&opts.timeScale, "time-scale", 1, "simulated seconds per real second")
	f.BoolVar(&opts.autoCreate, "auto-create", true, "create a steady vehicle for unknown IDs")
	f.Uint64Var(&opts.seed, "seed", 0, "noise seed; vehicles with the same ID and seed replay the same telemetry")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level")
	return cmd
}

func run(opts *options) error {
	logger.Setup(opts.logLevel, "development")
	logger.Info("Starting telemetry simulator")

	var fleet *simulator.Fleet
	if opts.fleetPath != "" {
		f, err := simulator.LoadFleet(opts.fleetPath)
		if err != nil {
			return err
		}
		fleet = f
		logger.Infof("Loaded %d vehicles from %s", len(f.Vehicles), opts.fleetPath)
	}

	sim, err := simulator.New(simulator.Config{
		Port:       opts.port,
		Fleet:      fleet,
		AutoCreate: opts.autoCreate,
		TimeScale:  opts.timeScale,
		Seed:       opts.seed,
	})
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	if err := sim.Start(); err != nil {
		return fmt.Errorf("failed to start simulator: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down simulator")
	return sim.Stop()
}

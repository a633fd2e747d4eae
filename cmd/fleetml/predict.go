package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/internal/predictor"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

type predictOptions struct {
	root  *rootOptions
	input string
}

// predictFunc decodes one request from r and runs it against a ready engine.
type predictFunc func(engine *predictor.Engine, r io.Reader) (any, error)

func newPredictCmd(root *rootOptions) *cobra.Command {
	opts := &predictOptions{root: root}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a single prediction from JSON features",
		Long:  "Reads a JSON feature object from --input (or stdin), makes sure the models are loaded or trained, and prints the result.",
	}
	cmd.PersistentFlags().StringVarP(&opts.input, "input", "i", "-", "JSON input file, - for stdin")

	cmd.AddCommand(
		opts.command("engine", "Engine failure risk", component(validation.EngineFeatures, (*predictor.Engine).PredictEngine)),
		opts.command("brake", "Brake system failure risk", component(validation.BrakeFeatures, (*predictor.Engine).PredictBrake)),
		opts.command("battery", "Battery failure risk", component(validation.BatteryFeatures, (*predictor.Engine).PredictBattery)),
		opts.command("tire", "Tire failure risk", component(validation.TireFeatures, (*predictor.Engine).PredictTire)),
		opts.command("fuel", "Fuel efficiency score", predictFuel),
		opts.command("vehicle", "All component risks from a vehicle snapshot", predictVehicle),
	)
	return cmd
}

func (o *predictOptions) command(use, short string, run predictFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeInput, err := o.open(cmd)
			if err != nil {
				return err
			}
			defer closeInput()

			cfg, err := o.root.load()
			if err != nil {
				return err
			}
			rt, err := openRuntime(cfg, cfg.Store.Type == "postgres")
			if err != nil {
				return err
			}
			defer rt.Close()

			engine := rt.newEngine()
			ctx, cancel := initTimeout(cfg)
			defer cancel()
			if err := engine.Initialize(ctx); err != nil {
				return err
			}

			result, err := run(engine, in)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

func (o *predictOptions) open(cmd *cobra.Command) (io.Reader, func(), error) {
	if o.input == "" || o.input == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(o.input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func decode[T any](r io.Reader, check func(T) error) (T, error) {
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return v, fmt.Errorf("%w: invalid JSON: %v", validation.ErrInvalidInput, err)
	}
	return v, check(v)
}

func component[T any](check func(T) error, predict func(*predictor.Engine, T) (*models.PredictionResult, error)) predictFunc {
	return func(engine *predictor.Engine, r io.Reader) (any, error) {
		f, err := decode(r, check)
		if err != nil {
			return nil, err
		}
		return predict(engine, f)
	}
}

func predictFuel(engine *predictor.Engine, r io.Reader) (any, error) {
	f, err := decode(r, validation.FuelFeatures)
	if err != nil {
		return nil, err
	}
	efficiency, err := engine.PredictFuelEfficiency(f)
	if err != nil {
		return nil, err
	}
	return map[string]float64{"efficiency": efficiency}, nil
}

func predictVehicle(engine *predictor.Engine, r io.Reader) (any, error) {
	s, err := decode(r, validation.Snapshot)
	if err != nil {
		return nil, err
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	return engine.GetVehiclePredictions(s)
}

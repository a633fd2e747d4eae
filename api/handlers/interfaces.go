package handlers

import (
	"context"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/monitor"
	"github.com/jayakrishna0023/fleet-guardian/internal/predictor"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// Predictor is the slice of the prediction engine the API uses.
type Predictor interface {
	State() predictor.State
	Ready() bool
	PredictEngine(f models.EngineFeatures) (*models.PredictionResult, error)
	PredictBrake(f models.BrakeFeatures) (*models.PredictionResult, error)
	PredictBattery(f models.BatteryFeatures) (*models.PredictionResult, error)
	PredictTire(f models.TireFeatures) (*models.PredictionResult, error)
	PredictFuelEfficiency(f models.FuelFeatures) (float64, error)
	GetVehiclePredictions(s models.VehicleSnapshot) ([]models.PredictionResult, error)
	Models() []models.ModelInfo
	Retrain(ctx context.Context) error
}

type MonitorManager interface {
	Start(ctx context.Context, vehicleID string) error
	Stop(ctx context.Context, vehicleID string) error
	List() []monitor.Status
	Status(vehicleID string) (monitor.Status, bool)
}

type PredictionHistory interface {
	GetByVehicle(ctx context.Context, vehicleID string, from, to time.Time, limit int) ([]models.PredictionRecord, error)
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

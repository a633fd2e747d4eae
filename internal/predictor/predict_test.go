package predictor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/internal/persistence"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var (
	trainedOnce   sync.Once
	trainedEngine *Engine
)

// fullyTrained returns an engine trained with the production epoch and
// sample budget, shared across tests in this file.
func fullyTrained(t *testing.T) *Engine {
	t.Helper()
	trainedOnce.Do(func() {
		trainedEngine = New(DefaultConfig(), persistence.NewMemoryStore(), seeded(42))
		if err := trainedEngine.Initialize(context.Background()); err != nil {
			panic(err)
		}
	})
	require.True(t, trainedEngine.Ready())
	return trainedEngine
}

func TestPredictEngine_CriticalScenario(t *testing.T) {
	e := fullyTrained(t)

	result, err := e.PredictEngine(models.EngineFeatures{
		EngineTemp:  110,
		OilPressure: 22,
		Mileage:     280000,
		VehicleAge:  12,
		AvgLoad:     0.8,
		EngineHours: 9000,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityCritical, result.Severity)
	assert.Greater(t, result.Probability, 70)
	assert.Contains(t, result.Recommendation, "Immediate inspection")
	assert.Equal(t, ComponentEngine, result.Component)
}

func TestPredictEngine_HealthyVehicle(t *testing.T) {
	e := fullyTrained(t)

	result, err := e.PredictEngine(models.EngineFeatures{
		EngineTemp:  80,
		OilPressure: 55,
		Mileage:     10000,
		VehicleAge:  1,
		AvgLoad:     0.2,
		EngineHours: 300,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SeverityLow, result.Severity)
	assert.Equal(t, recommendations[models.DomainEngine][models.SeverityLow], result.Recommendation)
	assert.Greater(t, result.EstimatedTimeToFailure, 90)
}

func TestPredictEngine_SensorOverrides(t *testing.T) {
	e := fullyTrained(t)
	base := models.EngineFeatures{Mileage: 10000, VehicleAge: 1, AvgLoad: 0.2, EngineHours: 300}

	hot := base
	hot.EngineTemp, hot.OilPressure = 101, 25
	result, err := e.PredictEngine(hot)
	require.NoError(t, err)
	assert.Equal(t, recommendEngineOverheat, result.Recommendation)

	lowOil := base
	lowOil.EngineTemp, lowOil.OilPressure = 90, 29
	result, err = e.PredictEngine(lowOil)
	require.NoError(t, err)
	assert.Equal(t, recommendEngineOilPressure, result.Recommendation)
}

func TestPredictEngine_Confidence(t *testing.T) {
	e := fullyTrained(t)

	for _, temp := range []float64{70, 85, 100, 120} {
		result, err := e.PredictEngine(models.EngineFeatures{EngineTemp: temp, OilPressure: 40})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Confidence, 75)
		assert.LessOrEqual(t, result.Confidence, 100)
	}
}

func TestPredictors_ResultBounds(t *testing.T) {
	e := fullyTrained(t)
	rng := seeded(77)

	for i := 0; i < 50; i++ {
		results := make([]*models.PredictionResult, 0, 3)

		r, err := e.PredictBrake(models.BrakeFeatures{
			PadThickness: 2 + rng.Float64()*10, FluidLevel: 0.5 + rng.Float64()*0.5,
			MileageSinceService: rng.Float64() * 60000, HardBrakingRate: rng.Float64() * 20,
			BrakeTemp: 50 + rng.Float64()*300,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, r.EstimatedTimeToFailure, 90)
		results = append(results, r)

		r, err = e.PredictBattery(models.BatteryFeatures{
			Voltage: 11 + rng.Float64()*3.8, AgeMonths: rng.Float64() * 72,
			ChargeCycles: rng.Float64() * 1500, Temperature: -10 + rng.Float64()*60,
			InternalResistance: 5 + rng.Float64()*25,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, r.EstimatedTimeToFailure, 120)
		results = append(results, r)

		r, err = e.PredictTire(models.TireFeatures{
			TreadDepth: 1.5 + rng.Float64()*8.5, Pressure: 20 + rng.Float64()*25,
			Mileage: rng.Float64() * 80000, AgeMonths: rng.Float64() * 72,
			AlignmentDeviation: rng.Float64() * 2,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, r.EstimatedTimeToFailure, 60)
		results = append(results, r)

		for _, r := range results {
			assert.GreaterOrEqual(t, r.Probability, 0)
			assert.LessOrEqual(t, r.Probability, 100)
			assert.GreaterOrEqual(t, r.Confidence, 70)
			assert.LessOrEqual(t, r.Confidence, 95)
			assert.GreaterOrEqual(t, r.EstimatedTimeToFailure, 1)
			assert.NotEmpty(t, r.Recommendation)
		}
	}
}

func TestPredictFuelEfficiency_Bounds(t *testing.T) {
	e := fullyTrained(t)
	rng := seeded(78)

	inputs := []models.FuelFeatures{
		{},
		{AvgSpeed: 70, TirePressure: 35},
		{AvgSpeed: 1e6, EngineLoad: 50, IdleRatio: -3, TirePressure: -100, PayloadRatio: 9, Aggressiveness: 9},
	}
	for i := 0; i < 100; i++ {
		inputs = append(inputs, models.FuelFeatures{
			AvgSpeed: rng.Float64() * 200, EngineLoad: rng.Float64(), IdleRatio: rng.Float64(),
			TirePressure: rng.Float64() * 60, PayloadRatio: rng.Float64(), Aggressiveness: rng.Float64(),
		})
	}

	for _, f := range inputs {
		eff, err := e.PredictFuelEfficiency(f)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, eff, 5.0)
		assert.LessOrEqual(t, eff, 15.0)
	}

	ideal, err := e.PredictFuelEfficiency(models.FuelFeatures{AvgSpeed: 70, TirePressure: 35})
	require.NoError(t, err)
	poor, err := e.PredictFuelEfficiency(models.FuelFeatures{
		AvgSpeed: 120, EngineLoad: 1, IdleRatio: 0.5, TirePressure: 20, PayloadRatio: 1, Aggressiveness: 1,
	})
	require.NoError(t, err)
	assert.Greater(t, ideal, poor)
}

func TestGetVehiclePredictions(t *testing.T) {
	e := fullyTrained(t)

	results, err := e.GetVehiclePredictions(models.VehicleSnapshot{
		VehicleID:           "truck-12",
		EngineTemp:          92,
		OilPressure:         38,
		Mileage:             120000,
		VehicleAge:          6,
		EngineHours:         4000,
		BrakePadThickness:   5,
		MileageSinceService: 20000,
		BatteryVoltage:      12.4,
		BatteryAgeMonths:    30,
		TireTreadDepth:      4,
		TirePressure:        31,
		TireMileage:         40000,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, ComponentEngine, results[0].Component)
	assert.Equal(t, ComponentBrake, results[1].Component)
	assert.Equal(t, ComponentBattery, results[2].Component)
	assert.Equal(t, ComponentTire, results[3].Component)

	engine, err := e.PredictEngine(models.EngineFeatures{
		EngineTemp: 92, OilPressure: 38, Mileage: 120000, VehicleAge: 6, AvgLoad: 0.6, EngineHours: 4000,
	})
	require.NoError(t, err)
	assert.Equal(t, *engine, results[0])
}

func TestPredict_ConcurrentReaders(t *testing.T) {
	e := fullyTrained(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := e.GetVehiclePredictions(models.VehicleSnapshot{EngineTemp: 90, OilPressure: 40})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

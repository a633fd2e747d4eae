package predictor

import (
	"math"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/synth"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

const (
	ComponentEngine  = "Engine"
	ComponentBrake   = "Brake System"
	ComponentBattery = "Battery"
	ComponentTire    = "Tires"
)

// Days until failure at probability zero.
var horizonDays = map[models.Domain]float64{
	models.DomainEngine:  180,
	models.DomainBrake:   90,
	models.DomainBattery: 120,
	models.DomainTire:    60,
}

var components = map[models.Domain]string{
	models.DomainEngine:  ComponentEngine,
	models.DomainBrake:   ComponentBrake,
	models.DomainBattery: ComponentBattery,
	models.DomainTire:    ComponentTire,
}

// Fillers for readings a VehicleSnapshot does not carry.
const (
	fillerAvgLoad            = 0.6
	fillerFluidLevel         = 0.85
	fillerHardBrakingRate    = 5
	fillerBrakeTemp          = 150
	fillerCyclesPerMonth     = 20
	fillerBatteryTemperature = 25
	fillerInternalResistance = 12
	fillerAlignment          = 0.5
	maxTireAgeMonths         = 72
)

func (e *Engine) forward(domain models.Domain, input []float64) ([]float64, error) {
	start := time.Now()

	e.mu.RLock()
	net, ok := e.networks[domain]
	hooks := e.hooks
	e.mu.RUnlock()

	if !ok {
		return nil, ErrNotReady
	}

	out, err := net.Forward(input)
	if err != nil {
		return nil, err
	}

	if hooks.OnPrediction != nil {
		hooks.OnPrediction(domain, time.Since(start))
	}
	return out, nil
}

func (e *Engine) PredictEngine(f models.EngineFeatures) (*models.PredictionResult, error) {
	out, err := e.forward(models.DomainEngine, synth.EngineVector(f))
	if err != nil {
		return nil, err
	}

	p := out[0]
	result := e.classify(models.DomainEngine, p)
	result.Confidence = round((1 - math.Abs(p-0.5)*0.5) * 100)

	switch {
	case f.EngineTemp > 100:
		result.Recommendation = recommendEngineOverheat
	case f.OilPressure < 30:
		result.Recommendation = recommendEngineOilPressure
	}

	return result, nil
}

func (e *Engine) PredictBrake(f models.BrakeFeatures) (*models.PredictionResult, error) {
	out, err := e.forward(models.DomainBrake, synth.BrakeVector(f))
	if err != nil {
		return nil, err
	}
	result := e.classify(models.DomainBrake, out[0])
	result.Confidence = e.heuristicConfidence()
	return result, nil
}

func (e *Engine) PredictBattery(f models.BatteryFeatures) (*models.PredictionResult, error) {
	out, err := e.forward(models.DomainBattery, synth.BatteryVector(f))
	if err != nil {
		return nil, err
	}
	result := e.classify(models.DomainBattery, out[0])
	result.Confidence = e.heuristicConfidence()
	return result, nil
}

func (e *Engine) PredictTire(f models.TireFeatures) (*models.PredictionResult, error) {
	out, err := e.forward(models.DomainTire, synth.TireVector(f))
	if err != nil {
		return nil, err
	}
	result := e.classify(models.DomainTire, out[0])
	result.Confidence = e.heuristicConfidence()
	return result, nil
}

// PredictFuelEfficiency returns an estimate in km/L within [5, 15].
func (e *Engine) PredictFuelEfficiency(f models.FuelFeatures) (float64, error) {
	out, err := e.forward(models.DomainFuel, synth.FuelVector(f))
	if err != nil {
		return 0, err
	}
	return 5 + out[0]*10, nil
}

// GetVehiclePredictions runs the four classifiers for a snapshot and returns
// the results in engine, brake, battery, tire order.
func (e *Engine) GetVehiclePredictions(s models.VehicleSnapshot) ([]models.PredictionResult, error) {
	engine, err := e.PredictEngine(models.EngineFeatures{
		EngineTemp:  s.EngineTemp,
		OilPressure: s.OilPressure,
		Mileage:     s.Mileage,
		VehicleAge:  s.VehicleAge,
		AvgLoad:     fillerAvgLoad,
		EngineHours: s.EngineHours,
	})
	if err != nil {
		return nil, err
	}

	brake, err := e.PredictBrake(models.BrakeFeatures{
		PadThickness:        s.BrakePadThickness,
		FluidLevel:          fillerFluidLevel,
		MileageSinceService: s.MileageSinceService,
		HardBrakingRate:     fillerHardBrakingRate,
		BrakeTemp:           fillerBrakeTemp,
	})
	if err != nil {
		return nil, err
	}

	battery, err := e.PredictBattery(models.BatteryFeatures{
		Voltage:            s.BatteryVoltage,
		AgeMonths:          s.BatteryAgeMonths,
		ChargeCycles:       s.BatteryAgeMonths * fillerCyclesPerMonth,
		Temperature:        fillerBatteryTemperature,
		InternalResistance: fillerInternalResistance,
	})
	if err != nil {
		return nil, err
	}

	tire, err := e.PredictTire(models.TireFeatures{
		TreadDepth:         s.TireTreadDepth,
		Pressure:           s.TirePressure,
		Mileage:            s.TireMileage,
		AgeMonths:          math.Min(maxTireAgeMonths, s.VehicleAge*12),
		AlignmentDeviation: fillerAlignment,
	})
	if err != nil {
		return nil, err
	}

	return []models.PredictionResult{*engine, *brake, *battery, *tire}, nil
}

func (e *Engine) classify(domain models.Domain, p float64) *models.PredictionResult {
	severity := models.SeverityFor(p)
	return &models.PredictionResult{
		Probability:            round(p * 100),
		EstimatedTimeToFailure: max(1, round((1-p)*horizonDays[domain])),
		Component:              components[domain],
		Severity:               severity,
		Recommendation:         recommendations[domain][severity],
	}
}

// heuristicConfidence is a bounded random score in [70, 95]. It is not
// derived from the model.
func (e *Engine) heuristicConfidence() int {
	return round((0.70 + e.rng.Float64()*0.25) * 100)
}

func round(v float64) int {
	return int(math.Round(v))
}

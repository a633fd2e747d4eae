package synth

import (
	"math"
	"math/rand/v2"

	"github.com/jayakrishna0023/fleet-guardian/internal/nn"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var (
	EngineTemp  = Range{70, 120}
	OilPressure = Range{20, 60}
	Mileage     = Range{0, 300000}
	VehicleAge  = Range{0, 15}
	AvgLoad     = Range{0, 1}
	EngineHours = Range{0, 10000}

	PadThickness        = Range{2, 12}
	FluidLevel          = Range{0.5, 1.0}
	MileageSinceService = Range{0, 60000}
	HardBrakingRate     = Range{0, 20}
	BrakeTemp           = Range{50, 350}

	BatteryVoltage     = Range{11, 14.8}
	BatteryAgeMonths   = Range{0, 72}
	ChargeCycles       = Range{0, 1500}
	BatteryTemperature = Range{-10, 50}
	InternalResistance = Range{5, 30}

	TreadDepth         = Range{1.5, 10}
	TirePressure       = Range{20, 45}
	TireMileage        = Range{0, 80000}
	TireAgeMonths      = Range{0, 72}
	AlignmentDeviation = Range{0, 2}

	AvgSpeed       = Range{20, 120}
	EngineLoad     = Range{0, 1}
	IdleRatio      = Range{0, 0.5}
	PayloadRatio   = Range{0, 1}
	Aggressiveness = Range{0, 1}
)

// EngineRisk is the failure label for raw engine readings.
func EngineRisk(f models.EngineFeatures) float64 {
	risk := 0.30*clamp01((f.EngineTemp-85)/25) +
		0.30*clamp01((45-f.OilPressure)/25) +
		0.10*f.Mileage/300000 +
		0.10*f.VehicleAge/15 +
		0.10*f.AvgLoad +
		0.10*f.EngineHours/10000
	return math.Min(risk, maxLabel)
}

func BrakeRisk(f models.BrakeFeatures) float64 {
	risk := 0.35*clamp01((8-f.PadThickness)/6) +
		0.15*clamp01((0.9-f.FluidLevel)/0.4) +
		0.20*f.MileageSinceService/60000 +
		0.15*f.HardBrakingRate/20 +
		0.15*clamp01((f.BrakeTemp-150)/200)
	return math.Min(risk, maxLabel)
}

func BatteryRisk(f models.BatteryFeatures) float64 {
	risk := 0.30*clamp01((12.6-f.Voltage)/1.6) +
		0.20*f.AgeMonths/72 +
		0.20*f.ChargeCycles/1500 +
		0.10*math.Abs(f.Temperature-25)/35 +
		0.20*(f.InternalResistance-5)/25
	return math.Min(risk, maxLabel)
}

func TireRisk(f models.TireFeatures) float64 {
	risk := 0.35*clamp01((6-f.TreadDepth)/4.5) +
		0.20*math.Abs(f.Pressure-35)/15 +
		0.20*f.Mileage/80000 +
		0.10*f.AgeMonths/72 +
		0.15*f.AlignmentDeviation/2
	return math.Min(risk, maxLabel)
}

// FuelEfficiency is the normalized efficiency label, within [0.05, 0.95].
func FuelEfficiency(f models.FuelFeatures) float64 {
	eff := 0.9 -
		0.20*math.Abs(f.AvgSpeed-70)/50 -
		0.15*f.EngineLoad -
		0.25*f.IdleRatio/0.5 -
		0.10*math.Abs(f.TirePressure-35)/15 -
		0.10*f.PayloadRatio -
		0.10*f.Aggressiveness
	return math.Max(minFuel, math.Min(maxLabel, eff))
}

func EngineVector(f models.EngineFeatures) []float64 {
	return []float64{
		EngineTemp.normalize(f.EngineTemp),
		OilPressure.normalize(f.OilPressure),
		Mileage.normalize(f.Mileage),
		VehicleAge.normalize(f.VehicleAge),
		AvgLoad.normalize(f.AvgLoad),
		EngineHours.normalize(f.EngineHours),
	}
}

func BrakeVector(f models.BrakeFeatures) []float64 {
	return []float64{
		PadThickness.normalize(f.PadThickness),
		FluidLevel.normalize(f.FluidLevel),
		MileageSinceService.normalize(f.MileageSinceService),
		HardBrakingRate.normalize(f.HardBrakingRate),
		BrakeTemp.normalize(f.BrakeTemp),
	}
}

func BatteryVector(f models.BatteryFeatures) []float64 {
	return []float64{
		BatteryVoltage.normalize(f.Voltage),
		BatteryAgeMonths.normalize(f.AgeMonths),
		ChargeCycles.normalize(f.ChargeCycles),
		BatteryTemperature.normalize(f.Temperature),
		InternalResistance.normalize(f.InternalResistance),
	}
}

func TireVector(f models.TireFeatures) []float64 {
	return []float64{
		TreadDepth.normalize(f.TreadDepth),
		TirePressure.normalize(f.Pressure),
		TireMileage.normalize(f.Mileage),
		TireAgeMonths.normalize(f.AgeMonths),
		AlignmentDeviation.normalize(f.AlignmentDeviation),
	}
}

func FuelVector(f models.FuelFeatures) []float64 {
	return []float64{
		AvgSpeed.normalize(f.AvgSpeed),
		EngineLoad.normalize(f.EngineLoad),
		IdleRatio.normalize(f.IdleRatio),
		TirePressure.normalize(f.TirePressure),
		PayloadRatio.normalize(f.PayloadRatio),
		Aggressiveness.normalize(f.Aggressiveness),
	}
}

// GenerateEngine draws n engine samples. Targets are [risk, 1-risk].
func GenerateEngine(rng *rand.Rand, n int) []nn.Sample {
	samples := make([]nn.Sample, 0, n)
	for i := 0; i < n; i++ {
		f := models.EngineFeatures{
			EngineTemp:  EngineTemp.draw(rng),
			OilPressure: OilPressure.draw(rng),
			Mileage:     Mileage.draw(rng),
			VehicleAge:  VehicleAge.draw(rng),
			AvgLoad:     AvgLoad.draw(rng),
			EngineHours: EngineHours.draw(rng),
		}
		risk := EngineRisk(f)
		samples = append(samples, nn.Sample{Input: EngineVector(f), Target: []float64{risk, 1 - risk}})
	}
	return samples
}

func GenerateBrake(rng *rand.Rand, n int) []nn.Sample {
	samples := make([]nn.Sample, 0, n)
	for i := 0; i < n; i++ {
		f := models.BrakeFeatures{
			PadThickness:        PadThickness.draw(rng),
			FluidLevel:          FluidLevel.draw(rng),
			MileageSinceService: MileageSinceService.draw(rng),
			HardBrakingRate:     HardBrakingRate.draw(rng),
			BrakeTemp:           BrakeTemp.draw(rng),
		}
		samples = append(samples, nn.Sample{Input: BrakeVector(f), Target: []float64{BrakeRisk(f)}})
	}
	return samples
}

func GenerateBattery(rng *rand.Rand, n int) []nn.Sample {
	samples := make([]nn.Sample, 0, n)
	for i := 0; i < n; i++ {
		f := models.BatteryFeatures{
			Voltage:            BatteryVoltage.draw(rng),
			AgeMonths:          BatteryAgeMonths.draw(rng),
			ChargeCycles:       ChargeCycles.draw(rng),
			Temperature:        BatteryTemperature.draw(rng),
			InternalResistance: InternalResistance.draw(rng),
		}
		samples = append(samples, nn.Sample{Input: BatteryVector(f), Target: []float64{BatteryRisk(f)}})
	}
	return samples
}

func GenerateTire(rng *rand.Rand, n int) []nn.Sample {
	samples := make([]nn.Sample, 0, n)
	for i := 0; i < n; i++ {
		f := models.TireFeatures{
			TreadDepth:         TreadDepth.draw(rng),
			Pressure:           TirePressure.draw(rng),
			Mileage:            TireMileage.draw(rng),
			AgeMonths:          TireAgeMonths.draw(rng),
			AlignmentDeviation: AlignmentDeviation.draw(rng),
		}
		samples = append(samples, nn.Sample{Input: TireVector(f), Target: []float64{TireRisk(f)}})
	}
	return samples
}

func GenerateFuel(rng *rand.Rand, n int) []nn.Sample {
	samples := make([]nn.Sample, 0, n)
	for i := 0; i < n; i++ {
		f := models.FuelFeatures{
			AvgSpeed:       AvgSpeed.draw(rng),
			EngineLoad:     EngineLoad.draw(rng),
			IdleRatio:      IdleRatio.draw(rng),
			TirePressure:   TirePressure.draw(rng),
			PayloadRatio:   PayloadRatio.draw(rng),
			Aggressiveness: Aggressiveness.draw(rng),
		}
		samples = append(samples, nn.Sample{Input: FuelVector(f), Target: []float64{FuelEfficiency(f)}})
	}
	return samples
}

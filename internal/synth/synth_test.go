package synth

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected float64
	}{
		{"minimum", 70, 0},
		{"maximum", 120, 1},
		{"midpoint", 95, 0.5},
		{"below range", 10, 0},
		{"above range", 500, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Normalize(tt.v, 70, 120), 1e-12)
		})
	}

	assert.Zero(t, Normalize(5, 3, 3))
}

func TestGenerate_ShapesAndRanges(t *testing.T) {
	for _, domain := range models.Domains {
		t.Run(string(domain), func(t *testing.T) {
			layers := Layers(domain)
			require.NotNil(t, layers)

			samples := Generate(domain, seeded(1), DefaultSamples)
			require.Len(t, samples, DefaultSamples)

			for _, s := range samples {
				require.Len(t, s.Input, layers[0])
				require.Len(t, s.Target, layers[len(layers)-1])
				for _, v := range s.Input {
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 1.0)
				}
				assert.LessOrEqual(t, s.Target[0], 0.95)
				assert.GreaterOrEqual(t, s.Target[0], 0.0)
			}
		})
	}
}

func TestGenerate_UnknownDomain(t *testing.T) {
	assert.Nil(t, Generate(models.Domain("transmission"), seeded(1), 10))
	assert.Nil(t, Layers(models.Domain("transmission")))
}

func TestGenerate_Deterministic(t *testing.T) {
	a := GenerateBrake(seeded(9), 20)
	b := GenerateBrake(seeded(9), 20)
	assert.Equal(t, a, b)
}

func TestGenerateEngine_TargetsComplement(t *testing.T) {
	for _, s := range GenerateEngine(seeded(3), 50) {
		assert.InDelta(t, 1.0, s.Target[0]+s.Target[1], 1e-12)
	}
}

func TestGenerateFuel_LabelBounds(t *testing.T) {
	for _, s := range GenerateFuel(seeded(4), 500) {
		assert.GreaterOrEqual(t, s.Target[0], 0.05)
		assert.LessOrEqual(t, s.Target[0], 0.95)
	}
}

func TestEngineRisk(t *testing.T) {
	critical := models.EngineFeatures{
		EngineTemp: 110, OilPressure: 22, Mileage: 280000,
		VehicleAge: 12, AvgLoad: 0.8, EngineHours: 9000,
	}
	// 0.30 + 0.276 + 0.0933 + 0.08 + 0.08 + 0.09
	assert.InDelta(t, 0.9193, EngineRisk(critical), 1e-3)

	healthy := models.EngineFeatures{EngineTemp: 80, OilPressure: 55}
	assert.Zero(t, EngineRisk(healthy))

	worst := models.EngineFeatures{
		EngineTemp: 120, OilPressure: 20, Mileage: 300000,
		VehicleAge: 15, AvgLoad: 1, EngineHours: 10000,
	}
	assert.Equal(t, 0.95, EngineRisk(worst))
}

func TestDomainRisks(t *testing.T) {
	assert.Equal(t, 0.95, BrakeRisk(models.BrakeFeatures{
		PadThickness: 2, FluidLevel: 0.5, MileageSinceService: 60000, HardBrakingRate: 20, BrakeTemp: 350,
	}))
	assert.Zero(t, BrakeRisk(models.BrakeFeatures{PadThickness: 12, FluidLevel: 1, BrakeTemp: 50}))

	assert.InDelta(t, 0.0, BatteryRisk(models.BatteryFeatures{
		Voltage: 12.8, Temperature: 25, InternalResistance: 5,
	}), 1e-12)
	assert.InDelta(t, 0.30+0.10, BatteryRisk(models.BatteryFeatures{
		Voltage: 11, Temperature: 60, InternalResistance: 5,
	}), 1e-12)

	assert.InDelta(t, 0.0, TireRisk(models.TireFeatures{TreadDepth: 8, Pressure: 35}), 1e-12)
	assert.InDelta(t, 0.35+0.20, TireRisk(models.TireFeatures{TreadDepth: 1.5, Pressure: 20}), 1e-12)
}

func TestFuelEfficiency(t *testing.T) {
	ideal := models.FuelFeatures{AvgSpeed: 70, TirePressure: 35}
	assert.InDelta(t, 0.9, FuelEfficiency(ideal), 1e-12)

	worst := models.FuelFeatures{
		AvgSpeed: 120, EngineLoad: 1, IdleRatio: 0.5,
		TirePressure: 20, PayloadRatio: 1, Aggressiveness: 1,
	}
	assert.Equal(t, 0.05, FuelEfficiency(worst))
}

func TestVectors_NormalizeWithTrainingBounds(t *testing.T) {
	v := EngineVector(models.EngineFeatures{
		EngineTemp: 95, OilPressure: 40, Mileage: 150000,
		VehicleAge: 7.5, AvgLoad: 0.5, EngineHours: 5000,
	})
	for _, x := range v {
		assert.InDelta(t, 0.5, x, 1e-12)
	}

	b := BatteryVector(models.BatteryFeatures{Voltage: 20, Temperature: -40})
	assert.Equal(t, 1.0, b[0])
	assert.Equal(t, 0.0, b[3])
}

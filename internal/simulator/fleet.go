package simulator

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// Fleet is the YAML document describing simulated vehicles.
type Fleet struct {
	Vehicles []VehicleSpec `yaml:"vehicles"`
}

type VehicleSpec struct {
	ID       string   `yaml:"id"`
	Pattern  string   `yaml:"pattern"`
	SpeedKmh float64  `yaml:"speed_kmh"`
	Variance float64  `yaml:"variance"`
	Baseline Baseline `yaml:"baseline"`
}

// Baseline holds starting readings. Zero fields take DefaultBaseline values.
type Baseline struct {
	EngineTemp          float64 `yaml:"engine_temp"`
	OilPressure         float64 `yaml:"oil_pressure"`
	Mileage             float64 `yaml:"mileage"`
	VehicleAge          float64 `yaml:"vehicle_age"`
	EngineHours         float64 `yaml:"engine_hours"`
	BrakePadThickness   float64 `yaml:"brake_pad_thickness"`
	MileageSinceService float64 `yaml:"mileage_since_service"`
	BatteryVoltage      float64 `yaml:"battery_voltage"`
	BatteryAgeMonths    float64 `yaml:"battery_age_months"`
	TireTreadDepth      float64 `yaml:"tire_tread_depth"`
	TirePressure        float64 `yaml:"tire_pressure"`
	TireMileage         float64 `yaml:"tire_mileage"`
}

func DefaultBaseline() Baseline {
	return Baseline{
		EngineTemp:          88,
		OilPressure:         45,
		Mileage:             60000,
		VehicleAge:          4,
		EngineHours:         2500,
		BrakePadThickness:   9,
		MileageSinceService: 8000,
		BatteryVoltage:      12.6,
		BatteryAgeMonths:    18,
		TireTreadDepth:      7,
		TirePressure:        33,
		TireMileage:         20000,
	}
}

func (b Baseline) withDefaults() Baseline {
	d := DefaultBaseline()
	pick := func(v, def float64) float64 {
		if v == 0 {
			return def
		}
		return v
	}
	return Baseline{
		EngineTemp:          pick(b.EngineTemp, d.EngineTemp),
		OilPressure:         pick(b.OilPressure, d.OilPressure),
		Mileage:             pick(b.Mileage, d.Mileage),
		VehicleAge:          pick(b.VehicleAge, d.VehicleAge),
		EngineHours:         pick(b.EngineHours, d.EngineHours),
		BrakePadThickness:   pick(b.BrakePadThickness, d.BrakePadThickness),
		MileageSinceService: pick(b.MileageSinceService, d.MileageSinceService),
		BatteryVoltage:      pick(b.BatteryVoltage, d.BatteryVoltage),
		BatteryAgeMonths:    pick(b.BatteryAgeMonths, d.BatteryAgeMonths),
		TireTreadDepth:      pick(b.TireTreadDepth, d.TireTreadDepth),
		TirePressure:        pick(b.TirePressure, d.TirePressure),
		TireMileage:         pick(b.TireMileage, d.TireMileage),
	}
}

func (b Baseline) snapshot(vehicleID string) models.VehicleSnapshot {
	b = b.withDefaults()
	return models.VehicleSnapshot{
		VehicleID:           vehicleID,
		EngineTemp:          b.EngineTemp,
		OilPressure:         b.OilPressure,
		Mileage:             b.Mileage,
		VehicleAge:          b.VehicleAge,
		EngineHours:         b.EngineHours,
		BrakePadThickness:   b.BrakePadThickness,
		MileageSinceService: b.MileageSinceService,
		BatteryVoltage:      b.BatteryVoltage,
		BatteryAgeMonths:    b.BatteryAgeMonths,
		TireTreadDepth:      b.TireTreadDepth,
		TirePressure:        b.TirePressure,
		TireMileage:         b.TireMileage,
	}
}

// ParseFleet decodes and validates a fleet document.
func ParseFleet(data []byte) (*Fleet, error) {
	var f Fleet
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid fleet file: %w", err)
	}

	seen := make(map[string]bool, len(f.Vehicles))
	for i := range f.Vehicles {
		v := &f.Vehicles[i]
		if v.ID == "" {
			return nil, fmt.Errorf("vehicle %d: id is required", i)
		}
		if seen[v.ID] {
			return nil, fmt.Errorf("duplicate vehicle id %q", v.ID)
		}
		seen[v.ID] = true

		if _, err := ParsePattern(v.Pattern); err != nil {
			return nil, fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
		if v.SpeedKmh < 0 {
			return nil, fmt.Errorf("vehicle %s: speed_kmh must not be negative", v.ID)
		}
		if v.SpeedKmh == 0 {
			v.SpeedKmh = 50
		}
		if v.Variance < 0 || v.Variance > 0.5 {
			return nil, fmt.Errorf("vehicle %s: variance must be in [0, 0.5]", v.ID)
		}
	}
	return &f, nil
}

func LoadFleet(path string) (*Fleet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("fleet file not found: %s", path)
		}
		return nil, err
	}
	return ParseFleet(data)
}

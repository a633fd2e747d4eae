package simulator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// Progress is how far a simulated vehicle has come since it was created or
// its pattern was last changed.
type Progress struct {
	Elapsed time.Duration
	Km      float64
	Rand    *rand.Rand
}

// Pattern degrades a baseline snapshot in place.
type Pattern interface {
	Apply(s *models.VehicleSnapshot, p Progress)
	Name() string
}

var patterns = map[string]Pattern{
	"steady":        SteadyPattern{},
	"wear":          WearPattern{},
	"overheating":   OverheatingPattern{},
	"battery_drain": BatteryDrainPattern{},
	"erratic":       ErraticPattern{},
}

func ParsePattern(name string) (Pattern, error) {
	if name == "" {
		return SteadyPattern{}, nil
	}
	p, ok := patterns[name]
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q (known: %v)", name, PatternNames())
	}
	return p, nil
}

func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for n := range patterns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SteadyPattern only accrues distance.
type SteadyPattern struct{}

func (SteadyPattern) Apply(*models.VehicleSnapshot, Progress) {}

func (SteadyPattern) Name() string { return "steady" }

// WearPattern consumes brake pads and tire tread with distance and slowly
// weakens the battery.
type WearPattern struct{}

func (WearPattern) Apply(s *models.VehicleSnapshot, p Progress) {
	s.BrakePadThickness = math.Max(1, s.BrakePadThickness-p.Km*0.0005)
	s.TireTreadDepth = math.Max(0.5, s.TireTreadDepth-p.Km*0.0002)
	s.BatteryVoltage = math.Max(11, s.BatteryVoltage-p.Elapsed.Hours()*0.01)
}

func (WearPattern) Name() string { return "wear" }

// OverheatingPattern ramps engine temperature up and oil pressure down over
// the first 20 minutes.
type OverheatingPattern struct{}

func (OverheatingPattern) Apply(s *models.VehicleSnapshot, p Progress) {
	ramp := math.Min(p.Elapsed.Minutes()/20, 1)
	s.EngineTemp += 30 * ramp
	s.OilPressure = math.Max(15, s.OilPressure-25*ramp)
}

func (OverheatingPattern) Name() string { return "overheating" }

// BatteryDrainPattern drops resting voltage by up to 2.5V over 10 hours.
type BatteryDrainPattern struct{}

func (BatteryDrainPattern) Apply(s *models.VehicleSnapshot, p Progress) {
	s.BatteryVoltage = math.Max(10.5, s.BatteryVoltage-math.Min(p.Elapsed.Hours()*0.25, 2.5))
}

func (BatteryDrainPattern) Name() string { return "battery_drain" }

// ErraticPattern swings sensor readings by up to 15% each sample.
type ErraticPattern struct{}

func (ErraticPattern) Apply(s *models.VehicleSnapshot, p Progress) {
	if p.Rand == nil {
		return
	}
	swing := func(v float64) float64 { return v * (1 + (p.Rand.Float64()*2-1)*0.15) }
	s.EngineTemp = swing(s.EngineTemp)
	s.OilPressure = swing(s.OilPressure)
	s.TirePressure = swing(s.TirePressure)
}

func (ErraticPattern) Name() string { return "erratic" }

package simulator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

type VehicleSim struct {
	id        string
	base      models.VehicleSnapshot
	speedKmh  float64
	variance  float64
	timeScale float64
	pattern   Pattern
	started   time.Time
	rng       *rand.Rand
	mu        sync.Mutex
}

func NewVehicleSim(spec VehicleSpec, started time.Time, timeScale float64, rng *rand.Rand) (*VehicleSim, error) {
	pattern, err := ParsePattern(spec.Pattern)
	if err != nil {
		return nil, err
	}
	if timeScale <= 0 {
		timeScale = 1
	}

	return &VehicleSim{
		id:        spec.ID,
		base:      spec.Baseline.snapshot(spec.ID),
		speedKmh:  spec.SpeedKmh,
		variance:  spec.Variance,
		timeScale: timeScale,
		pattern:   pattern,
		started:   started,
		rng:       rng,
	}, nil
}

func (v *VehicleSim) ID() string {
	return v.id
}

// Snapshot returns the readings at now.
func (v *VehicleSim) Snapshot(now time.Time) models.VehicleSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	elapsed := time.Duration(float64(now.Sub(v.started)) * v.timeScale)
	if elapsed < 0 {
		elapsed = 0
	}
	hours := elapsed.Hours()
	km := hours * v.speedKmh

	s := v.base
	s.Timestamp = now
	s.Mileage += km
	s.MileageSinceService += km
	s.TireMileage += km
	s.EngineHours += hours

	v.pattern.Apply(&s, Progress{Elapsed: elapsed, Km: km, Rand: v.rng})

	if v.variance > 0 {
		s.EngineTemp = v.jitter(s.EngineTemp)
		s.OilPressure = v.jitter(s.OilPressure)
		s.BatteryVoltage = v.jitter(s.BatteryVoltage)
		s.TirePressure = v.jitter(s.TirePressure)
	}

	s.EngineTemp = round2(s.EngineTemp)
	s.OilPressure = round2(s.OilPressure)
	s.BatteryVoltage = round2(s.BatteryVoltage)
	s.TirePressure = round2(s.TirePressure)
	s.BrakePadThickness = round2(s.BrakePadThickness)
	s.TireTreadDepth = round2(s.TireTreadDepth)
	s.Mileage = math.Round(s.Mileage)
	s.MileageSinceService = math.Round(s.MileageSinceService)
	s.TireMileage = math.Round(s.TireMileage)
	s.EngineHours = round2(s.EngineHours)

	return s
}

func (v *VehicleSim) jitter(x float64) float64 {
	return x * (1 + (v.rng.Float64()*2-1)*v.variance)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SetPattern switches the degradation pattern. Accrued distance is folded
// into the baseline so readings do not jump backwards.
func (v *VehicleSim) SetPattern(p Pattern, now time.Time) {
	current := v.Snapshot(now)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.base.Mileage = current.Mileage
	v.base.MileageSinceService = current.MileageSinceService
	v.base.TireMileage = current.TireMileage
	v.base.EngineHours = current.EngineHours
	v.base.BrakePadThickness = current.BrakePadThickness
	v.base.TireTreadDepth = current.TireTreadDepth
	v.pattern = p
	v.started = now
}

func (v *VehicleSim) PatternName() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pattern.Name()
}

type VehicleStatus struct {
	ID       string  `json:"id"`
	Pattern  string  `json:"pattern"`
	SpeedKmh float64 `json:"speed_kmh"`
	Uptime   string  `json:"uptime"`
}

func (v *VehicleSim) Status(now time.Time) VehicleStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return VehicleStatus{
		ID:       v.id,
		Pattern:  v.pattern.Name(),
		SpeedKmh: v.speedKmh,
		Uptime:   now.Sub(v.started).Truncate(time.Second).String(),
	}
}

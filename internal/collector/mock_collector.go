package collector

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// MockCollector serves registered base snapshots with optional jitter.
type MockCollector struct {
	vehicles     map[string]models.VehicleSnapshot
	variance     float64
	rng          *rand.Rand
	shouldFail   bool
	failureError error
	calls        int
	mu           sync.Mutex
}

type MockCollectorConfig struct {
	// Variance is the relative jitter applied to every reading, e.g. 0.05
	// for +/-5%. Zero returns the base snapshot unchanged.
	Variance float64
	Seed     uint64
}

func NewMockCollector(cfg MockCollectorConfig) *MockCollector {
	return &MockCollector{
		vehicles: make(map[string]models.VehicleSnapshot),
		variance: cfg.Variance,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1)),
	}
}

func (c *MockCollector) SetVehicle(snapshot models.VehicleSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vehicles[snapshot.VehicleID] = snapshot
}

func (c *MockCollector) RemoveVehicle(vehicleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.vehicles, vehicleID)
}

func (c *MockCollector) SetShouldFail(shouldFail bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shouldFail = shouldFail
	c.failureError = err
}

// Calls returns how many times Collect has been invoked.
func (c *MockCollector) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *MockCollector) Collect(ctx context.Context, vehicleID string) (*models.VehicleSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.shouldFail {
		if c.failureError != nil {
			return nil, c.failureError
		}
		return nil, ErrCollectionFailed
	}

	base, exists := c.vehicles[vehicleID]
	if !exists {
		return nil, ErrVehicleNotFound
	}

	s := base
	s.Timestamp = timeNow()
	if c.variance > 0 {
		s.EngineTemp = c.jitter(s.EngineTemp)
		s.OilPressure = c.jitter(s.OilPressure)
		s.BatteryVoltage = c.jitter(s.BatteryVoltage)
		s.TirePressure = c.jitter(s.TirePressure)
	}
	return &s, nil
}

func (c *MockCollector) jitter(v float64) float64 {
	out := v * (1 + (c.rng.Float64()*2-1)*c.variance)
	if out < 0 {
		return 0
	}
	return out
}

func (c *MockCollector) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shouldFail {
		return ErrCollectionFailed
	}
	return nil
}

func (c *MockCollector) Close() error {
	return nil
}

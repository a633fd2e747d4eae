// Package synth generates labelled training data for the maintenance models
// and normalizes live readings with the same bounds.
package synth

import (
	"math"
	"math/rand/v2"

	"github.com/jayakrishna0023/fleet-guardian/internal/nn"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

const (
	DefaultSamples = 200

	maxLabel = 0.95
	minFuel  = 0.05
)

// Range is the inclusive bound of a raw feature.
type Range struct {
	Min, Max float64
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func (r Range) normalize(v float64) float64 {
	return Normalize(v, r.Min, r.Max)
}

// Normalize min-max scales v into [0,1], clamping values outside the range.
func Normalize(v, min, max float64) float64 {
	if max == min {
		return 0
	}
	return clamp01((v - min) / (max - min))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Layers returns the network architecture for a domain.
func Layers(domain models.Domain) []int {
	switch domain {
	case models.DomainEngine:
		return []int{6, 12, 8, 2}
	case models.DomainFuel:
		return []int{6, 10, 6, 1}
	case models.DomainBrake, models.DomainBattery, models.DomainTire:
		return []int{5, 10, 6, 1}
	default:
		return nil
	}
}

// Generate dispatches to the generator for domain.
func Generate(domain models.Domain, rng *rand.Rand, n int) []nn.Sample {
	switch domain {
	case models.DomainEngine:
		return GenerateEngine(rng, n)
	case models.DomainBrake:
		return GenerateBrake(rng, n)
	case models.DomainBattery:
		return GenerateBattery(rng, n)
	case models.DomainTire:
		return GenerateTire(rng, n)
	case models.DomainFuel:
		return GenerateFuel(rng, n)
	default:
		return nil
	}
}

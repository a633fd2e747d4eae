package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityFor_Boundaries(t *testing.T) {
	tests := []struct {
		p        float64
		expected Severity
	}{
		{0, SeverityLow},
		{0.30, SeverityLow},
		{0.3000001, SeverityMedium},
		{0.50, SeverityMedium},
		{0.5000001, SeverityHigh},
		{0.70, SeverityHigh},
		{0.7000001, SeverityCritical},
		{1, SeverityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SeverityFor(tt.p), "p=%v", tt.p)
	}
}

func TestPredictionResult_IsCritical(t *testing.T) {
	assert.True(t, (&PredictionResult{Severity: SeverityCritical}).IsCritical())
	assert.False(t, (&PredictionResult{Severity: SeverityHigh}).IsCritical())
}

func TestNewPredictionRecord(t *testing.T) {
	rec := NewPredictionRecord("van-3", PredictionResult{
		Probability: 64, Confidence: 81, EstimatedTimeToFailure: 32,
		Component: "Brake System", Severity: SeverityHigh, Recommendation: "replace pads",
	})

	assert.Equal(t, "van-3", rec.VehicleID)
	assert.Equal(t, "Brake System", rec.Component)
	assert.Equal(t, 64, rec.Probability)
	assert.Equal(t, SeverityHigh, rec.Severity)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestParseDomain(t *testing.T) {
	d, ok := ParseDomain("battery")
	assert.True(t, ok)
	assert.Equal(t, DomainBattery, d)

	_, ok = ParseDomain("gearbox")
	assert.False(t, ok)
}

func TestEvent_Builders(t *testing.T) {
	e := NewEvent(EventTypeAlert, "truck-1", "brake wear").
		WithSeverity(EventSeverityCritical).
		WithTraceID("t-1").
		WithData(map[string]int{"days": 5})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventTypeAlert, e.Type)
	assert.Equal(t, EventSeverityCritical, e.Severity)
	assert.Equal(t, "truck-1", e.VehicleID)
	assert.Equal(t, "t-1", e.TraceID)
	assert.NotNil(t, e.Data)
}

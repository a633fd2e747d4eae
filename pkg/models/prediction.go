package models

import "time"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityFor buckets a failure probability in [0,1]. Boundaries are
// exclusive: exactly 0.70 is high, not critical.
func SeverityFor(p float64) Severity {
	switch {
	case p > 0.70:
		return SeverityCritical
	case p > 0.50:
		return SeverityHigh
	case p > 0.30:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// PredictionResult is the outcome of one classification model run.
type PredictionResult struct {
	Probability            int      `json:"probability"`
	Confidence             int      `json:"confidence"`
	EstimatedTimeToFailure int      `json:"estimatedTimeToFailure"`
	Component              string   `json:"component"`
	Severity               Severity `json:"severity"`
	Recommendation         string   `json:"recommendation"`
}

func (p *PredictionResult) IsCritical() bool {
	return p.Severity == SeverityCritical
}

// PredictionRecord is a stored prediction for a vehicle.
type PredictionRecord struct {
	ID                     int64     `json:"id,omitempty"`
	VehicleID              string    `json:"vehicle_id"`
	CreatedAt              time.Time `json:"created_at"`
	Component              string    `json:"component"`
	Probability            int       `json:"probability"`
	Confidence             int       `json:"confidence"`
	Severity               Severity  `json:"severity"`
	EstimatedTimeToFailure int       `json:"estimated_time_to_failure"`
	Recommendation         string    `json:"recommendation"`
}

func NewPredictionRecord(vehicleID string, result PredictionResult) *PredictionRecord {
	return &PredictionRecord{
		VehicleID:              vehicleID,
		CreatedAt:              time.Now(),
		Component:              result.Component,
		Probability:            result.Probability,
		Confidence:             result.Confidence,
		Severity:               result.Severity,
		EstimatedTimeToFailure: result.EstimatedTimeToFailure,
		Recommendation:         result.Recommendation,
	}
}

// ModelInfo describes one loaded or trained domain model.
type ModelInfo struct {
	Domain       string     `json:"domain"`
	Layers       []int      `json:"layers"`
	LearningRate float64    `json:"learning_rate"`
	Source       string     `json:"source"`
	TrainingLoss *float64   `json:"training_loss,omitempty"`
	TrainedAt    *time.Time `json:"trained_at,omitempty"`
}

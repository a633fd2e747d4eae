package models

import "time"

type EventType string

const (
	EventTypeSnapshotCollected EventType = "snapshot_collected"
	EventTypePredictionsMade   EventType = "predictions_made"
	EventTypeModelsTrained     EventType = "models_trained"
	EventTypeModelsLoaded      EventType = "models_loaded"
	EventTypeMonitorStarted    EventType = "monitor_started"
	EventTypeMonitorStopped    EventType = "monitor_stopped"
	EventTypeAlert             EventType = "alert"
	EventTypeError             EventType = "error"
)

type EventSeverity string

const (
	EventSeverityInfo     EventSeverity = "info"
	EventSeverityWarning  EventSeverity = "warning"
	EventSeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	VehicleID string        `json:"vehicle_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, vehicleID, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  EventSeverityInfo,
		VehicleID: vehicleID,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

// Alert is the payload of an EventTypeAlert event.
type Alert struct {
	Rule       string           `json:"rule"`
	VehicleID  string           `json:"vehicle_id"`
	Severity   EventSeverity    `json:"severity"`
	Prediction PredictionResult `json:"prediction"`
}

// PredictionBatch is the payload of an EventTypePredictionsMade event.
type PredictionBatch struct {
	VehicleID string             `json:"vehicle_id"`
	Snapshot  VehicleSnapshot    `json:"snapshot"`
	Results   []PredictionResult `json:"results"`
}

// WorstSeverity returns the most severe result in the batch.
func (b *PredictionBatch) WorstSeverity() Severity {
	rank := map[Severity]int{SeverityLow: 0, SeverityMedium: 1, SeverityHigh: 2, SeverityCritical: 3}
	worst := SeverityLow
	for _, r := range b.Results {
		if rank[r.Severity] > rank[worst] {
			worst = r.Severity
		}
	}
	return worst
}

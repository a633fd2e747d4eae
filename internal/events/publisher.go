package events

import (
	"fmt"

	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

// publish drops the event when the publisher has no bus.
func (p *Publisher) publish(event *models.Event) {
	if p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) SnapshotCollected(snapshot *models.VehicleSnapshot) {
	event := models.NewEvent(models.EventTypeSnapshotCollected, snapshot.VehicleID, "Telemetry collected").
		WithData(snapshot)
	p.publish(event)
}

func (p *Publisher) PredictionsMade(batch *models.PredictionBatch) {
	event := models.NewEvent(models.EventTypePredictionsMade, batch.VehicleID, "Predictions made").
		WithData(batch)

	switch batch.WorstSeverity() {
	case models.SeverityCritical:
		event.WithSeverity(models.EventSeverityCritical)
	case models.SeverityHigh:
		event.WithSeverity(models.EventSeverityWarning)
	}

	p.publish(event)
}

func (p *Publisher) ModelsTrained(infos []models.ModelInfo) {
	event := models.NewEvent(models.EventTypeModelsTrained, "", fmt.Sprintf("Trained %d models", len(infos))).
		WithData(infos)
	p.publish(event)
}

func (p *Publisher) ModelsLoaded(infos []models.ModelInfo) {
	event := models.NewEvent(models.EventTypeModelsLoaded, "", fmt.Sprintf("Loaded %d models", len(infos))).
		WithData(infos)
	p.publish(event)
}

func (p *Publisher) MonitorStarted(vehicleID string) {
	p.publish(models.NewEvent(models.EventTypeMonitorStarted, vehicleID, "Monitoring started"))
}

func (p *Publisher) MonitorStopped(vehicleID string) {
	p.publish(models.NewEvent(models.EventTypeMonitorStopped, vehicleID, "Monitoring stopped"))
}

func (p *Publisher) Alert(alert *models.Alert, message string) {
	event := models.NewEvent(models.EventTypeAlert, alert.VehicleID, message).
		WithSeverity(alert.Severity).
		WithData(alert)
	p.publish(event)
}

func (p *Publisher) Error(vehicleID string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, vehicleID, message).
		WithSeverity(models.EventSeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}

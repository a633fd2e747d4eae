package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// PredictionSink stores prediction batches. queries.PredictionRepository
// satisfies it.
type PredictionSink interface {
	InsertBatch(ctx context.Context, records []*models.PredictionRecord) error
}

// EventLogger writes every event to the structured log and, when a sink is
// configured, persists predictions_made payloads.
type EventLogger struct {
	sink      PredictionSink
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
	started   atomic.Bool
}

// NewEventLogger creates a logger over eventChan. sink may be nil.
func NewEventLogger(sink PredictionSink, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		sink:      sink,
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (l *EventLogger) Start() {
	if l.started.CompareAndSwap(false, true) {
		go l.run()
	}
}

// Stop cancels the loop and waits for it to exit.
func (l *EventLogger) Stop() {
	l.once.Do(l.cancel)
	if l.started.Load() {
		<-l.done
	}
}

func (l *EventLogger) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"vehicle_id": event.VehicleID,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.EventSeverityCritical:
		entry.Error(event.Message)
	case models.EventSeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	if event.Type == models.EventTypePredictionsMade && l.sink != nil {
		l.persistPredictions(event)
	}
}

func (l *EventLogger) persistPredictions(event *models.Event) {
	batch, ok := event.Data.(*models.PredictionBatch)
	if !ok {
		return
	}

	records := make([]*models.PredictionRecord, 0, len(batch.Results))
	for _, r := range batch.Results {
		rec := models.NewPredictionRecord(batch.VehicleID, r)
		rec.CreatedAt = event.Timestamp
		records = append(records, rec)
	}

	if err := l.sink.InsertBatch(l.ctx, records); err != nil {
		logger.WithVehicle(batch.VehicleID).Errorf("Failed to persist predictions: %v", err)
	}
}

package events

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

func receive(t *testing.T, ch <-chan *models.Event) *models.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestEventBus_SubscribeFiltersByType(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	alerts := bus.Subscribe(models.EventTypeAlert)
	all := bus.Subscribe()

	bus.Publish(models.NewEvent(models.EventTypeMonitorStarted, "v1", "started"))
	bus.Publish(models.NewEvent(models.EventTypeAlert, "v1", "alert"))

	assert.Equal(t, models.EventTypeMonitorStarted, receive(t, all).Type)
	assert.Equal(t, models.EventTypeAlert, receive(t, all).Type)
	assert.Equal(t, models.EventTypeAlert, receive(t, alerts).Type)
	assert.Len(t, alerts, 0)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	ch := bus.Subscribe(models.EventTypeError)
	bus.Publish(models.NewEvent(models.EventTypeError, "", "one"))
	bus.Publish(models.NewEvent(models.EventTypeError, "", "two"))

	assert.Equal(t, "one", receive(t, ch).Message)
	assert.Equal(t, int64(1), bus.Dropped())
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	// publishing after unsubscribe must not panic on the closed channel
	bus.Publish(models.NewEvent(models.EventTypeAlert, "v1", "alert"))
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(models.EventTypeAlert, models.EventTypeError)

	bus.Close()
	bus.Close()

	_, ok := <-ch
	assert.False(t, ok)

	late := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok)

	bus.Publish(models.NewEvent(models.EventTypeAlert, "v1", "ignored"))
}

func TestPublisher_PredictionsMadeSeverity(t *testing.T) {
	tests := []struct {
		name     string
		severity models.Severity
		want     models.EventSeverity
	}{
		{"low", models.SeverityLow, models.EventSeverityInfo},
		{"medium", models.SeverityMedium, models.EventSeverityInfo},
		{"high", models.SeverityHigh, models.EventSeverityWarning},
		{"critical", models.SeverityCritical, models.EventSeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewEventBus(10)
			defer bus.Close()
			ch := bus.Subscribe(models.EventTypePredictionsMade)

			NewPublisher(bus).WithTraceID("trace-1").PredictionsMade(&models.PredictionBatch{
				VehicleID: "v1",
				Results: []models.PredictionResult{
					{Component: "Brake Pads", Severity: models.SeverityLow},
					{Component: "Engine", Severity: tt.severity},
				},
			})

			e := receive(t, ch)
			assert.Equal(t, tt.want, e.Severity)
			assert.Equal(t, "v1", e.VehicleID)
			assert.Equal(t, "trace-1", e.TraceID)
		})
	}
}

func TestPublisher_Events(t *testing.T) {
	bus := NewEventBus(20)
	defer bus.Close()
	ch := bus.Subscribe()
	p := NewPublisher(bus)

	p.SnapshotCollected(&models.VehicleSnapshot{VehicleID: "v1"})
	p.ModelsTrained([]models.ModelInfo{{Domain: "engine"}})
	p.ModelsLoaded([]models.ModelInfo{{Domain: "engine"}, {Domain: "brake"}})
	p.MonitorStarted("v2")
	p.MonitorStopped("v2")
	p.Alert(&models.Alert{Rule: "engine_critical", VehicleID: "v3", Severity: models.EventSeverityCritical}, "engine at risk")
	p.Error("v4", "collection failed", errors.New("boom"))

	want := []models.EventType{
		models.EventTypeSnapshotCollected,
		models.EventTypeModelsTrained,
		models.EventTypeModelsLoaded,
		models.EventTypeMonitorStarted,
		models.EventTypeMonitorStopped,
		models.EventTypeAlert,
		models.EventTypeError,
	}
	var got []*models.Event
	for range want {
		got = append(got, receive(t, ch))
	}
	for i, e := range got {
		assert.Equal(t, want[i], e.Type)
	}

	assert.Equal(t, "Loaded 2 models", got[2].Message)
	assert.Equal(t, models.EventSeverityCritical, got[5].Severity)
	assert.Equal(t, "v3", got[5].VehicleID)
	assert.Equal(t, map[string]interface{}{"error": "boom"}, got[6].Data)
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]*models.PredictionRecord
	err     error
}

func (s *recordingSink) InsertBatch(_ context.Context, records []*models.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, records)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func TestEventLogger_PersistsPredictions(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	bus := NewEventBus(10)
	sink := &recordingSink{}
	el := NewEventLogger(sink, bus.Subscribe())
	el.Start()

	p := NewPublisher(bus)
	p.MonitorStarted("v1")
	p.PredictionsMade(&models.PredictionBatch{
		VehicleID: "v1",
		Results: []models.PredictionResult{
			{Component: "Engine", Probability: 80, Severity: models.SeverityCritical},
			{Component: "Battery", Probability: 20, Severity: models.SeverityLow},
		},
	})

	require.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 5*time.Millisecond)
	el.Stop()
	bus.Close()

	batch := sink.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "v1", batch[0].VehicleID)
	assert.Equal(t, "Engine", batch[0].Component)
	assert.Equal(t, 80, batch[0].Probability)
	assert.Equal(t, "Battery", batch[1].Component)
	assert.Equal(t, batch[0].CreatedAt, batch[1].CreatedAt)
}

func TestEventLogger_NilSinkAndStopWithoutStart(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	el := NewEventLogger(nil, bus.Subscribe())
	el.processEvent(models.NewEvent(models.EventTypePredictionsMade, "v1", "no sink").
		WithData(&models.PredictionBatch{VehicleID: "v1"}))
	el.Stop()
	el.Stop()
}

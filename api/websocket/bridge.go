package websocket

import (
	"context"
	"sync"

	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// streamed lists the bus events forwarded to WebSocket clients. Raw snapshots
// stay internal.
var streamed = []models.EventType{
	models.EventTypePredictionsMade,
	models.EventTypeAlert,
	models.EventTypeMonitorStarted,
	models.EventTypeMonitorStopped,
	models.EventTypeModelsTrained,
	models.EventTypeModelsLoaded,
	models.EventTypeError,
}

// EventBridge forwards bus events to the hub.
type EventBridge struct {
	hub    *Hub
	bus    *events.EventBus
	events <-chan *models.Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEventBridge(hub *Hub, bus *events.EventBus) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:    hub,
		bus:    bus,
		events: bus.Subscribe(streamed...),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *EventBridge) Start() {
	b.wg.Add(1)
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	b.bus.Unsubscribe(b.events)
	b.wg.Wait()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.events:
			if !ok {
				return
			}
			if msg := ToMessage(event); msg != nil {
				b.hub.Broadcast(event.VehicleID, msg.JSON())
			}
		}
	}
}

// ToMessage converts a bus event to its client form, or nil when the event
// is not streamed.
func ToMessage(event *models.Event) *OutgoingMessage {
	var msgType MessageType
	data := event.Data

	switch event.Type {
	case models.EventTypePredictionsMade:
		msgType = MessageTypePredictions
	case models.EventTypeAlert:
		msgType = MessageTypeAlert
	case models.EventTypeMonitorStarted:
		msgType = MessageTypeMonitor
		data = MonitorData{Action: "started"}
	case models.EventTypeMonitorStopped:
		msgType = MessageTypeMonitor
		data = MonitorData{Action: "stopped"}
	case models.EventTypeModelsTrained, models.EventTypeModelsLoaded:
		msgType = MessageTypeModels
	case models.EventTypeError:
		msgType = MessageTypeError
	default:
		return nil
	}

	return &OutgoingMessage{
		Type:      msgType,
		VehicleID: event.VehicleID,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		Data:      data,
	}
}

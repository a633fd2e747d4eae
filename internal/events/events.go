package events

import (
	"sync"
	"sync/atomic"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var allEventTypes = []models.EventType{
	models.EventTypeSnapshotCollected,
	models.EventTypePredictionsMade,
	models.EventTypeModelsTrained,
	models.EventTypeModelsLoaded,
	models.EventTypeMonitorStarted,
	models.EventTypeMonitorStopped,
	models.EventTypeAlert,
	models.EventTypeError,
}

// EventBus fans events out to buffered subscriber channels. Slow
// subscribers lose events rather than block publishers.
type EventBus struct {
	subscribers map[models.EventType][]chan *models.Event
	owned       []chan *models.Event
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	dropped     atomic.Int64
}

func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &EventBus{
		subscribers: make(map[models.EventType][]chan *models.Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel receiving the given event types, or every
// type when none are given.
func (b *EventBus) Subscribe(types ...models.EventType) <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}

	if len(types) == 0 {
		types = allEventTypes
	}
	for _, t := range types {
		b.subscribers[t] = append(b.subscribers[t], ch)
	}
	b.owned = append(b.owned, ch)
	return ch
}

// Unsubscribe detaches and closes a channel returned by Subscribe.
func (b *EventBus) Unsubscribe(sub <-chan *models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for t, subs := range b.subscribers {
		kept := subs[:0]
		for _, ch := range subs {
			if (<-chan *models.Event)(ch) != sub {
				kept = append(kept, ch)
			}
		}
		b.subscribers[t] = kept
	}

	for i, ch := range b.owned {
		if (<-chan *models.Event)(ch) == sub {
			close(ch)
			b.owned = append(b.owned[:i], b.owned[i+1:]...)
			return
		}
	}
}

func (b *EventBus) Publish(event *models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
			logger.Warnf("Event channel full, dropping event: %s", event.Type)
		}
	}
}

// Dropped counts events discarded because a subscriber was full.
func (b *EventBus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, ch := range b.owned {
		close(ch)
	}
	b.subscribers = make(map[models.EventType][]chan *models.Event)
	b.owned = nil
}

package websocket

import (
	"context"
	"errors"
	"sync"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
)

var ErrTooManyClients = errors.New("websocket connection limit reached")

type broadcastMessage struct {
	vehicleID string
	payload   []byte
}

// Hub fans messages out to connected clients. A client with an empty vehicle
// filter receives messages for every vehicle.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	settings   Settings

	onClientCount func(int)
	done          chan struct{}
	closeOnce     sync.Once
}

func NewHub(cfg *config.WebSocketConfig) *Hub {
	settings := NewSettings(cfg)
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan broadcastMessage, settings.BroadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		settings:   settings,
		done:       make(chan struct{}),
	}
}

// OnClientCount registers a callback invoked whenever a client joins or leaves.
// It must be set before Run.
func (h *Hub) OnClientCount(fn func(int)) {
	h.onClientCount = fn
}

func (h *Hub) Settings() Settings {
	return h.settings
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.countChanged()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.countChanged()
			logger.WithField("vehicle_id", client.VehicleID()).
				Infof("WebSocket client connected (total: %d)", h.ClientCount())

		case client := <-h.unregister:
			h.remove(client)
			logger.Infof("WebSocket client disconnected (total: %d)", h.ClientCount())

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg broadcastMessage) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		if !client.wants(msg.vehicleID) {
			continue
		}
		select {
		case client.send <- msg.payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("WebSocket client too slow, disconnecting")
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	if ok {
		h.countChanged()
	}
}

func (h *Hub) countChanged() {
	if h.onClientCount != nil {
		h.onClientCount(h.ClientCount())
	}
}

// Broadcast queues payload for every client subscribed to vehicleID. An empty
// vehicleID reaches all clients.
func (h *Hub) Broadcast(vehicleID string, payload []byte) {
	select {
	case h.broadcast <- broadcastMessage{vehicleID: vehicleID, payload: payload}:
	default:
		logger.Warn("Broadcast channel full, dropping message")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds client unless the hub is full or stopped.
func (h *Hub) Register(client *Client) error {
	if h.ClientCount() >= h.settings.MaxConnections {
		return ErrTooManyClients
	}
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return context.Canceled
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu        sync.RWMutex
	vehicleID string
}

func NewClient(hub *Hub, conn *websocket.Conn, vehicleID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, hub.settings.ClientBuffer),
		vehicleID: vehicleID,
	}
}

func (c *Client) VehicleID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vehicleID
}

func (c *Client) setVehicleID(id string) {
	c.mu.Lock()
	c.vehicleID = id
	c.mu.Unlock()
}

// wants reports whether a message about vehicleID should reach this client.
func (c *Client) wants(vehicleID string) bool {
	filter := c.VehicleID()
	return filter == "" || vehicleID == "" || filter == vehicleID
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	s := c.hub.settings
	c.conn.SetReadLimit(s.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(s.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WithError(err).Warn("WebSocket read failed")
			}
			return
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	s := c.hub.settings
	ticker := time.NewTicker(s.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		if err := validation.ValidateVehicleID(msg.VehicleID); err != nil {
			return
		}
		c.setVehicleID(msg.VehicleID)
		c.sendConfirmation("subscribed", msg.VehicleID)
	case "unsubscribe":
		old := c.VehicleID()
		c.setVehicleID("")
		c.sendConfirmation("unsubscribed", old)
	}
}

func (c *Client) sendConfirmation(action, vehicleID string) {
	msg := NewMessage(MessageTypeSubscription, vehicleID, SubscriptionData{
		Action:    action,
		VehicleID: vehicleID,
	})
	select {
	case c.send <- msg.JSON():
	default:
		logger.Warn("Client send channel full, dropping confirmation")
	}
}

// ServeWebSocket upgrades the request. The optional vehicle_id query
// parameter limits the stream to one vehicle.
func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	s := hub.settings
	upgrader := websocket.Upgrader{
		ReadBufferSize:  s.ReadBufferSize,
		WriteBufferSize: s.WriteBufferSize,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	return func(c *gin.Context) {
		vehicleID := c.Query("vehicle_id")
		if vehicleID != "" {
			if err := validation.ValidateVehicleID(vehicleID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		if hub.ClientCount() >= s.MaxConnections {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrTooManyClients.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithError(err).Warn("WebSocket upgrade failed")
			return
		}

		client := NewClient(hub, conn, vehicleID)
		if err := hub.Register(client); err != nil {
			reason := "server shutting down"
			if errors.Is(err, ErrTooManyClients) {
				reason = err.Error()
			}
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, reason),
				time.Now().Add(s.WriteWait))
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}

package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

func TestNewSettings_Defaults(t *testing.T) {
	s := NewSettings(nil)
	assert.Equal(t, defaultMaxConnections, s.MaxConnections)
	assert.Equal(t, defaultPongWait*9/10, s.PingPeriod)

	s = NewSettings(&config.WebSocketConfig{PingInterval: 2 * time.Minute, PongTimeout: time.Minute, ClientBuffer: 4})
	assert.Equal(t, 54*time.Second, s.PingPeriod, "ping must fire before the pong deadline")
	assert.Equal(t, 4, s.ClientBuffer)
}

func TestToMessage(t *testing.T) {
	batch := &models.PredictionBatch{VehicleID: "v1"}
	tests := []struct {
		event *models.Event
		want  MessageType
	}{
		{models.NewEvent(models.EventTypePredictionsMade, "v1", "").WithData(batch), MessageTypePredictions},
		{models.NewEvent(models.EventTypeAlert, "v1", "brakes"), MessageTypeAlert},
		{models.NewEvent(models.EventTypeMonitorStarted, "v1", ""), MessageTypeMonitor},
		{models.NewEvent(models.EventTypeModelsTrained, "", ""), MessageTypeModels},
		{models.NewEvent(models.EventTypeError, "v1", ""), MessageTypeError},
	}
	for _, tt := range tests {
		t.Run(string(tt.event.Type), func(t *testing.T) {
			msg := ToMessage(tt.event)
			require.NotNil(t, msg)
			assert.Equal(t, tt.want, msg.Type)
			assert.Equal(t, tt.event.VehicleID, msg.VehicleID)
		})
	}

	stopped := ToMessage(models.NewEvent(models.EventTypeMonitorStopped, "v1", ""))
	assert.Equal(t, MonitorData{Action: "stopped"}, stopped.Data)

	assert.Nil(t, ToMessage(models.NewEvent(models.EventTypeSnapshotCollected, "v1", "")))
}

func runHub(t *testing.T, cfg *config.WebSocketConfig) *Hub {
	t.Helper()
	hub := NewHub(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_FiltersByVehicle(t *testing.T) {
	hub := runHub(t, nil)

	all := NewClient(hub, nil, "")
	v1 := NewClient(hub, nil, "v1")
	v2 := NewClient(hub, nil, "v2")
	for _, c := range []*Client{all, v1, v2} {
		require.NoError(t, hub.Register(c))
	}
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("v1", []byte("for-v1"))
	assert.Equal(t, "for-v1", string(receive(t, all)))
	assert.Equal(t, "for-v1", string(receive(t, v1)))
	assertSilent(t, v2)

	hub.Broadcast("", []byte("fleet-wide"))
	for _, c := range []*Client{all, v1, v2} {
		assert.Equal(t, "fleet-wide", string(receive(t, c)))
	}
}

func TestHub_ConnectionLimitAndCount(t *testing.T) {
	var count atomic.Int64
	hub := NewHub(&config.WebSocketConfig{MaxConnections: 1})
	hub.OnClientCount(func(n int) { count.Store(int64(n)) })
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	defer cancel()

	first := NewClient(hub, nil, "")
	require.NoError(t, hub.Register(first))
	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, hub.Register(NewClient(hub, nil, "")), ErrTooManyClients)

	hub.Unregister(first)
	require.Eventually(t, func() bool { return count.Load() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-first.send
	assert.False(t, open)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := runHub(t, &config.WebSocketConfig{ClientBuffer: 1})
	slow := NewClient(hub, nil, "")
	require.NoError(t, hub.Register(slow))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("", []byte("1"))
	hub.Broadcast("", []byte("2"))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServeWebSocket_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := runHub(t, nil)
	bus := events.NewEventBus(10)
	defer bus.Close()
	bridge := NewEventBridge(hub, bus)
	bridge.Start()
	defer bridge.Stop()

	r := gin.New()
	r.GET("/ws", ServeWebSocket(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?vehicle_id=truck-1"
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	pub := events.NewPublisher(bus)
	pub.MonitorStarted("truck-2")
	pub.PredictionsMade(&models.PredictionBatch{
		VehicleID: "truck-1",
		Results:   []models.PredictionResult{{Component: "Engine", Probability: 12, Severity: models.SeverityLow}},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg OutgoingMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypePredictions, msg.Type, "truck-2 events are filtered out")
	assert.Equal(t, "truck-1", msg.VehicleID)

	require.NoError(t, conn.WriteJSON(IncomingMessage{Type: "subscribe", VehicleID: "truck-2"}))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypeSubscription, msg.Type)
	assert.Equal(t, "truck-2", msg.VehicleID)
}

func TestServeWebSocket_RejectsBadVehicleID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := runHub(t, nil)
	r := gin.New()
	r.GET("/ws", ServeWebSocket(hub))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ws?vehicle_id=bad%20id", nil))
	assert.Equal(t, 400, w.Code)
}

package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	MessageTypePredictions   MessageType = "predictions"
	MessageTypeAlert         MessageType = "alert"
	MessageTypeMonitor       MessageType = "monitor"
	MessageTypeModels        MessageType = "models"
	MessageTypeError         MessageType = "error"
	MessageTypeSubscription  MessageType = "subscription_update"
)

// OutgoingMessage is the envelope for everything written to a client.
type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	VehicleID string      `json:"vehicle_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, vehicleID string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		VehicleID: vehicleID,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

// IncomingMessage lets a client change its vehicle filter after connecting.
type IncomingMessage struct {
	Type      string `json:"type"`
	VehicleID string `json:"vehicle_id,omitempty"`
}

type SubscriptionData struct {
	Action    string `json:"action"`
	VehicleID string `json:"vehicle_id"`
}

type MonitorData struct {
	Action string `json:"action"`
}

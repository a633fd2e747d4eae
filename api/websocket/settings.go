package websocket

import (
	"time"

	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
)

const (
	defaultWriteWait       = 10 * time.Second
	defaultPongWait        = 60 * time.Second
	defaultMaxMessageSize  = 512
	defaultBufferSize      = 1024
	defaultBroadcastBuffer = 256
	defaultClientBuffer    = 256
	defaultMaxConnections  = 1000
)

// Settings are the resolved connection parameters. Zero config values fall
// back to the defaults above.
type Settings struct {
	MaxConnections  int
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	BroadcastBuffer int
	ClientBuffer    int
}

func NewSettings(cfg *config.WebSocketConfig) Settings {
	s := Settings{
		MaxConnections:  defaultMaxConnections,
		WriteWait:       defaultWriteWait,
		PongWait:        defaultPongWait,
		MaxMessageSize:  defaultMaxMessageSize,
		ReadBufferSize:  defaultBufferSize,
		WriteBufferSize: defaultBufferSize,
		BroadcastBuffer: defaultBroadcastBuffer,
		ClientBuffer:    defaultClientBuffer,
	}

	if cfg != nil {
		if cfg.MaxConnections > 0 {
			s.MaxConnections = cfg.MaxConnections
		}
		if cfg.WriteTimeout > 0 {
			s.WriteWait = cfg.WriteTimeout
		}
		if cfg.PongTimeout > 0 {
			s.PongWait = cfg.PongTimeout
		}
		if cfg.PingInterval > 0 {
			s.PingPeriod = cfg.PingInterval
		}
		if cfg.MaxMessageSize > 0 {
			s.MaxMessageSize = cfg.MaxMessageSize
		}
		if cfg.ReadBufferSize > 0 {
			s.ReadBufferSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			s.WriteBufferSize = cfg.WriteBufferSize
		}
		if cfg.BroadcastBuffer > 0 {
			s.BroadcastBuffer = cfg.BroadcastBuffer
		}
		if cfg.ClientBuffer > 0 {
			s.ClientBuffer = cfg.ClientBuffer
		}
	}

	// Pings must go out before the peer's read deadline expires.
	if s.PingPeriod <= 0 || s.PingPeriod >= s.PongWait {
		s.PingPeriod = s.PongWait * 9 / 10
	}
	return s
}

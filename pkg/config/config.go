package config

import (
	"fmt"
	"time"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Store      StoreConfig      `mapstructure:"store"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Collector  CollectorConfig  `mapstructure:"collector"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
	API        APIConfig        `mapstructure:"api"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Events     EventsConfig     `mapstructure:"events"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	LogMaxSizeMB    int           `mapstructure:"log_max_size_mb"`
	LogMaxBackups   int           `mapstructure:"log_max_backups"`
	LogMaxAgeDays   int           `mapstructure:"log_max_age_days"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode,
	)
}

// StoreConfig selects where trained model weights are kept.
type StoreConfig struct {
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

type EngineConfig struct {
	Epochs           int           `mapstructure:"epochs"`
	SamplesPerDomain int           `mapstructure:"samples_per_domain"`
	LearningRate     float64       `mapstructure:"learning_rate"`
	KeyPrefix        string        `mapstructure:"key_prefix"`
	Seed             uint64        `mapstructure:"seed"`
	InitTimeout      time.Duration `mapstructure:"init_timeout"`
}

type CollectorConfig struct {
	Type           string               `mapstructure:"type"`
	Endpoint       string               `mapstructure:"endpoint"`
	FilePath       string               `mapstructure:"file_path"`
	Interval       time.Duration        `mapstructure:"interval"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	RetryAttempts  int                  `mapstructure:"retry_attempts"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type AlertsConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Rules   []AlertRuleConfig `mapstructure:"rules"`
}

type AlertRuleConfig struct {
	Name       string        `mapstructure:"name"`
	Expression string        `mapstructure:"expression"`
	Severity   string        `mapstructure:"severity"`
	For        time.Duration `mapstructure:"for"`
	Cooldown   time.Duration `mapstructure:"cooldown"`
}

// MonitorConfig bounds live monitoring. Retention of zero keeps stored
// predictions forever.
type MonitorConfig struct {
	MaxVehicles        int           `mapstructure:"max_vehicles"`
	AutoStart          []string      `mapstructure:"auto_start"`
	PersistPredictions bool          `mapstructure:"persist_predictions"`
	Retention          time.Duration `mapstructure:"retention"`
}

type APIConfig struct {
	Port           int              `mapstructure:"port"`
	ReadTimeout    time.Duration    `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration    `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration    `mapstructure:"idle_timeout"`
	RateLimit      int              `mapstructure:"rate_limit"`
	JWTSecret      string           `mapstructure:"jwt_secret"`
	JWTDuration    time.Duration    `mapstructure:"jwt_duration"`
	JWTIssuer      string           `mapstructure:"jwt_issuer"`
	CookieName     string           `mapstructure:"cookie_name"`
	CookieSecure   bool             `mapstructure:"cookie_secure"`
	DefaultLimit   int              `mapstructure:"default_limit"`
	MaxLimit       int              `mapstructure:"max_limit"`
	Operators      []OperatorConfig `mapstructure:"operators"`
	CORS           CORSConfig       `mapstructure:"cors"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
}

// OperatorConfig is a static API login used when no database is configured.
type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	BroadcastBuffer int           `mapstructure:"broadcast_buffer"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type PrometheusConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

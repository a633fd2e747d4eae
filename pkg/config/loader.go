package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/fleetml")
	}

	v.SetEnvPrefix("FLEETML")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Alerts.Rules) == 0 {
		cfg.Alerts.Rules = DefaultAlertRules()
	}

	return &cfg, nil
}

// DefaultAlertRules fire on any critical component and on brakes expected
// to fail within two weeks.
func DefaultAlertRules() []AlertRuleConfig {
	return []AlertRuleConfig{
		{Name: "critical_component", Expression: `severity == "critical"`, Severity: "critical"},
		{Name: "brake_failure_imminent", Expression: `component == "Brake System" && days < 14`, Severity: "warning"},
	}
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "fleetml")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_max_size_mb", 50)
	v.SetDefault("app.log_max_backups", 5)
	v.SetDefault("app.log_max_age_days", 14)
	v.SetDefault("app.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "fleetml")
	v.SetDefault("database.user", "fleetml")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migration_timeout", "60s")

	// Model store defaults
	v.SetDefault("store.type", "file")
	v.SetDefault("store.path", "./data/models")

	// Engine defaults
	v.SetDefault("engine.epochs", 500)
	v.SetDefault("engine.samples_per_domain", 200)
	v.SetDefault("engine.learning_rate", 0.1)
	v.SetDefault("engine.key_prefix", "fleet_ml_")
	v.SetDefault("engine.seed", 0)
	v.SetDefault("engine.init_timeout", "2m")

	// Collector defaults
	v.SetDefault("collector.type", "http")
	v.SetDefault("collector.endpoint", "http://localhost:9000")
	v.SetDefault("collector.interval", "30s")
	v.SetDefault("collector.timeout", "5s")
	v.SetDefault("collector.retry_attempts", 3)
	v.SetDefault("collector.circuit_breaker.max_failures", 5)
	v.SetDefault("collector.circuit_breaker.timeout", "30s")

	// Alerting defaults
	v.SetDefault("alerts.enabled", true)

	// Monitor defaults
	v.SetDefault("monitor.max_vehicles", 500)
	v.SetDefault("monitor.persist_predictions", true)
	v.SetDefault("monitor.retention", "720h")

	// API defaults
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.request_timeout", "5s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.jwt_secret", "change-me-in-production")
	v.SetDefault("api.jwt_duration", "24h")
	v.SetDefault("api.jwt_issuer", "fleetml")
	v.SetDefault("api.cookie_name", "auth_token")
	v.SetDefault("api.default_limit", 50)
	v.SetDefault("api.max_limit", 500)

	// WebSocket defaults
	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.broadcast_buffer", 256)
	v.SetDefault("websocket.client_buffer", 256)

	// Prometheus defaults
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.port", 9090)

	// Events defaults
	v.SetDefault("events.buffer_size", 1000)
}

package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Database validation
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, errors.New("database.port must be between 1 and 65535"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
		if c.Database.MaxConnections <= 0 {
			errs = append(errs, errors.New("database.max_connections must be positive"))
		}
	}

	// Store validation
	switch c.Store.Type {
	case "memory":
	case "file", "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for %s store", c.Store.Type))
		}
	case "postgres":
		if !c.Database.Enabled {
			errs = append(errs, errors.New("store.type postgres requires database.enabled"))
		}
	default:
		errs = append(errs, errors.New("store.type must be one of: memory, file, sqlite, postgres"))
	}

	// Engine validation
	if c.Engine.Epochs <= 0 {
		errs = append(errs, errors.New("engine.epochs must be positive"))
	}
	if c.Engine.SamplesPerDomain <= 0 {
		errs = append(errs, errors.New("engine.samples_per_domain must be positive"))
	}
	if c.Engine.LearningRate <= 0 || c.Engine.LearningRate > 1 {
		errs = append(errs, errors.New("engine.learning_rate must be in (0, 1]"))
	}
	if c.Engine.KeyPrefix == "" {
		errs = append(errs, errors.New("engine.key_prefix is required"))
	}

	// Collector validation
	validCollectors := map[string]bool{"http": true, "file": true, "mock": true}
	if !validCollectors[c.Collector.Type] {
		errs = append(errs, errors.New("collector.type must be one of: http, file, mock"))
	}
	if c.Collector.Type == "file" && c.Collector.FilePath == "" {
		errs = append(errs, errors.New("collector.file_path is required for file collector"))
	}
	if c.Collector.Interval <= 0 {
		errs = append(errs, errors.New("collector.interval must be positive"))
	}
	if c.Collector.Timeout <= 0 {
		errs = append(errs, errors.New("collector.timeout must be positive"))
	}
	if c.Collector.Timeout >= c.Collector.Interval {
		errs = append(errs, errors.New("collector.timeout must be less than collector.interval"))
	}

	// Alert validation
	validSeverities := map[string]bool{"info": true, "warning": true, "critical": true}
	for i, rule := range c.Alerts.Rules {
		if rule.Name == "" {
			errs = append(errs, fmt.Errorf("alerts.rules[%d].name is required", i))
		}
		if rule.Expression == "" {
			errs = append(errs, fmt.Errorf("alerts.rules[%d].expression is required", i))
		}
		if !validSeverities[rule.Severity] {
			errs = append(errs, fmt.Errorf("alerts.rules[%d].severity must be one of: info, warning, critical", i))
		}
		if rule.For < 0 || rule.Cooldown < 0 {
			errs = append(errs, fmt.Errorf("alerts.rules[%d].for and cooldown must not be negative", i))
		}
	}

	// Monitor validation
	if c.Monitor.MaxVehicles <= 0 {
		errs = append(errs, errors.New("monitor.max_vehicles must be positive"))
	}
	if c.Monitor.Retention < 0 {
		errs = append(errs, errors.New("monitor.retention must not be negative"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.App.Mode == "production" && c.API.JWTSecret == "change-me-in-production" {
		errs = append(errs, errors.New("api.jwt_secret must be changed in production"))
	}
	if c.Prometheus.Enabled && c.Prometheus.Port == c.API.Port {
		errs = append(errs, errors.New("prometheus.port must differ from api.port"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

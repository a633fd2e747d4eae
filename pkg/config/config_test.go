package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
)

func validConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:     "fleetml-test",
			Mode:     "development",
			LogLevel: "info",
		},
		Store: config.StoreConfig{Type: "memory"},
		Engine: config.EngineConfig{
			Epochs:           500,
			SamplesPerDomain: 200,
			LearningRate:     0.1,
			KeyPrefix:        "fleet_ml_",
		},
		Collector: config.CollectorConfig{
			Type:     "mock",
			Interval: 10 * time.Second,
			Timeout:  5 * time.Second,
		},
		Alerts:  config.AlertsConfig{Enabled: true, Rules: config.DefaultAlertRules()},
		Monitor: config.MonitorConfig{MaxVehicles: 10},
		API: config.APIConfig{
			Port: 8080,
		},
		Prometheus: config.PrometheusConfig{Enabled: true, Port: 9090},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*config.Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *config.Config) {},
			expectErr:  false,
		},
		{
			name: "unknown store type",
			modifyFunc: func(c *config.Config) {
				c.Store.Type = "redis"
			},
			expectErr:   true,
			errContains: "store.type must be one of",
		},
		{
			name: "file store without path",
			modifyFunc: func(c *config.Config) {
				c.Store.Type = "file"
			},
			expectErr:   true,
			errContains: "store.path is required",
		},
		{
			name: "postgres store without database",
			modifyFunc: func(c *config.Config) {
				c.Store.Type = "postgres"
			},
			expectErr:   true,
			errContains: "requires database.enabled",
		},
		{
			name: "invalid learning rate",
			modifyFunc: func(c *config.Config) {
				c.Engine.LearningRate = 0
			},
			expectErr:   true,
			errContains: "engine.learning_rate",
		},
		{
			name: "invalid collector timeout",
			modifyFunc: func(c *config.Config) {
				c.Collector.Timeout = 15 * time.Second
				c.Collector.Interval = 10 * time.Second
			},
			expectErr:   true,
			errContains: "timeout must be less than",
		},
		{
			name: "alert rule without expression",
			modifyFunc: func(c *config.Config) {
				c.Alerts.Rules = append(c.Alerts.Rules, config.AlertRuleConfig{Name: "empty", Severity: "info"})
			},
			expectErr:   true,
			errContains: "alerts.rules[2].expression is required",
		},
		{
			name: "default jwt secret in production",
			modifyFunc: func(c *config.Config) {
				c.App.Mode = "production"
				c.API.JWTSecret = "change-me-in-production"
			},
			expectErr:   true,
			errContains: "jwt_secret must be changed",
		},
		{
			name: "enabled database without host",
			modifyFunc: func(c *config.Config) {
				c.Database.Enabled = true
				c.Database.Port = 5432
				c.Database.Name = "fleetml"
				c.Database.MaxConnections = 5
			},
			expectErr:   true,
			errContains: "database.host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: depot-7
  log_level: debug
store:
  type: sqlite
  path: /tmp/models.db
engine:
  epochs: 250
alerts:
  rules:
    - name: worn_tires
      expression: component == "Tires" && probability > 60
      severity: warning
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("FLEETML_API_PORT", "8181")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "depot-7", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, 250, cfg.Engine.Epochs)
	assert.Equal(t, 200, cfg.Engine.SamplesPerDomain)
	assert.Equal(t, 0.1, cfg.Engine.LearningRate)
	assert.Equal(t, "fleet_ml_", cfg.Engine.KeyPrefix)
	assert.Equal(t, 8181, cfg.API.Port)
	assert.Equal(t, 30*time.Second, cfg.Collector.Interval)
	require.Len(t, cfg.Alerts.Rules, 1)
	assert.Equal(t, "worn_tires", cfg.Alerts.Rules[0].Name)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultAlertRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: x\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAlertRules(), cfg.Alerts.Rules)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dbCfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "fleetml",
		User:     "admin",
		Password: "secret",
	}

	expected := "host=localhost port=5432 user=admin password=secret dbname=fleetml sslmode=disable"
	assert.Equal(t, expected, dbCfg.DSN())
}

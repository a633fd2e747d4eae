package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var (
	ErrCollectionFailed = errors.New("telemetry collection failed")
	ErrTimeout          = errors.New("collection timeout")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrInvalidResponse  = errors.New("invalid response from telemetry source")
)

var timeNow = time.Now

// Collector defines the interface for vehicle telemetry collection
type Collector interface {
	// Collect fetches the latest snapshot for a vehicle
	Collect(ctx context.Context, vehicleID string) (*models.VehicleSnapshot, error)

	// HealthCheck verifies the collector can reach its data source
	HealthCheck(ctx context.Context) error

	// Close releases any resources held by the collector
	Close() error
}

// FromConfig builds the collector named by cfg.Type, wrapped with retries
// and a circuit breaker.
func FromConfig(cfg config.CollectorConfig, onStateChange StateChangeFunc) (*ResilientCollector, error) {
	var inner Collector
	switch cfg.Type {
	case "http":
		inner = NewHTTPCollector(HTTPCollectorConfig{
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.Timeout,
		})
	case "file":
		fc, err := NewFileCollector(FileCollectorConfig{Path: cfg.FilePath})
		if err != nil {
			return nil, err
		}
		inner = fc
	case "mock":
		inner = NewMockCollector(MockCollectorConfig{})
	default:
		return nil, fmt.Errorf("unknown collector type %q", cfg.Type)
	}

	return NewResilientCollector(ResilientCollectorConfig{
		Collector:     inner,
		MaxFailures:   cfg.CircuitBreaker.MaxFailures,
		Timeout:       cfg.CircuitBreaker.Timeout,
		RetryAttempts: cfg.RetryAttempts,
		OnStateChange: onStateChange,
	}), nil
}

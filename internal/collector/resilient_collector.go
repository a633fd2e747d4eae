package collector

import (
	"context"
	"errors"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/resilience"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

type StateChangeFunc func(name string, from, to resilience.State)

// ResilientCollector retries transient failures and stops calling the
// source while its circuit is open. Unknown vehicles are not retried and do
// not count against the circuit.
type ResilientCollector struct {
	collector      Collector
	circuitBreaker *resilience.CircuitBreaker
	retryAttempts  int
	retryDelay     time.Duration
}

type ResilientCollectorConfig struct {
	Collector     Collector
	MaxFailures   int
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange StateChangeFunc
}

func NewResilientCollector(cfg ResilientCollectorConfig) *ResilientCollector {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 1 * time.Second
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:          "collector",
		MaxFailures:   cfg.MaxFailures,
		Timeout:       cfg.Timeout,
		OnStateChange: cfg.OnStateChange,
		IsFailure: func(err error) bool {
			return !errors.Is(err, ErrVehicleNotFound)
		},
	})

	return &ResilientCollector{
		collector:      cfg.Collector,
		circuitBreaker: cb,
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
	}
}

func (c *ResilientCollector) Collect(ctx context.Context, vehicleID string) (*models.VehicleSnapshot, error) {
	var snapshot *models.VehicleSnapshot

	err := c.circuitBreaker.ExecuteContext(ctx, func(ctx context.Context) error {
		var lastErr error
		for attempt := 1; attempt <= c.retryAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			var err error
			snapshot, err = c.collector.Collect(ctx, vehicleID)
			if err == nil {
				return nil
			}
			if errors.Is(err, ErrVehicleNotFound) {
				return err
			}

			lastErr = err
			logger.WithVehicle(vehicleID).Warnf(
				"Collection attempt %d/%d failed: %v",
				attempt, c.retryAttempts, err,
			)

			if attempt < c.retryAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryDelay):
				}
			}
		}
		return lastErr
	})

	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (c *ResilientCollector) HealthCheck(ctx context.Context) error {
	return c.collector.HealthCheck(ctx)
}

func (c *ResilientCollector) Close() error {
	return c.collector.Close()
}

func (c *ResilientCollector) CircuitState() resilience.State {
	return c.circuitBreaker.State()
}

func (c *ResilientCollector) ResetCircuit() {
	c.circuitBreaker.Reset()
}

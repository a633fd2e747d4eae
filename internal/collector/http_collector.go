package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

const maxTelemetryBody = 1 << 20

// HTTPCollector reads snapshots from a telemetry gateway exposing
// GET {endpoint}/telemetry/{vehicleID}.
type HTTPCollector struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

type HTTPCollectorConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func NewHTTPCollector(cfg HTTPCollectorConfig) *HTTPCollector {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPCollector{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		timeout:  timeout,
	}
}

func (c *HTTPCollector) Collect(ctx context.Context, vehicleID string) (*models.VehicleSnapshot, error) {
	target := fmt.Sprintf("%s/telemetry/%s", c.endpoint, url.PathEscape(vehicleID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrCollectionFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.WithVehicle(vehicleID).Debugf("Collecting telemetry from %s", target)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrCollectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrVehicleNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrCollectionFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTelemetryBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrCollectionFailed, err)
	}

	var snapshot models.VehicleSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if snapshot.VehicleID == "" {
		snapshot.VehicleID = vehicleID
	} else if snapshot.VehicleID != vehicleID {
		return nil, fmt.Errorf("%w: asked for %q, got %q", ErrInvalidResponse, vehicleID, snapshot.VehicleID)
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now()
	}

	return &snapshot, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func (c *HTTPCollector) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *HTTPCollector) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Package monitor runs one collection and prediction pipeline per
// monitored vehicle.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/alerting"
	"github.com/jayakrishna0023/fleet-guardian/internal/collector"
	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/metrics"
)

var (
	ErrAlreadyMonitored = errors.New("vehicle is already monitored")
	ErrNotMonitored     = errors.New("vehicle is not monitored")
	ErrCapacity         = errors.New("monitor capacity reached")
)

const (
	statusIdle       = "idle"
	statusMonitoring = "monitoring"
)

// VehicleStore records monitoring status so it survives restarts.
// queries.VehicleRepository satisfies it.
type VehicleStore interface {
	SetStatus(ctx context.Context, id, status string) error
	ListIDsByStatus(ctx context.Context, status string) ([]string, error)
}

type Config struct {
	Interval    time.Duration
	MaxVehicles int
	Collector   collector.Collector
	Predictor   Predictor
	Alerts      *alerting.Evaluator
	Bus         *events.EventBus
	Metrics     *metrics.Metrics
	Vehicles    VehicleStore
}

type Manager struct {
	cfg       Config
	publisher *events.Publisher
	pipelines map[string]*Pipeline
	// stopping holds vehicles whose Stop has not finished its cleanup.
	// The channel closes once it has.
	stopping map[string]chan struct{}
	mu       sync.RWMutex
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:       cfg,
		publisher: events.NewPublisher(cfg.Bus),
		pipelines: make(map[string]*Pipeline),
		stopping:  make(map[string]chan struct{}),
	}
}

// Start begins monitoring vehicleID. The first cycle runs immediately.
// A Start racing a Stop of the same vehicle waits for that Stop to finish.
func (m *Manager) Start(ctx context.Context, vehicleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		done, ok := m.stopping[vehicleID]
		if !ok {
			break
		}
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			m.mu.Lock()
			return ctx.Err()
		}
		m.mu.Lock()
	}

	if _, exists := m.pipelines[vehicleID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyMonitored, vehicleID)
	}
	if m.cfg.MaxVehicles > 0 && len(m.pipelines) >= m.cfg.MaxVehicles {
		return fmt.Errorf("%w: %d vehicles", ErrCapacity, m.cfg.MaxVehicles)
	}

	pipeline := NewPipeline(PipelineConfig{
		VehicleID:       vehicleID,
		CollectInterval: m.cfg.Interval,
		Collector:       m.cfg.Collector,
		Predictor:       m.cfg.Predictor,
		Alerts:          m.cfg.Alerts,
		EventPublisher:  m.publisher,
		Metrics:         m.cfg.Metrics,
	})
	pipeline.Start()
	m.pipelines[vehicleID] = pipeline

	m.recordStatus(ctx, vehicleID, statusMonitoring)
	m.updateGauge()
	m.publisher.MonitorStarted(vehicleID)
	logger.WithVehicle(vehicleID).Info("Vehicle monitoring started")

	return nil
}

func (m *Manager) Stop(ctx context.Context, vehicleID string) error {
	m.mu.Lock()
	pipeline, exists := m.pipelines[vehicleID]
	if !exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotMonitored, vehicleID)
	}
	delete(m.pipelines, vehicleID)
	done := m.markStopping(vehicleID)
	m.updateGauge()
	m.mu.Unlock()

	pipeline.Stop()
	m.afterStop(ctx, vehicleID, true)
	m.clearStopping(vehicleID, done)
	return nil
}

// StopAll stops every pipeline but leaves the stored status untouched so
// Restore can resume them on the next start.
func (m *Manager) StopAll() {
	m.mu.Lock()
	pipelines := m.pipelines
	m.pipelines = make(map[string]*Pipeline)
	marks := make(map[string]chan struct{}, len(pipelines))
	for id := range pipelines {
		marks[id] = m.markStopping(id)
	}
	m.updateGauge()
	m.mu.Unlock()

	var wg sync.WaitGroup
	for id, p := range pipelines {
		wg.Add(1)
		go func(id string, p *Pipeline) {
			defer wg.Done()
			p.Stop()
			m.afterStop(context.Background(), id, false)
			m.clearStopping(id, marks[id])
		}(id, p)
	}
	wg.Wait()
}

// markStopping must be called with m.mu held.
func (m *Manager) markStopping(vehicleID string) chan struct{} {
	done := make(chan struct{})
	m.stopping[vehicleID] = done
	return done
}

func (m *Manager) clearStopping(vehicleID string, done chan struct{}) {
	m.mu.Lock()
	if m.stopping[vehicleID] == done {
		delete(m.stopping, vehicleID)
	}
	m.mu.Unlock()
	close(done)
}

func (m *Manager) afterStop(ctx context.Context, vehicleID string, persist bool) {
	if persist {
		m.recordStatus(ctx, vehicleID, statusIdle)
	}
	if m.cfg.Metrics != nil {
		m.cfg.Metrics.ForgetVehicle(vehicleID)
	}
	if m.cfg.Alerts != nil {
		m.cfg.Alerts.Forget(vehicleID)
	}
	m.publisher.MonitorStopped(vehicleID)
	logger.WithVehicle(vehicleID).Info("Vehicle monitoring stopped")
}

// Restore restarts pipelines for vehicles stored as monitoring.
func (m *Manager) Restore(ctx context.Context) (int, error) {
	if m.cfg.Vehicles == nil {
		return 0, nil
	}

	ids, err := m.cfg.Vehicles.ListIDsByStatus(ctx, statusMonitoring)
	if err != nil {
		return 0, fmt.Errorf("failed to list monitored vehicles: %w", err)
	}

	restored := 0
	for _, id := range ids {
		if err := m.Start(ctx, id); err != nil {
			logger.WithVehicle(id).Warnf("Failed to restore monitoring: %v", err)
			continue
		}
		restored++
	}
	return restored, nil
}

// List returns the status of every pipeline ordered by vehicle ID.
func (m *Manager) List() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Status, 0, len(m.pipelines))
	for _, p := range m.pipelines {
		out = append(out, p.Status())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out
}

func (m *Manager) Status(vehicleID string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pipelines[vehicleID]
	if !ok {
		return Status{}, false
	}
	return p.Status(), true
}

func (m *Manager) IsMonitored(vehicleID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.pipelines[vehicleID]
	return ok
}

func (m *Manager) recordStatus(ctx context.Context, vehicleID, status string) {
	if m.cfg.Vehicles == nil {
		return
	}
	if err := m.cfg.Vehicles.SetStatus(ctx, vehicleID, status); err != nil {
		logger.WithVehicle(vehicleID).Warnf("Failed to record vehicle status %s: %v", status, err)
	}
}

// updateGauge must be called with m.mu held.
func (m *Manager) updateGauge() {
	if m.cfg.Metrics != nil {
		m.cfg.Metrics.SetMonitoredVehicles(len(m.pipelines))
	}
}

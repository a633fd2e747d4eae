package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/alerting"
	"github.com/jayakrishna0023/fleet-guardian/internal/collector"
	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/metrics"
	"github.com/jayakrishna0023/fleet-guardian/internal/predictor"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

// Predictor is the slice of the prediction engine a pipeline needs.
type Predictor interface {
	GetVehiclePredictions(s models.VehicleSnapshot) ([]models.PredictionResult, error)
}

type PipelineConfig struct {
	VehicleID       string
	CollectInterval time.Duration
	Collector       collector.Collector
	Predictor       Predictor
	Alerts          *alerting.Evaluator
	EventPublisher  *events.Publisher
	Metrics         *metrics.Metrics
}

// Pipeline periodically collects one vehicle's telemetry and runs the
// maintenance models over it.
type Pipeline struct {
	config  PipelineConfig
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex

	startedAt time.Time
	last      *models.PredictionBatch
	lastAt    time.Time
	lastErr   error
	cycles    int
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.CollectInterval <= 0 {
		cfg.CollectInterval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pipeline{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.running = true
	p.startedAt = time.Now()
	p.wg.Add(1)
	go p.run()

	logger.WithVehicle(p.config.VehicleID).Info("Pipeline started")
}

func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()

	logger.WithVehicle(p.config.VehicleID).Info("Pipeline stopped")
}

// Status is a point-in-time view of a pipeline.
type Status struct {
	VehicleID   string                    `json:"vehicle_id"`
	Running     bool                      `json:"running"`
	StartedAt   time.Time                 `json:"started_at"`
	Interval    string                    `json:"interval"`
	Cycles      int                       `json:"cycles"`
	LastUpdate  *time.Time                `json:"last_update,omitempty"`
	LastError   string                    `json:"last_error,omitempty"`
	Predictions []models.PredictionResult `json:"predictions,omitempty"`
}

func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Status{
		VehicleID: p.config.VehicleID,
		Running:   p.running,
		StartedAt: p.startedAt,
		Interval:  p.config.CollectInterval.String(),
		Cycles:    p.cycles,
	}
	if p.last != nil {
		at := p.lastAt
		s.LastUpdate = &at
		s.Predictions = append([]models.PredictionResult(nil), p.last.Results...)
	}
	if p.lastErr != nil {
		s.LastError = p.lastErr.Error()
	}
	return s
}

func (p *Pipeline) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.CollectInterval)
	defer ticker.Stop()

	p.runCycle()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runCycle()
		}
	}
}

// cycleTimeout leaves headroom before the next tick.
func cycleTimeout(interval time.Duration) time.Duration {
	if interval > 2*time.Second {
		return interval - time.Second
	}
	return interval
}

func (p *Pipeline) runCycle() {
	ctx, cancel := context.WithTimeout(p.ctx, cycleTimeout(p.config.CollectInterval))
	defer cancel()

	vehicleID := p.config.VehicleID

	snapshot, err := p.collect(ctx)
	if err != nil {
		if p.ctx.Err() != nil {
			return
		}
		logger.WithVehicle(vehicleID).Errorf("Collection failed: %v", err)
		p.config.EventPublisher.Error(vehicleID, "Telemetry collection failed", err)
		p.finish(nil, err)
		return
	}

	batch, err := p.predict(snapshot)
	if err != nil {
		if errors.Is(err, predictor.ErrNotReady) {
			logger.WithVehicle(vehicleID).Warn("Models not ready, skipping cycle")
		} else {
			logger.WithVehicle(vehicleID).Errorf("Prediction failed: %v", err)
			p.config.EventPublisher.Error(vehicleID, "Prediction failed", err)
		}
		p.finish(nil, err)
		return
	}

	p.alert(batch)
	p.finish(batch, nil)
}

func (p *Pipeline) collect(ctx context.Context) (*models.VehicleSnapshot, error) {
	start := time.Now()
	snapshot, err := p.config.Collector.Collect(ctx, p.config.VehicleID)
	if err != nil {
		if p.config.Metrics != nil {
			p.config.Metrics.IncCollectionErrors(p.config.VehicleID)
		}
		return nil, err
	}

	if p.config.Metrics != nil {
		p.config.Metrics.IncCollections(p.config.VehicleID, time.Since(start))
	}
	p.config.EventPublisher.SnapshotCollected(snapshot)
	return snapshot, nil
}

func (p *Pipeline) predict(snapshot *models.VehicleSnapshot) (*models.PredictionBatch, error) {
	results, err := p.config.Predictor.GetVehiclePredictions(*snapshot)
	if err != nil {
		return nil, err
	}

	batch := &models.PredictionBatch{
		VehicleID: p.config.VehicleID,
		Snapshot:  *snapshot,
		Results:   results,
	}
	p.config.EventPublisher.PredictionsMade(batch)

	if p.config.Metrics != nil {
		for _, r := range results {
			p.config.Metrics.SetFailureProbability(p.config.VehicleID, r.Component, r.Probability)
		}
	}
	return batch, nil
}

func (p *Pipeline) alert(batch *models.PredictionBatch) {
	if p.config.Alerts == nil {
		return
	}

	for _, a := range p.config.Alerts.Evaluate(batch.VehicleID, batch.Results) {
		alert := a
		p.config.EventPublisher.Alert(&alert, alertMessage(&alert))
		if p.config.Metrics != nil {
			p.config.Metrics.IncAlert(alert.Rule, string(alert.Severity))
		}
	}
}

func alertMessage(a *models.Alert) string {
	return fmt.Sprintf("%s: %s failure risk %d%%, about %d days left",
		a.Rule, a.Prediction.Component, a.Prediction.Probability, a.Prediction.EstimatedTimeToFailure)
}

func (p *Pipeline) finish(batch *models.PredictionBatch, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cycles++
	p.lastErr = err
	if batch != nil {
		p.last = batch
		p.lastAt = time.Now()
	}
}

// Package predictor owns the five maintenance networks and is the only entry
// point for loading, training and inference.
package predictor

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/nn"
	"github.com/jayakrishna0023/fleet-guardian/internal/persistence"
	"github.com/jayakrishna0023/fleet-guardian/internal/synth"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var ErrNotReady = errors.New("prediction engine is not ready")

type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateTraining      State = "training"
	StateReady         State = "ready"
)

const (
	sourceLoaded  = "loaded"
	sourceTrained = "trained"
)

type Config struct {
	Epochs           int
	SamplesPerDomain int
	LearningRate     float64
	KeyPrefix        string
}

func DefaultConfig() Config {
	return Config{
		Epochs:           500,
		SamplesPerDomain: synth.DefaultSamples,
		LearningRate:     0.1,
		KeyPrefix:        "fleet_ml_",
	}
}

// Hooks observe engine activity. Any field may be nil.
type Hooks struct {
	OnStateChange func(state State)
	OnTrained     func(domain models.Domain, loss float64, took time.Duration)
	OnLoaded      func()
	OnPrediction  func(domain models.Domain, took time.Duration)
}

type modelMeta struct {
	source    string
	loss      *float64
	trainedAt *time.Time
}

type Engine struct {
	cfg   Config
	store persistence.Store
	rng   *rand.Rand
	hooks Hooks

	initMu sync.Mutex
	mu     sync.RWMutex
	state  atomic.Value

	networks map[models.Domain]*nn.Network
	meta     map[models.Domain]modelMeta
}

// New builds an uninitialized engine. rng may be nil, in which case a
// time-seeded source is used.
func New(cfg Config, store persistence.Store, rng *rand.Rand) *Engine {
	defaults := DefaultConfig()
	if cfg.Epochs <= 0 {
		cfg.Epochs = defaults.Epochs
	}
	if cfg.SamplesPerDomain <= 0 {
		cfg.SamplesPerDomain = defaults.SamplesPerDomain
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = defaults.LearningRate
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaults.KeyPrefix
	}
	if store == nil {
		store = persistence.NewMemoryStore()
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	e := &Engine{
		cfg:      cfg,
		store:    store,
		rng:      rand.New(&lockedSource{src: rng}),
		networks: make(map[models.Domain]*nn.Network),
		meta:     make(map[models.Domain]modelMeta),
	}
	e.state.Store(StateUninitialized)
	return e
}

func (e *Engine) SetHooks(h Hooks) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = h
}

func (e *Engine) State() State {
	return e.state.Load().(State)
}

func (e *Engine) Ready() bool {
	return e.State() == StateReady
}

func (e *Engine) Key(domain models.Domain) string {
	return e.cfg.KeyPrefix + string(domain)
}

func (e *Engine) setState(s State) {
	e.state.Store(s)
	if h := e.hooksSnapshot(); h.OnStateChange != nil {
		h.OnStateChange(s)
	}
}

func (e *Engine) hooksSnapshot() Hooks {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hooks
}

// Initialize loads all five models from the store, or trains and persists
// all five when any of them is missing, unreadable or of the wrong shape.
// It is idempotent; concurrent callers wait for the one in flight. Load and
// training failures are logged, never returned.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.Ready() {
		return nil
	}

	e.setState(StateLoading)
	if nets, ok := e.loadAll(ctx); ok {
		e.install(nets, func(models.Domain) modelMeta { return modelMeta{source: sourceLoaded} })
		logger.Info("Loaded persisted models")
		if h := e.hooksSnapshot(); h.OnLoaded != nil {
			h.OnLoaded()
		}
		e.setState(StateReady)
		return nil
	}

	logger.Info("Persisted models unavailable, training all domains")
	e.trainAndPersist(ctx)
	return nil
}

// Retrain discards the current models and trains all five from fresh data.
// Predictions keep using the previous models until the new ones are
// installed.
func (e *Engine) Retrain(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.initMu.Lock()
	defer e.initMu.Unlock()

	e.trainAndPersist(ctx)
	return nil
}

func (e *Engine) loadAll(ctx context.Context) (map[models.Domain]*nn.Network, bool) {
	nets := make(map[models.Domain]*nn.Network, len(models.Domains))
	ok := true

	for _, domain := range models.Domains {
		want := synth.Layers(domain)
		net := e.freshNetwork(domain)

		key := e.Key(domain)
		if !persistence.Load(ctx, e.store, key, net) {
			logger.WithDomain(string(domain)).WithField("key", key).Debug("Model not loaded")
			ok = false
			continue
		}
		if !slices.Equal(net.Layers(), want) {
			logger.WithDomain(string(domain)).WithFields(map[string]interface{}{
				"stored":   net.Layers(),
				"expected": want,
			}).Warn("Stored model architecture does not match")
			ok = false
			continue
		}
		nets[domain] = net
	}

	return nets, ok
}

func (e *Engine) trainAndPersist(ctx context.Context) {
	e.setState(StateTraining)

	nets := make(map[models.Domain]*nn.Network, len(models.Domains))
	for _, domain := range models.Domains {
		nets[domain] = e.freshNetwork(domain)
	}

	losses := make(map[models.Domain]float64, len(nets))
	hooks := e.hooksSnapshot()
	for _, domain := range models.Domains {
		start := time.Now()
		samples := synth.Generate(domain, e.rng, e.cfg.SamplesPerDomain)
		loss, err := nets[domain].Train(samples, e.cfg.Epochs)
		if err != nil {
			logger.WithDomain(string(domain)).WithError(err).Error("Training failed")
			continue
		}
		losses[domain] = loss
		took := time.Since(start)

		logger.WithDomain(string(domain)).WithFields(map[string]interface{}{
			"loss":     loss,
			"epochs":   e.cfg.Epochs,
			"samples":  len(samples),
			"duration": took.String(),
		}).Info("Model trained")

		if hooks.OnTrained != nil {
			hooks.OnTrained(domain, loss, took)
		}
	}

	now := time.Now()
	e.install(nets, func(d models.Domain) modelMeta {
		loss := losses[d]
		return modelMeta{source: sourceTrained, loss: &loss, trainedAt: &now}
	})

	for _, domain := range models.Domains {
		if err := persistence.Save(ctx, e.store, e.Key(domain), nets[domain]); err != nil {
			logger.WithDomain(string(domain)).WithError(err).Warn("Failed to persist model")
		}
	}

	e.setState(StateReady)
}

func (e *Engine) freshNetwork(domain models.Domain) *nn.Network {
	net, err := nn.New(synth.Layers(domain), e.cfg.LearningRate, e.rng)
	if err != nil {
		// architectures are fixed per domain
		panic(err)
	}
	return net
}

func (e *Engine) install(nets map[models.Domain]*nn.Network, meta func(models.Domain) modelMeta) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for domain, net := range nets {
		e.networks[domain] = net
		e.meta[domain] = meta(domain)
	}
}

// Models describes the installed networks in domain order.
func (e *Engine) Models() []models.ModelInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	infos := make([]models.ModelInfo, 0, len(e.networks))
	for _, domain := range models.Domains {
		net, ok := e.networks[domain]
		if !ok {
			continue
		}
		m := e.meta[domain]
		infos = append(infos, models.ModelInfo{
			Domain:       string(domain),
			Layers:       net.Layers(),
			LearningRate: net.LearningRate(),
			Source:       m.source,
			TrainingLoss: m.loss,
			TrainedAt:    m.trainedAt,
		})
	}
	return infos
}

// ResetStore deletes every persisted model so the next Initialize retrains.
func (e *Engine) ResetStore(ctx context.Context) error {
	var errs []error
	for _, domain := range models.Domains {
		if err := e.store.Delete(ctx, e.Key(domain)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type lockedSource struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

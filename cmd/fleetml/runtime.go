package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/metrics"
	"github.com/jayakrishna0023/fleet-guardian/internal/persistence"
	"github.com/jayakrishna0023/fleet-guardian/internal/predictor"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
	"github.com/jayakrishna0023/fleet-guardian/pkg/database"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

var errDatabaseDisabled = errors.New("database.enabled is false")

// runtime holds the resources shared by the commands. Close releases them.
type runtime struct {
	cfg     *config.Config
	db      *database.DB
	store   persistence.Store
	closers []func() error
}

func openRuntime(cfg *config.Config, needDB bool) (*runtime, error) {
	rt := &runtime{cfg: cfg}

	if cfg.Database.Enabled {
		db, err := database.New(cfg.Database.ToDBConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.db = db
		rt.closers = append(rt.closers, db.Close)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		version, err := db.ServerVersion(ctx)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Could not read database version")
		}
		logger.WithField("version", version).Info("Database connection established")
	} else if needDB {
		return nil, errDatabaseDisabled
	}

	store, err := rt.openStore()
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.store = store
	return rt, nil
}

func (rt *runtime) openStore() (persistence.Store, error) {
	sc := rt.cfg.Store
	switch sc.Type {
	case "memory":
		return persistence.NewMemoryStore(), nil
	case "file":
		return persistence.NewFileStore(sc.Path)
	case "sqlite":
		s, err := persistence.NewSQLiteStore(sc.Path)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, s.Close)
		return s, nil
	case "postgres":
		return persistence.NewPostgresStore(rt.db.DB), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", sc.Type)
	}
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			logger.WithError(err).Warn("Failed to release resource")
		}
	}
	rt.closers = nil
}

// newEngine builds the prediction engine. A zero seed means time-seeded.
func (rt *runtime) newEngine() *predictor.Engine {
	ec := rt.cfg.Engine
	var rng *rand.Rand
	if ec.Seed != 0 {
		rng = rand.New(rand.NewPCG(ec.Seed, ec.Seed^0x9e3779b97f4a7c15))
	}
	return predictor.New(predictor.Config{
		Epochs:           ec.Epochs,
		SamplesPerDomain: ec.SamplesPerDomain,
		LearningRate:     ec.LearningRate,
		KeyPrefix:        ec.KeyPrefix,
	}, rt.store, rng)
}

// instrument routes engine activity to metrics and, when publisher is set,
// to the event bus.
func instrument(engine *predictor.Engine, m *metrics.Metrics, publisher *events.Publisher) {
	var loaded atomic.Bool
	engine.SetHooks(predictor.Hooks{
		OnStateChange: func(s predictor.State) {
			if m != nil {
				m.SetEngineState(string(s))
			}
			// OnLoaded runs just before the switch to ready
			if s == predictor.StateReady && !loaded.Swap(false) && publisher != nil {
				publisher.ModelsTrained(engine.Models())
			}
		},
		OnTrained: func(d models.Domain, loss float64, took time.Duration) {
			if m != nil {
				m.ObserveTraining(string(d), loss, took)
			}
		},
		OnLoaded: func() {
			loaded.Store(true)
			if publisher != nil {
				publisher.ModelsLoaded(engine.Models())
			}
		},
		OnPrediction: func(d models.Domain, took time.Duration) {
			if m != nil {
				m.IncPrediction(string(d), took)
			}
		},
	})
}

func initTimeout(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := cfg.Engine.InitTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return context.WithTimeout(context.Background(), timeout)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/api"
	"github.com/jayakrishna0023/fleet-guardian/internal/alerting"
	"github.com/jayakrishna0023/fleet-guardian/internal/auth"
	"github.com/jayakrishna0023/fleet-guardian/internal/collector"
	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/metrics"
	"github.com/jayakrishna0023/fleet-guardian/internal/monitor"
	"github.com/jayakrishna0023/fleet-guardian/internal/resilience"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
	"github.com/jayakrishna0023/fleet-guardian/pkg/database"
	"github.com/jayakrishna0023/fleet-guardian/pkg/database/queries"
)

const (
	dbStatsInterval = 15 * time.Second
	pruneInterval   = time.Hour
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API, live monitoring and model training",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			return serve(cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before starting")
	return cmd
}

func serve(cfg *config.Config, migrate bool) error {
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	rt, err := openRuntime(cfg, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if migrate && rt.db != nil {
		if err := runMigrations(cfg, rt.db); err != nil {
			return err
		}
	}

	var m *metrics.Metrics
	var metricsServer *metrics.Server
	if cfg.Prometheus.Enabled {
		m = metrics.Get()
		metricsServer = metrics.StartServer(cfg.Prometheus.Port)
	}

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()
	publisher := events.NewPublisher(bus)

	engine := rt.newEngine()
	instrument(engine, m, publisher)

	bg, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx, cancel := initTimeout(cfg)
		defer cancel()
		if err := engine.Initialize(ctx); err != nil {
			logger.WithError(err).Error("Engine initialization aborted")
		}
	}()

	var sink events.PredictionSink
	var history *queries.PredictionRepository
	if rt.db != nil {
		history = queries.NewPredictionRepository(rt.db.DB)
		if cfg.Monitor.PersistPredictions {
			sink = history
		}
	}
	eventLogger := events.NewEventLogger(sink, bus.Subscribe())
	eventLogger.Start()
	defer eventLogger.Stop()

	coll, err := collector.FromConfig(cfg.Collector, func(name string, from, to resilience.State) {
		logger.WithFields(map[string]interface{}{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		}).Warn("Collector circuit breaker changed state")
		if m != nil {
			m.SetCircuitBreakerState(name, int(to))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}
	defer coll.Close()

	var evaluator *alerting.Evaluator
	if cfg.Alerts.Enabled {
		evaluator, err = alerting.NewEvaluator(cfg.Alerts.Rules)
		if err != nil {
			return fmt.Errorf("failed to compile alert rules: %w", err)
		}
	}

	monitorCfg := monitor.Config{
		Interval:    cfg.Collector.Interval,
		MaxVehicles: cfg.Monitor.MaxVehicles,
		Collector:   coll,
		Predictor:   engine,
		Alerts:      evaluator,
		Bus:         bus,
		Metrics:     m,
	}
	if rt.db != nil {
		monitorCfg.Vehicles = queries.NewVehicleRepository(rt.db.DB)
	}
	manager := monitor.NewManager(monitorCfg)
	defer manager.StopAll()

	startMonitoring(bg, manager, cfg.Monitor.AutoStart)

	deps := api.Dependencies{
		Engine:    engine,
		Monitor:   manager,
		Operators: operatorStore(cfg, rt.db),
		Bus:       bus,
		Metrics:   m,
	}
	if rt.db != nil {
		deps.History = history
		deps.DB = rt.db
		if m != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				reportConnections(bg, rt.db, m)
			}()
		}
		if cfg.Monitor.Retention > 0 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pruneHistory(bg, history, cfg.Monitor.Retention)
			}()
		}
	}

	server := api.NewServer(cfg.API, cfg.WebSocket, deps)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdownChan)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var runErr error
	select {
	case err := <-errChan:
		runErr = fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	timeout := cfg.App.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown error: %w", err)
	}
	manager.StopAll()
	stopBackground()
	wg.Wait()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Prometheus server shutdown failed")
		}
	}

	if runErr == nil {
		logger.Info("Server stopped gracefully")
	}
	return runErr
}

// startMonitoring resumes vehicles that were monitored before the last
// shutdown, then starts the configured auto-start list.
func startMonitoring(ctx context.Context, manager *monitor.Manager, autoStart []string) {
	restored, err := manager.Restore(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to restore monitored vehicles")
	} else if restored > 0 {
		logger.Infof("Restored monitoring for %d vehicles", restored)
	}

	for _, id := range autoStart {
		err := manager.Start(ctx, id)
		switch {
		case err == nil:
			logger.WithVehicle(id).Info("Auto-started monitoring")
		case errors.Is(err, monitor.ErrAlreadyMonitored):
		default:
			logger.WithVehicle(id).WithError(err).Warn("Failed to auto-start monitoring")
		}
	}
}

// operatorStore accepts the operators listed in config first and falls back
// to the users table when a database is available.
func operatorStore(cfg *config.Config, db *database.DB) auth.OperatorStore {
	static := auth.NewStaticOperators()
	for _, op := range cfg.API.Operators {
		static.Add(op.Username, op.PasswordHash)
	}
	if db == nil {
		return static
	}
	return auth.ChainOperators{static, auth.NewDatabaseOperators(queries.NewUserRepository(db.DB))}
}

func reportConnections(ctx context.Context, db *database.DB, m *metrics.Metrics) {
	ticker := time.NewTicker(dbStatsInterval)
	defer ticker.Stop()
	for {
		m.SetDBOpenConnections(db.OpenConnections())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func pruneHistory(ctx context.Context, repo *queries.PredictionRepository, retention time.Duration) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
		switch {
		case err != nil && ctx.Err() == nil:
			logger.WithError(err).Warn("Failed to prune prediction history")
		case deleted > 0:
			logger.WithField("deleted", deleted).Info("Pruned prediction history")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

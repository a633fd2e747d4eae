package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
)

const namespace = "fleetml"

var engineStates = []string{"uninitialized", "loading", "training", "ready"}

type Metrics struct {
	gatherer prometheus.Gatherer

	// Counters
	predictionsTotal      *prometheus.CounterVec
	collectionsTotal      *prometheus.CounterVec
	collectionErrorsTotal *prometheus.CounterVec
	alertsTotal           *prometheus.CounterVec

	// Gauges
	engineState         *prometheus.GaugeVec
	trainingLoss        *prometheus.GaugeVec
	failureProbability  *prometheus.GaugeVec
	circuitBreakerState *prometheus.GaugeVec
	monitoredVehicles   prometheus.Gauge
	websocketClients    prometheus.Gauge
	dbOpenConnections   prometheus.Gauge

	// Histograms
	predictionLatency *prometheus.HistogramVec
	trainingDuration  *prometheus.HistogramVec
	collectionLatency prometheus.Histogram
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide metrics registered on the default registry.
func Get() *Metrics {
	once.Do(func() {
		instance = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return instance
}

// New registers a fresh set of collectors on reg.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,

		predictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Model inferences by domain",
		}, []string{"domain"}),
		collectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_total",
			Help:      "Telemetry snapshots collected by vehicle",
		}, []string{"vehicle_id"}),
		collectionErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_errors_total",
			Help:      "Failed telemetry collections by vehicle",
		}, []string{"vehicle_id"}),
		alertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alert rule matches by rule and severity",
		}, []string{"rule", "severity"}),

		engineState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "engine_state",
			Help:      "1 for the current prediction engine state, 0 otherwise",
		}, []string{"state"}),
		trainingLoss: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_training_loss",
			Help:      "Mean squared error of the final training epoch",
		}, []string{"domain"}),
		failureProbability: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "failure_probability_percent",
			Help:      "Latest failure probability per vehicle component",
		}, []string{"vehicle_id", "component"}),
		circuitBreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "0=closed, 1=open, 2=half-open",
		}, []string{"name"}),
		monitoredVehicles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitored_vehicles",
			Help:      "Vehicles with a running monitoring pipeline",
		}),
		websocketClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected WebSocket clients",
		}),
		dbOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_open_connections",
			Help:      "Open Postgres connections",
		}),

		predictionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Forward pass latency by domain",
			Buckets:   prometheus.ExponentialBuckets(0.000005, 4, 8),
		}, []string{"domain"}),
		trainingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_duration_seconds",
			Help:      "Wall time spent training one domain model",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"domain"}),
		collectionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collection_duration_seconds",
			Help:      "Telemetry collection latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncPrediction(domain string, took time.Duration) {
	m.predictionsTotal.WithLabelValues(domain).Inc()
	m.predictionLatency.WithLabelValues(domain).Observe(took.Seconds())
}

func (m *Metrics) ObserveTraining(domain string, loss float64, took time.Duration) {
	m.trainingLoss.WithLabelValues(domain).Set(loss)
	m.trainingDuration.WithLabelValues(domain).Observe(took.Seconds())
}

func (m *Metrics) SetEngineState(state string) {
	for _, s := range engineStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.engineState.WithLabelValues(s).Set(v)
	}
}

func (m *Metrics) IncCollections(vehicleID string, took time.Duration) {
	m.collectionsTotal.WithLabelValues(vehicleID).Inc()
	m.collectionLatency.Observe(took.Seconds())
}

func (m *Metrics) IncCollectionErrors(vehicleID string) {
	m.collectionErrorsTotal.WithLabelValues(vehicleID).Inc()
}

func (m *Metrics) SetFailureProbability(vehicleID, component string, probability int) {
	m.failureProbability.WithLabelValues(vehicleID, component).Set(float64(probability))
}

// ForgetVehicle drops per-vehicle series once monitoring stops.
func (m *Metrics) ForgetVehicle(vehicleID string) {
	labels := prometheus.Labels{"vehicle_id": vehicleID}
	m.failureProbability.DeletePartialMatch(labels)
	m.collectionsTotal.DeletePartialMatch(labels)
	m.collectionErrorsTotal.DeletePartialMatch(labels)
}

func (m *Metrics) IncAlert(rule, severity string) {
	m.alertsTotal.WithLabelValues(rule, severity).Inc()
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.circuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) SetMonitoredVehicles(n int) {
	m.monitoredVehicles.Set(float64(n))
}

func (m *Metrics) SetWebSocketClients(n int) {
	m.websocketClients.Set(float64(n))
}

func (m *Metrics) SetDBOpenConnections(n int) {
	m.dbOpenConnections.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Server serves /metrics on its own port.
type Server struct {
	srv *http.Server
}

func StartServer(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Get().Handler())

	addr := ":" + strconv.Itoa(port)
	s := &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}

	logger.Infof("Prometheus metrics server listening on %s", addr)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Prometheus server error: %v", err)
		}
	}()

	return s
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

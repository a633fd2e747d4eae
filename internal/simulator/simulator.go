// Package simulator serves synthetic, slowly degrading vehicle telemetry
// for development and demos.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
)

type Config struct {
	Port  int
	Fleet *Fleet
	// AutoCreate adds a default vehicle the first time an unknown ID is
	// requested.
	AutoCreate bool
	// TimeScale speeds up simulated wear; 60 makes one real minute an hour.
	TimeScale float64
	Seed      uint64
	Clock     func() time.Time
}

type Simulator struct {
	config     Config
	vehicles   map[string]*VehicleSim
	mu         sync.RWMutex
	httpServer *http.Server
}

func New(cfg Config) (*Simulator, error) {
	if cfg.Port == 0 {
		cfg.Port = 9000
	}
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	s := &Simulator{
		config:   cfg,
		vehicles: make(map[string]*VehicleSim),
	}

	if cfg.Fleet != nil {
		for _, spec := range cfg.Fleet.Vehicles {
			if _, err := s.add(spec); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Simulator) rngFor(id string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return rand.New(rand.NewPCG(s.config.Seed, h.Sum64()))
}

func (s *Simulator) add(spec VehicleSpec) (*VehicleSim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, exists := s.vehicles[spec.ID]; exists {
		return v, nil
	}

	v, err := NewVehicleSim(spec, s.config.Clock(), s.config.TimeScale, s.rngFor(spec.ID))
	if err != nil {
		return nil, err
	}
	s.vehicles[spec.ID] = v
	return v, nil
}

func (s *Simulator) Vehicle(id string) (*VehicleSim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	return v, ok
}

func (s *Simulator) getOrCreate(id string) (*VehicleSim, bool) {
	if v, ok := s.Vehicle(id); ok {
		return v, true
	}
	if !s.config.AutoCreate {
		return nil, false
	}

	v, err := s.add(VehicleSpec{ID: id, SpeedKmh: 50, Variance: 0.02})
	if err != nil {
		return nil, false
	}
	logger.WithVehicle(id).Info("Created simulated vehicle")
	return v, true
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", cors(s.healthHandler))
	mux.HandleFunc("/telemetry/{id}", cors(s.telemetryHandler))
	mux.HandleFunc("/vehicles", cors(s.listVehiclesHandler))
	mux.HandleFunc("/pattern", cors(s.patternHandler))
	return mux
}

func (s *Simulator) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Infof("Simulator listening on %s with %d vehicles", addr, s.Count())

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Simulator server error: %v", err)
		}
	}()

	return nil
}

func (s *Simulator) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Simulator) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vehicles)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Simulator) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "fleet-simulator",
		"vehicles": s.Count(),
	})
}

func (s *Simulator) telemetryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.PathValue("id")
	v, ok := s.getOrCreate(id)
	if !ok {
		writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	writeJSON(w, http.StatusOK, v.Snapshot(s.config.Clock()))
}

func (s *Simulator) listVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := s.config.Clock()
	s.mu.RLock()
	vehicles := make([]VehicleStatus, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		vehicles = append(vehicles, v.Status(now))
	}
	s.mu.RUnlock()

	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].ID < vehicles[j].ID })

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

type PatternRequest struct {
	VehicleID string `json:"vehicle_id"`
	Pattern   string `json:"pattern"`
}

func (s *Simulator) patternHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.VehicleID == "" {
		writeError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	pattern, err := ParsePattern(req.Pattern)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, ok := s.getOrCreate(req.VehicleID)
	if !ok {
		writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	v.SetPattern(pattern, s.config.Clock())

	logger.WithVehicle(req.VehicleID).Infof("Set pattern %s", pattern.Name())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "pattern set",
		"vehicle_id": req.VehicleID,
		"pattern":    pattern.Name(),
	})
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jayakrishna0023/fleet-guardian/internal/predictor"
)

type EngineStatus interface {
	State() predictor.State
	Ready() bool
}

type HealthHandler struct {
	engine EngineStatus
	db     Pinger
}

// NewHealthHandler builds the health endpoints. db may be nil when the
// service runs without a database.
func NewHealthHandler(engine EngineStatus, db Pinger) *HealthHandler {
	return &HealthHandler{engine: engine, db: db}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// checks reports each dependency and whether all of them are usable.
func (h *HealthHandler) checks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	healthy := true

	state := h.engine.State()
	checks["engine"] = string(state)
	if !h.engine.Ready() {
		healthy = false
	}

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "healthy"
		}
	}

	return checks, healthy
}

// Health godoc
// @Summary Service health
// @Tags Health
// @Produce json
// @Description Reports "degraded" while models are training or the database is down
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, ok := h.checks(ctx)
	status := "healthy"
	if !ok {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{Status: status, Timestamp: now(), Checks: checks})
}

// Ready godoc
// @Summary Readiness probe
// @Description Ready once the models are loaded or trained and the database answers
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, ok := h.checks(ctx)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Timestamp: now(), Checks: checks})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ready", Timestamp: now()})
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "alive", Timestamp: now()})
}

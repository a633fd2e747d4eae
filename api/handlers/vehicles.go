package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jayakrishna0023/fleet-guardian/internal/monitor"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	defaultHistoryRange = 7 * 24 * time.Hour
)

type VehicleHandler struct {
	monitor      MonitorManager
	history      PredictionHistory
	defaultLimit int
	maxLimit     int
}

// NewVehicleHandler builds the monitoring and history endpoints. history may
// be nil, in which case the history endpoint answers 503.
func NewVehicleHandler(manager MonitorManager, history PredictionHistory, defaultLimit, maxLimit int) *VehicleHandler {
	if defaultLimit <= 0 {
		defaultLimit = defaultHistoryLimit
	}
	if maxLimit <= 0 {
		maxLimit = maxHistoryLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &VehicleHandler{
		monitor:      manager,
		history:      history,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type MonitoredResponse struct {
	Vehicles []monitor.Status `json:"vehicles"`
	Count    int              `json:"count"`
}

type HistoryResponse struct {
	VehicleID   string                    `json:"vehicle_id"`
	From        time.Time                 `json:"from"`
	To          time.Time                 `json:"to"`
	Predictions []models.PredictionRecord `json:"predictions"`
	Count       int                       `json:"count"`
}

func vehicleID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := validation.ValidateVehicleID(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return "", false
	}
	return id, true
}

// StartMonitor godoc
// @Summary Start monitoring a vehicle
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Success 201 {object} monitor.Status
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already monitored"
// @Failure 429 {object} ErrorResponse "Monitor capacity reached"
// @Router /vehicles/{id}/monitor [post]
func (h *VehicleHandler) StartMonitor(c *gin.Context) {
	id, ok := vehicleID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.monitor.Start(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	status, _ := h.monitor.Status(id)
	c.JSON(http.StatusCreated, status)
}

// StopMonitor godoc
// @Summary Stop monitoring a vehicle
// @Tags Vehicles
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not monitored"
// @Router /vehicles/{id}/monitor [delete]
func (h *VehicleHandler) StopMonitor(c *gin.Context) {
	id, ok := vehicleID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.monitor.Stop(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Monitored godoc
// @Summary List monitored vehicles
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MonitoredResponse
// @Router /vehicles/monitored [get]
func (h *VehicleHandler) Monitored(c *gin.Context) {
	list := h.monitor.List()
	c.JSON(http.StatusOK, MonitoredResponse{Vehicles: list, Count: len(list)})
}

// History godoc
// @Summary Stored predictions for a vehicle
// @Description Newest first. from and to are RFC3339; the default window is the last 7 days.
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Param from query string false "Start time (RFC3339)"
// @Param to query string false "End time (RFC3339)"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "History storage not configured"
// @Router /vehicles/{id}/predictions [get]
func (h *VehicleHandler) History(c *gin.Context) {
	id, ok := vehicleID(c)
	if !ok {
		return
	}
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "prediction history requires a database"})
		return
	}

	from, to, err := timeRange(c.Query("from"), c.Query("to"), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	limit, err := h.limit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	records, err := h.history.GetByVehicle(ctx, id, from, to, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []models.PredictionRecord{}
	}

	c.JSON(http.StatusOK, HistoryResponse{
		VehicleID:   id,
		From:        from,
		To:          to,
		Predictions: records,
		Count:       len(records),
	})
}

func (h *VehicleHandler) limit(raw string) (int, error) {
	if raw == "" {
		return h.defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errBadQuery("limit must be a positive integer")
	}
	if n > h.maxLimit {
		n = h.maxLimit
	}
	return n, nil
}

func timeRange(rawFrom, rawTo string, now time.Time) (time.Time, time.Time, error) {
	to := now
	if rawTo != "" {
		t, err := time.Parse(time.RFC3339, rawTo)
		if err != nil {
			return time.Time{}, time.Time{}, errBadQuery("to must be an RFC3339 timestamp")
		}
		to = t
	}

	from := to.Add(-defaultHistoryRange)
	if rawFrom != "" {
		t, err := time.Parse(time.RFC3339, rawFrom)
		if err != nil {
			return time.Time{}, time.Time{}, errBadQuery("from must be an RFC3339 timestamp")
		}
		from = t
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, errBadQuery("from must not be after to")
	}
	return from, to, nil
}

type errBadQuery string

func (e errBadQuery) Error() string { return string(e) }

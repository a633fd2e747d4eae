package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jayakrishna0023/fleet-guardian/api/middleware"
	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

type PredictionHandler struct {
	engine    Predictor
	publisher *events.Publisher
}

// NewPredictionHandler builds the inference endpoints. When publisher is set,
// snapshot predictions are published like monitored ones.
func NewPredictionHandler(engine Predictor, publisher *events.Publisher) *PredictionHandler {
	return &PredictionHandler{engine: engine, publisher: publisher}
}

type FuelResponse struct {
	Efficiency float64 `json:"efficiency"`
}

type VehiclePredictionsResponse struct {
	VehicleID   string                    `json:"vehicle_id"`
	Predictions []models.PredictionResult `json:"predictions"`
}

// bind decodes the body into v and runs check on it. It writes the 400
// response itself and reports whether the handler should continue.
func bind[T any](c *gin.Context, v *T, check func(T) error) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	if err := check(*v); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

func (h *PredictionHandler) respond(c *gin.Context, result *models.PredictionResult, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Engine godoc
// @Summary Predict engine failure
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.EngineFeatures true "Engine readings"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Models not ready"
// @Router /predict/engine [post]
func (h *PredictionHandler) Engine(c *gin.Context) {
	var f models.EngineFeatures
	if !bind(c, &f, validation.EngineFeatures) {
		return
	}
	result, err := h.engine.PredictEngine(f)
	h.respond(c, result, err)
}

// Brake godoc
// @Summary Predict brake failure
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BrakeFeatures true "Brake readings"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Models not ready"
// @Router /predict/brake [post]
func (h *PredictionHandler) Brake(c *gin.Context) {
	var f models.BrakeFeatures
	if !bind(c, &f, validation.BrakeFeatures) {
		return
	}
	result, err := h.engine.PredictBrake(f)
	h.respond(c, result, err)
}

// Battery godoc
// @Summary Predict battery failure
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BatteryFeatures true "Battery readings"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Models not ready"
// @Router /predict/battery [post]
func (h *PredictionHandler) Battery(c *gin.Context) {
	var f models.BatteryFeatures
	if !bind(c, &f, validation.BatteryFeatures) {
		return
	}
	result, err := h.engine.PredictBattery(f)
	h.respond(c, result, err)
}

// Tire godoc
// @Summary Predict tire failure
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.TireFeatures true "Tire readings"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Models not ready"
// @Router /predict/tire [post]
func (h *PredictionHandler) Tire(c *gin.Context) {
	var f models.TireFeatures
	if !bind(c, &f, validation.TireFeatures) {
		return
	}
	result, err := h.engine.PredictTire(f)
	h.respond(c, result, err)
}

// Fuel godoc
// @Summary Predict fuel efficiency
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.FuelFeatures true "Driving profile"
// @Success 200 {object} FuelResponse "Efficiency in km/L"
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Models not ready"
// @Router /predict/fuel [post]
func (h *PredictionHandler) Fuel(c *gin.Context) {
	var f models.FuelFeatures
	if !bind(c, &f, validation.FuelFeatures) {
		return
	}
	efficiency, err := h.engine.PredictFuelEfficiency(f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FuelResponse{Efficiency: efficiency})
}

// Vehicle godoc
// @Summary Predict all components from a telemetry snapshot
// @Tags Predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.VehicleSnapshot true "Telemetry snapshot"
// @Success 200 {object} VehiclePredictionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Models not ready"
// @Router /vehicles/predictions [post]
func (h *PredictionHandler) Vehicle(c *gin.Context) {
	var s models.VehicleSnapshot
	if !bind(c, &s, validation.Snapshot) {
		return
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}

	results, err := h.engine.GetVehiclePredictions(s)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.publisher != nil {
		h.publisher.WithTraceID(middleware.GetTraceID(c)).PredictionsMade(&models.PredictionBatch{
			VehicleID: s.VehicleID,
			Snapshot:  s,
			Results:   results,
		})
	}

	c.JSON(http.StatusOK, VehiclePredictionsResponse{VehicleID: s.VehicleID, Predictions: results})
}

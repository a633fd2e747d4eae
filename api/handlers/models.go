package handlers

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

type ModelHandler struct {
	engine     Predictor
	baseCtx    context.Context
	retraining atomic.Bool
	wg         sync.WaitGroup
}

// NewModelHandler builds the model endpoints. Retraining runs in the
// background under baseCtx so it outlives the request.
func NewModelHandler(ctx context.Context, engine Predictor) *ModelHandler {
	return &ModelHandler{engine: engine, baseCtx: ctx}
}

type ModelsResponse struct {
	State      string             `json:"state"`
	Retraining bool               `json:"retraining"`
	Models     []models.ModelInfo `json:"models"`
}

type RetrainResponse struct {
	Status string `json:"status"`
}

// List godoc
// @Summary Installed models
// @Tags Models
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ModelsResponse
// @Router /models [get]
func (h *ModelHandler) List(c *gin.Context) {
	infos := h.engine.Models()
	if infos == nil {
		infos = []models.ModelInfo{}
	}
	c.JSON(http.StatusOK, ModelsResponse{
		State:      string(h.engine.State()),
		Retraining: h.retraining.Load(),
		Models:     infos,
	})
}

// Retrain godoc
// @Summary Retrain every model
// @Description Starts training in the background. Predictions keep using the current models until the new ones are installed.
// @Tags Models
// @Produce json
// @Security BearerAuth
// @Success 202 {object} RetrainResponse
// @Failure 409 {object} ErrorResponse "Retraining already running"
// @Router /models/retrain [post]
func (h *ModelHandler) Retrain(c *gin.Context) {
	if !h.retraining.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "retraining already in progress"})
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.retraining.Store(false)

		start := time.Now()
		if err := h.engine.Retrain(h.baseCtx); err != nil {
			logger.WithError(err).Warn("Retraining aborted")
			return
		}
		logger.WithField("duration", time.Since(start).String()).Info("Retraining finished")
	}()

	c.JSON(http.StatusAccepted, RetrainResponse{Status: "retraining"})
}

// Wait blocks until a retrain started by this handler finishes.
func (h *ModelHandler) Wait() {
	h.wg.Wait()
}

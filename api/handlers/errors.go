package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/internal/monitor"
	"github.com/jayakrishna0023/fleet-guardian/internal/predictor"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, predictor.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, monitor.ErrNotMonitored):
		return http.StatusNotFound
	case errors.Is(err, monitor.ErrAlreadyMonitored):
		return http.StatusConflict
	case errors.Is(err, monitor.ErrCapacity):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorCtxf(c.Request.Context(), "%s %s: %v", c.Request.Method, c.FullPath(), err)
		message = "internal error"
	}
	c.JSON(status, ErrorResponse{Error: message})
}

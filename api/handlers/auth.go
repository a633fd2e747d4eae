package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jayakrishna0023/fleet-guardian/internal/auth"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
)

type AuthHandler struct {
	operators    auth.OperatorStore
	authService  *auth.Service
	cookieName   string
	cookieSecure bool
}

// NewAuthHandler builds the login endpoint. An empty cookieName disables the
// session cookie.
func NewAuthHandler(operators auth.OperatorStore, authService *auth.Service, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		operators:    operators,
		authService:  authService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	Username  string `json:"username"`
}

// Login godoc
// @Summary Log in
// @Description Exchange operator credentials for a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	op, err := auth.Authenticate(ctx, h.operators, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) {
			logger.WithField("username", req.Username).Warn("Rejected login")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		logger.WithError(err).Error("Operator lookup failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	token, err := h.authService.GenerateToken(op.ID, op.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to generate token"})
		return
	}

	expiresIn := int(h.authService.Duration().Seconds())
	if h.cookieName != "" {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(h.cookieName, token, expiresIn, "/", "", h.cookieSecure, true)
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Username:  op.Username,
	})
}

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/internal/auth"
	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys are independent")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"), "window resets")
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("a"))
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(1, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestEndpointRateLimiter(t *testing.T) {
	erl := NewEndpointRateLimiter()
	erl.AddEndpoint("/limited", 1, time.Minute)

	r := gin.New()
	r.Use(erl.Middleware())
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/limited", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/limited", nil)).Code)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/open", nil)).Code)
	}
}

func TestAuthRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", AuthRateLimiter(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
}

func TestJWTAuth(t *testing.T) {
	svc := auth.NewService("secret", time.Hour)
	token, err := svc.GenerateToken(7, "ops")
	require.NoError(t, err)
	expired, err := auth.NewService("secret", -time.Hour).GenerateToken(7, "ops")
	require.NoError(t, err)

	r := gin.New()
	r.Use(JWTAuth(svc, "auth_token"))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "name": GetUsername(c)})
	})

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
		body   string
	}{
		{"bearer", "Bearer " + token, "", http.StatusOK, `"name":"ops"`},
		{"cookie", "", token, http.StatusOK, `"id":7`},
		{"missing", "", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", "", http.StatusUnauthorized, "invalid authorization header format"},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized, "invalid token"},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized, "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}
			w := serve(r, req)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestCORS(t *testing.T) {
	cfg := CORSFromConfig(config.CORSConfig{
		AllowedOrigins:   []string{"https://fleet.example.com"},
		AllowCredentials: true,
	})
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://fleet.example.com")
	w := serve(r, req)
	assert.Equal(t, "https://fleet.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://fleet.example.com")
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
}

func TestTraceID(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.Use(TraceID())
	r.GET("/", func(c *gin.Context) {
		fromCtx = logger.TraceIDFromContext(c.Request.Context())
		c.String(http.StatusOK, GetTraceID(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(TraceIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())
	assert.Equal(t, generated, fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(TraceIDHeader))
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/predict", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, apiCSP, w.Header().Get("Content-Security-Policy"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, docsCSP, w.Header().Get("Content-Security-Policy"))
}

func TestRequestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(50 * time.Millisecond))
	r.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		if ok && time.Until(deadline) <= 50*time.Millisecond {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusInternalServerError)
	})

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRequestLogger_RecordsUser(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/vehicles/:id", func(c *gin.Context) {
		c.Set(UserIDKey, 7)
		c.Set(UsernameKey, "ops")
		c.Status(http.StatusNotFound)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/vehicles/v1", nil))

	out := buf.String()
	assert.Contains(t, out, `"user":"ops"`)
	assert.Contains(t, out, `"user_id":7`)
	assert.Contains(t, out, `"vehicle_id":"v1"`)
	assert.Contains(t, out, "client error")
}

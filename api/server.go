package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jayakrishna0023/fleet-guardian/api/handlers"
	"github.com/jayakrishna0023/fleet-guardian/api/middleware"
	"github.com/jayakrishna0023/fleet-guardian/api/websocket"
	"github.com/jayakrishna0023/fleet-guardian/docs"
	"github.com/jayakrishna0023/fleet-guardian/internal/auth"
	"github.com/jayakrishna0023/fleet-guardian/internal/events"
	"github.com/jayakrishna0023/fleet-guardian/internal/metrics"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
)

const (
	defaultSecret   = "change-me-in-production"
	maxRequestBytes = 1 << 20
)

// Dependencies are the services the API exposes. History and DB are nil when
// no database is configured; Bus and Metrics are optional.
type Dependencies struct {
	Engine    handlers.Predictor
	Monitor   handlers.MonitorManager
	History   handlers.PredictionHistory
	Operators auth.OperatorStore
	DB        handlers.Pinger
	Bus       *events.EventBus
	Metrics   *metrics.Metrics
}

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      config.APIConfig
	deps        Dependencies
	authService *auth.Service
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
	models      *handlers.ModelHandler

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(cfg config.APIConfig, wsCfg config.WebSocketConfig, deps Dependencies) *Server {
	if gin.Mode() != gin.TestMode {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultSecret {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	duration := cfg.JWTDuration
	if duration <= 0 {
		duration = 24 * time.Hour
	}
	authService := auth.NewService(cfg.JWTSecret, duration)
	if cfg.JWTIssuer != "" {
		authService = authService.WithIssuer(cfg.JWTIssuer)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		router:      gin.New(),
		config:      cfg,
		deps:        deps,
		authService: authService,
		wsHub:       websocket.NewHub(&wsCfg),
		ctx:         ctx,
		cancel:      cancel,
	}

	if deps.Metrics != nil {
		s.wsHub.OnClientCount(deps.Metrics.SetWebSocketClients)
	}

	s.setupMiddleware()
	s.setupRoutes()

	go s.wsHub.Run(ctx)

	if deps.Bus != nil {
		s.wsBridge = websocket.NewEventBridge(s.wsHub, deps.Bus)
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(middleware.CORSFromConfig(s.config.CORS)))
	s.router.Use(middleware.RequestSizeLimit(maxRequestBytes))
	s.router.Use(middleware.RateLimit(middleware.NewRateLimiter(s.config.RateLimit, time.Minute)))
	s.router.Use(middleware.RequestTimeout(s.config.RequestTimeout))
}

func (s *Server) setupRoutes() {
	var publisher *events.Publisher
	if s.deps.Bus != nil {
		publisher = events.NewPublisher(s.deps.Bus)
	}

	healthHandler := handlers.NewHealthHandler(s.deps.Engine, s.deps.DB)
	authHandler := handlers.NewAuthHandler(s.deps.Operators, s.authService, s.config.CookieName, s.config.CookieSecure)
	predictionHandler := handlers.NewPredictionHandler(s.deps.Engine, publisher)
	vehicleHandler := handlers.NewVehicleHandler(s.deps.Monitor, s.deps.History, s.config.DefaultLimit, s.config.MaxLimit)
	s.models = handlers.NewModelHandler(s.ctx, s.deps.Engine)

	// Public routes
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)
	s.router.POST("/auth/login", middleware.AuthRateLimiter(5, time.Minute), authHandler.Login)
	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	docs.SwaggerInfo.BasePath = "/"
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limits := middleware.NewEndpointRateLimiter()
	limits.AddEndpoint("/models/retrain", 2, time.Minute)

	protected := s.router.Group("/")
	protected.Use(middleware.JWTAuth(s.authService, s.config.CookieName))
	protected.Use(limits.Middleware())
	{
		protected.POST("/predict/engine", predictionHandler.Engine)
		protected.POST("/predict/brake", predictionHandler.Brake)
		protected.POST("/predict/battery", predictionHandler.Battery)
		protected.POST("/predict/tire", predictionHandler.Tire)
		protected.POST("/predict/fuel", predictionHandler.Fuel)

		protected.POST("/vehicles/predictions", predictionHandler.Vehicle)
		protected.GET("/vehicles/monitored", vehicleHandler.Monitored)
		protected.GET("/vehicles/:id/predictions", vehicleHandler.History)
		protected.POST("/vehicles/:id/monitor", vehicleHandler.StartMonitor)
		protected.DELETE("/vehicles/:id/monitor", vehicleHandler.StopMonitor)

		protected.GET("/models", s.models.List)
		protected.POST("/models/retrain", s.models.Retrain)
	}
}

func (s *Server) Start() error {
	idle := s.config.IdleTimeout
	if idle <= 0 {
		idle = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  idle,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	s.cancel()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

func (s *Server) AuthService() *auth.Service {
	return s.authService
}

package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kasseeashil-ctrl/intel-platform/internal/api/handler"
	"github.com/kasseeashil-ctrl/intel-platform/internal/api/middleware"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/service"
	mongostore "github.com/kasseeashil-ctrl/intel-platform/internal/infrastructure/db/mongo"
	redisstore "github.com/kasseeashil-ctrl/intel-platform/internal/infrastructure/db/redis"
)

// RouterConfig carries the knobs the HTTP layer needs beyond its stores.
type RouterConfig struct {
	JWTSecret           string
	TokenTTL            time.Duration
	ThrottleMaxAttempts int
	ThrottleWindow      time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, aiClient ports.AIClient, audit service.AuditRecorder, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("intel_platform"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	incidentRepo := mongostore.NewIncidentRepository(db)
	datasetRepo := mongostore.NewDatasetRepository(db)
	ticketRepo := mongostore.NewTicketRepository(db)
	auditRepo := mongostore.NewAuditRepository(db)

	throttle := redisstore.NewLoginThrottle(rdb, cfg.ThrottleMaxAttempts, cfg.ThrottleWindow)

	authService := service.NewAuthService(userRepo, throttle, audit, cfg.JWTSecret, cfg.TokenTTL, log)
	incidentService := service.NewIncidentService(incidentRepo, audit, log)
	datasetService := service.NewDatasetService(datasetRepo, audit, log)
	ticketService := service.NewTicketService(ticketRepo, audit, log)
	assistantService := service.NewAssistantService(aiClient, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	incidentHandler := handler.NewIncidentHandler(incidentService)
	datasetHandler := handler.NewDatasetHandler(datasetService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	authMW := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/password", authHandler.ChangePassword, authMW)

	// --- Cybersecurity domain ---
	incidents := e.Group("/v1/incidents", authMW, middleware.RequireDomain(domain.DomainCybersecurity))
	incidents.GET("", incidentHandler.List)
	incidents.POST("", incidentHandler.Create)
	incidents.GET("/stats/summary", incidentHandler.Stats)
	incidents.GET("/:id", incidentHandler.Get)
	incidents.PATCH("/:id/status", incidentHandler.UpdateStatus)

	// --- Data-science domain ---
	datasets := e.Group("/v1/datasets", authMW, middleware.RequireDomain(domain.DomainDataScience))
	datasets.GET("", datasetHandler.List)
	datasets.POST("", datasetHandler.Create)
	datasets.GET("/stats/summary", datasetHandler.Stats)
	datasets.GET("/:id", datasetHandler.Get)

	// --- IT-operations domain ---
	tickets := e.Group("/v1/tickets", authMW, middleware.RequireDomain(domain.DomainITOperations))
	tickets.GET("", ticketHandler.List)
	tickets.POST("", ticketHandler.Create)
	tickets.GET("/stats/summary", ticketHandler.Stats)
	tickets.GET("/:id", ticketHandler.Get)
	tickets.PATCH("/:id/assign", ticketHandler.Assign)
	tickets.PATCH("/:id/resolve", ticketHandler.Resolve)
	tickets.PATCH("/:id/close", ticketHandler.Close)

	// --- AI assistant ---
	e.POST("/v1/assistant/chat", assistantHandler.Chat, authMW, middleware.RequireDomain(domain.DomainAIAssistant))

	// --- Session principal ---
	e.GET("/v1/me", authHandler.Me, authMW)

	// --- Admin panel ---
	e.GET("/v1/admin/audit", auditHandler.List, authMW, middleware.RequireDomain(domain.DomainAdminPanel))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

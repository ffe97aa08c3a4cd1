package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openclass/lms-platform/internal/api/handler"
	"github.com/openclass/lms-platform/internal/api/middleware"
	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/core/service"
	"github.com/openclass/lms-platform/internal/infrastructure/config"
	mongostore "github.com/openclass/lms-platform/internal/infrastructure/db/mongo"
	redisstore "github.com/openclass/lms-platform/internal/infrastructure/db/redis"
	"github.com/openclass/lms-platform/internal/infrastructure/queue"
	"github.com/openclass/lms-platform/internal/token"
	"github.com/openclass/lms-platform/pkg/logger"
)

// Deps carries the externally-owned resources the router wires together.
type Deps struct {
	Mongo *mongo.Database
	Redis *redis.Client
	Codec *token.Codec
	Audit *queue.AuditDispatcher
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, deps Deps) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("lms"))
	// Credentialed CORS so the cookie survives a split frontend/backend origin.
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowCredentials: true,
	}))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(deps.Mongo)
	auditRepo := mongostore.NewAuditRepository(deps.Mongo)
	auditService := service.NewAuditTrailService(auditRepo)
	authService := service.NewAuthService(userRepo, deps.Codec, cfg.StoreTimeout, log)
	throttle := redisstore.NewLoginThrottle(deps.Redis, cfg.LoginAttempts, cfg.LoginWindow)

	authHandler := handler.NewAuthHandler(authService, throttle, deps.Audit, deps.Codec.TTL(), log)
	dashboardHandler := handler.NewDashboardHandler(auditService)
	requireAuth := middleware.RequireAuth(authService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Role-scoped groups (gate composition: auth first, then role) ---
	admin := e.Group("/api/admin", requireAuth, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/dashboard", dashboardHandler.Summary)
	admin.GET("/audit", dashboardHandler.AuditTrail)

	instructor := e.Group("/api/instructor", requireAuth, middleware.RequireRole(domain.RoleInstructor))
	instructor.GET("/dashboard", dashboardHandler.Summary)

	student := e.Group("/api/student", requireAuth, middleware.RequireRole(domain.RoleStudent))
	student.GET("/dashboard", dashboardHandler.Summary)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}

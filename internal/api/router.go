package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/funderr/crowdfund-api/docs"
	"github.com/funderr/crowdfund-api/internal/api/handler"
	"github.com/funderr/crowdfund-api/internal/api/middleware"
	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/service"
	mongodb "github.com/funderr/crowdfund-api/internal/infrastructure/db/mongo"
	redisdb "github.com/funderr/crowdfund-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crowdfund"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	campaignRepo := mongodb.NewCampaignRepository(db)
	codeStore := redisdb.NewCodeStore(rdb)
	replayStore := redisdb.NewReplayStore(rdb)

	authService := service.NewAuthService(userRepo, codeStore, jwtSecret, 24*time.Hour, log)
	userService := service.NewUserService(userRepo, log)
	campaignService := service.NewCampaignService(campaignRepo, replayStore, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	campaignHandler := handler.NewCampaignHandler(campaignService)

	authMiddleware := middleware.Auth(jwtSecret, userRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/signup-code", authHandler.RequestCode)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMiddleware)

	users := v1.Group("/users")
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.UpdateProfile)
	users.PUT("/:id/status", userHandler.SetStatus, adminOnly)
	users.PUT("/:id/role", userHandler.SetRole, adminOnly)

	campaigns := v1.Group("/campaigns")
	campaigns.POST("", campaignHandler.Create, middleware.RBAC(domain.RoleCampaignCreator))
	campaigns.GET("", campaignHandler.List)
	campaigns.GET("/:id", campaignHandler.Get)
	campaigns.POST("/:id/approve", campaignHandler.Approve, adminOnly)
	campaigns.POST("/:id/reject", campaignHandler.Reject, adminOnly)
	campaigns.POST("/:id/donate", campaignHandler.Donate)
	campaigns.DELETE("/:id", campaignHandler.Delete, adminOnly)

	return e
}

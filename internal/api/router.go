package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/samihashehatta/leovegs-task/docs"
	"github.com/samihashehatta/leovegs-task/internal/api/handler"
	"github.com/samihashehatta/leovegs-task/internal/api/middleware"
	"github.com/samihashehatta/leovegs-task/internal/core/ports"
	"github.com/samihashehatta/leovegs-task/internal/core/service"
	"github.com/samihashehatta/leovegs-task/internal/infrastructure/config"
	mysqldb "github.com/samihashehatta/leovegs-task/internal/infrastructure/db/mysql"
	redisdb "github.com/samihashehatta/leovegs-task/internal/infrastructure/db/redis"
	"github.com/samihashehatta/leovegs-task/internal/infrastructure/http/handlers"
	"github.com/samihashehatta/leovegs-task/internal/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Collaborators are constructed here and passed explicitly; there is no
// hidden registration.
func NewRouter(db *sql.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("users_api"))

	// --- Dependencies ---
	repo := mysqldb.NewUserRepository(db)
	signer := token.NewJWTSigner(cfg.JWTSecret)
	var cache ports.UserCache
	if rdb != nil {
		cache = redisdb.NewUserCache(rdb)
	}
	users := service.NewUserService(repo, signer, cache, log)
	userHandler := handler.NewUserHandler(users)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	guardMiddleware := middleware.Guard(users)

	// --- User routes ---
	g := e.Group("/api/user")
	g.POST("", userHandler.Create)
	g.GET("/:id", userHandler.Retrieve, authMiddleware, guardMiddleware)
	g.PUT("/:id", userHandler.Update, authMiddleware, guardMiddleware)
	g.DELETE("/:id", userHandler.Delete, authMiddleware, guardMiddleware)

	// --- Observability and docs (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/docs/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"live_portal/internal/config"
	"live_portal/internal/database"
	"live_portal/internal/handler"
	"live_portal/internal/middleware"
	"live_portal/internal/repository"
	"live_portal/internal/service"
	"live_portal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	if err := database.MigrateUp(cfg.Database.DSN, cfg.Database.MigrationsPath, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", "error", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Invalid database DSN", "error", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, cfg, appLogger)

	if err := services.User.EnsureAdmin(context.Background()); err != nil {
		appLogger.Fatal("Failed to ensure admin account", "error", err)
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		appLogger.Fatal("Failed to create upload directory", "error", err, "dir", cfg.Upload.Dir)
	}

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, cfg.RateLimit.Requests, cfg.RateLimit.Window, appLogger)

	handlers := handler.NewHandlers(services, repos, cfg, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
		// No WriteTimeout: the MJPEG endpoint holds its response open.
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Check)

	auth := router.Group("/api/v1/auth")
	auth.Use(rateLimitMiddleware.Limit())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	api := router.Group("/api")
	{
		api.GET("/stats", handlers.Stream.Stats)
		// The landing page embeds the stream in an <img> tag, which
		// cannot carry credentials; the handler itself rejects requests
		// while no webcam session is active.
		api.GET("/stream", handlers.Stream.Stream)

		authed := api.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			authed.POST("/join", handlers.Request.Join)
			authed.GET("/messages", handlers.Chat.Messages)
			authed.GET("/notifications", handlers.Notification.List)
			authed.POST("/notifications/:id/:action", handlers.Notification.Manage)
			authed.GET("/dashboard", handlers.User.Dashboard)

			admin := authed.Group("")
			admin.Use(authMiddleware.RequireAdmin())
			{
				admin.GET("/requests", handlers.Request.ListPending)
				admin.POST("/requests/:id/:action", handlers.Request.Resolve)
				admin.POST("/control_stream", handlers.Stream.ControlStream)
				admin.POST("/control_recording", handlers.Stream.ControlRecording)
				admin.POST("/upload", handlers.Stream.Upload)
				admin.GET("/videos", handlers.Stream.Videos)
				admin.POST("/promote_user/:id", handlers.User.Promote)
				admin.GET("/users", handlers.User.List)
			}
		}
	}

	router.GET("/ws", authMiddleware.RequireAuth(), handlers.WebSocket.Handle)

	return router
}

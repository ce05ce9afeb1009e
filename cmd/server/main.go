package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdsight/internal/config"
	"crowdsight/internal/handler"
	"crowdsight/internal/middleware"
	"crowdsight/internal/repository"
	"crowdsight/internal/service"
	"crowdsight/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load DB config")
	}

	// --- Database Connection ---
	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, dbCfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool, logger); err != nil {
		logger.WithError(err).Fatal("Failed to auto-migrate database")
	}

	// Redis is optional; without it the rate limiter lets every request through
	rdb := config.NewRedisClient(cfg.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTTTL)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	reportRepo := repository.NewReportRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, service.AuthOptions{
		InitialAdminEmail: cfg.InitialAdminEmail,
		BcryptCost:        cfg.BcryptCost,
	}, logger)
	reportService := service.NewReportService(reportRepo)
	imageService := service.NewImageService(cfg.MaxUploadBytes)

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Setup Gin Router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		Logger:         logger,
		Tokens:         jwtUtil,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        middleware.NewMetrics(registry),
		RateLimiter:    middleware.RateLimitMiddleware(cfg.RateLimit, rdb, logger),
		Timeout:        middleware.TimeoutMiddleware(cfg.RequestTimeout),
		Auth:           handler.NewAuthHandler(authService, logger),
		Reports:        handler.NewReportHandler(reportService, logger),
		Uploads:        handler.NewUploadHandler(imageService, cfg.MaxUploadBytes, logger),
		System:         handler.NewSystemHandler(dbPool, logger),
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).WithField("env", cfg.Env).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exiting")
}

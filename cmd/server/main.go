package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/BerylCAtieno/cfo-service/internal/analyzer"
	"github.com/BerylCAtieno/cfo-service/internal/cache"
	"github.com/BerylCAtieno/cfo-service/internal/config"
	"github.com/BerylCAtieno/cfo-service/internal/db"
	"github.com/BerylCAtieno/cfo-service/internal/extractor"
	"github.com/BerylCAtieno/cfo-service/internal/middleware"
	"github.com/BerylCAtieno/cfo-service/internal/questionnaire"
	"github.com/BerylCAtieno/cfo-service/internal/repository"
	"github.com/BerylCAtieno/cfo-service/internal/router"
	"github.com/BerylCAtieno/cfo-service/internal/services"
	"github.com/BerylCAtieno/cfo-service/internal/storage"
	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

func main() {
	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	database, err := db.Open(cfg.DatabasePath, cfg.MigrationsEnabled)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err, "path", cfg.DatabasePath)
	}
	defer database.Close()

	// Initialize object storage
	store, err := storage.NewS3Storage(ctx, storage.Options{
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		BucketName:      cfg.S3BucketName,
		UseSSL:          cfg.S3UseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err, "endpoint", cfg.S3Endpoint)
	}

	// Result cache, redis when configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory cache", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	results := cache.New(redisClient, cfg.CacheTTL, logger)
	results.StartCleanup(ctx, time.Minute)

	tpl, err := questionnaire.Default()
	if err != nil {
		logger.Fatal("Failed to load questionnaire schema", "error", err)
	}

	// Initialize services
	repos := repository.New(database)
	engine := analyzer.NewEngine(logger)

	svc := router.Services{
		Companies:      services.NewCompanyService(repos, store, logger),
		Questionnaires: services.NewQuestionnaireService(tpl, repos, logger),
		Documents:      services.NewDocumentService(repos, store, extractor.NewSimulatedExtractor(), cfg.MaxFileSize, logger),
		Analysis:       services.NewAnalysisService(engine, results, repos, logger),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	limiter.StartCleanup(ctx)

	// Setup HTTP router
	handler := router.NewRouter(cfg, svc, router.HealthChecks{DB: database, Cache: results, Storage: store}, limiter, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "cache", results.Backend())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/MolodoyDEV/diploma/internal/adapter/client"
	"github.com/MolodoyDEV/diploma/internal/adapter/http/router"
	"github.com/MolodoyDEV/diploma/internal/adapter/inference"
	"github.com/MolodoyDEV/diploma/internal/adapter/repository/gormrepo"
	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/service"
	"github.com/MolodoyDEV/diploma/internal/infrastructure/cache"
	"github.com/MolodoyDEV/diploma/internal/infrastructure/config"
	"github.com/MolodoyDEV/diploma/internal/infrastructure/database"
	"github.com/MolodoyDEV/diploma/internal/infrastructure/logger"
	"github.com/MolodoyDEV/diploma/internal/infrastructure/metrics"
	"github.com/MolodoyDEV/diploma/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	defer func() {
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed")

	labels := make([]entity.Label, 0, len(cfg.Models.Labels))
	for _, name := range cfg.Models.Labels {
		labels = append(labels, entity.Label(name))
	}

	// Seed default role, admin account and thresholds
	seedUC := usecase.NewSeedUsecase(
		gormrepo.NewUserRepository(db),
		gormrepo.NewRoleRepository(db),
		gormrepo.NewSettingRepository(db),
		log,
	)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	err = seedUC.Seed(seedCtx, &usecase.SeedInput{
		AdminLogin:    cfg.Auth.DefaultAdminLogin,
		AdminPassword: cfg.Auth.DefaultAdminPassword,
		Labels:        labels,
	})
	cancelSeed()
	if err != nil {
		log.Error("Failed to seed database", zap.Error(err))
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Initialize Redis (optional, continue without it)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, continuing without translation cache", zap.Error(err))
		redisClient = nil
	} else {
		log.Info("Connected to Redis")
		defer func() { _ = redisClient.Close() }()
	}

	// Load models; any failure is fatal
	modelSet, err := inference.LoadModels(inference.LoaderConfig{
		ModelsDir:      cfg.Models.Dir,
		TokenizersDir:  cfg.Models.TokenizersDir,
		Labels:         labels,
		SequenceLength: cfg.Models.SequenceLength,
		Runtime: inference.RuntimeSettings{
			SharedLibraryPath: cfg.Models.SharedLibraryPath,
			IntraOpThreads:    cfg.Models.IntraOpThreads,
			PoolSize:          cfg.Models.SessionPool,
		},
	}, log)
	if err != nil {
		log.Error("Failed to load models", zap.Error(err))
		return fmt.Errorf("failed to load models: %w", err)
	}
	defer func() {
		modelSet.Close()
		if err := inference.DestroyRuntime(); err != nil {
			log.Warn("Failed to release onnx runtime", zap.Error(err))
		}
	}()

	registry, err := usecase.NewModelRegistry(modelSet.Models)
	if err != nil {
		return fmt.Errorf("failed to build model registry: %w", err)
	}
	log.Info("Models loaded", zap.Stringers("labels", registry.Labels()))

	// Translator, cached in Redis when available
	var translator service.Translator = client.NewGoogleTranslator(client.GoogleTranslatorConfig{
		BaseURL:         cfg.Translator.BaseURL,
		Timeout:         cfg.Translator.Timeout,
		BreakerFailures: cfg.Translator.BreakerFailures,
		BreakerCooldown: cfg.Translator.BreakerCooldown,
	}, log)
	if redisClient != nil && cfg.Translator.CacheTTL > 0 {
		store := cache.NewRedisStore(redisClient, "mailguard:translation:")
		translator = client.NewCachedTranslator(translator, store, cfg.Translator.CacheTTL, log)
	}

	// Setup router
	r := router.Setup(router.Dependencies{
		Config:     cfg,
		DB:         db,
		Redis:      redisClient,
		Registry:   registry,
		Translator: translator,
		Metrics:    metrics.New(prometheus.DefaultRegisterer),
		Gatherer:   prometheus.DefaultGatherer,
		Logger:     log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

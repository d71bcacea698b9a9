package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/photomap-service/internal/config"
	"github.com/photomap-service/internal/infrastructure/nominatim"
	"github.com/photomap-service/internal/observability"
	"github.com/photomap-service/internal/pkg/logger"
	"github.com/photomap-service/internal/repository/cache"
	"github.com/photomap-service/internal/repository/postgres"
	"github.com/photomap-service/internal/usecase"
	"github.com/photomap-service/internal/worker"
	"github.com/photomap-service/internal/worker/geocoding"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Geocoding Worker")
	log.Info("Configuration loaded",
		zap.Duration("interval", cfg.Worker.Interval),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	photoRepo := postgres.NewPhotoRepository(db, log)
	placeRepo := postgres.NewPlaceRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	geocoder := nominatim.NewNominatimClient(&cfg.Nominatim, log)

	// 6. Initialize use cases
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	geocodingUC := usecase.NewGeocodingUseCase(
		photoRepo,
		placeRepo,
		geocoder,
		cacheRepo,
		metrics,
		clock,
		cfg,
		log,
	)

	// 7. Initialize workers
	geocodingWorker := geocoding.NewGeocodingWorker(
		geocodingUC,
		metrics,
		clock,
		cfg.Worker,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(geocodingWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}

package main

// @title PhotoMap Geocoding Service API
// @version 1.0.0
// @description Сервис обратного геокодирования фотографий. Обогащает фотографии с GPS координатами человекочитаемыми местами: страна, регион, провинция, город.
// @description
// @description Основные возможности:
// @description - Фоновое обратное геокодирование фотографий через Nominatim
// @description - Идемпотентный справочник мест с иерархией на пользователя
// @description - Административный запуск батча и сводка статусов
// @description - Обновление координат фотографии с повторным геокодированием

// @contact.name API Support
// @contact.email support@photomap.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/photomap-service/docs/swagger"
	"github.com/photomap-service/internal/config"
	httpDelivery "github.com/photomap-service/internal/delivery/http"
	"github.com/photomap-service/internal/delivery/http/handler"
	"github.com/photomap-service/internal/infrastructure/nominatim"
	"github.com/photomap-service/internal/observability"
	"github.com/photomap-service/internal/pkg/logger"
	"github.com/photomap-service/internal/repository/cache"
	"github.com/photomap-service/internal/repository/postgres"
	"github.com/photomap-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting PhotoMap Geocoding Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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
	log.Info("PostgreSQL connected")

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
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	photoRepo := postgres.NewPhotoRepository(db, log)
	placeRepo := postgres.NewPlaceRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	geocoder := nominatim.NewNominatimClient(&cfg.Nominatim, log)

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
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

	placeUC := usecase.NewPlaceUseCase(placeRepo, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	geocodingHandler := handler.NewGeocodingHandler(geocodingUC, log)
	placeHandler := handler.NewPlaceHandler(placeUC, log)
	photoHandler := handler.NewPhotoHandler(geocodingUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		geocodingHandler,
		placeHandler,
		photoHandler,
	)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}

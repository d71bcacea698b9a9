package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// geocodeKey строит ключ кеша для координат. Координаты округляются до
// 5 знаков (~1 метр), чтобы близкие точки попадали в одну запись.
func geocodeKey(lat, lon float64) string {
	return fmt.Sprintf("geocode:%.5f:%.5f", lat, lon)
}

// GetGeocodeResult получает нормализованный результат геокодирования для координат
func (r *cacheRepository) GetGeocodeResult(ctx context.Context, lat, lon float64) (*domain.NormalizedLocation, error) {
	data, err := r.Get(ctx, geocodeKey(lat, lon))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var loc domain.NormalizedLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		r.logger.Error("Failed to unmarshal cached geocode result", zap.Error(err))
		return nil, fmt.Errorf("unmarshal geocode result: %w", err)
	}

	return &loc, nil
}

// SetGeocodeResult сохраняет нормализованный результат геокодирования для координат
func (r *cacheRepository) SetGeocodeResult(ctx context.Context, lat, lon float64, loc *domain.NormalizedLocation, ttl time.Duration) error {
	data, err := json.Marshal(loc)
	if err != nil {
		r.logger.Error("Failed to marshal geocode result", zap.Error(err))
		return fmt.Errorf("marshal geocode result: %w", err)
	}

	return r.Set(ctx, geocodeKey(lat, lon), data, ttl)
}

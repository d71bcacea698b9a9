package repository

import (
	"context"
	"time"

	"github.com/photomap-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetGeocodeResult получает нормализованный результат геокодирования для координат
	GetGeocodeResult(ctx context.Context, lat, lon float64) (*domain.NormalizedLocation, error)

	// SetGeocodeResult сохраняет нормализованный результат геокодирования для координат
	SetGeocodeResult(ctx context.Context, lat, lon float64, loc *domain.NormalizedLocation, ttl time.Duration) error
}

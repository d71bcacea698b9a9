package repository

import (
	"context"

	"github.com/photomap-service/internal/domain"
)

// GeocoderRepository определяет обращение к внешнему провайдеру обратного геокодирования.
// Один вызов - один сетевой запрос с ограниченным таймаутом; повторы - забота оркестратора.
type GeocoderRepository interface {
	// ReverseGeocode возвращает сырой ответ провайдера для координат.
	// Любой сбой (таймаут, не-2xx, нечитаемое тело) возвращается как *domain.ProviderError.
	ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.ReverseGeocodeResponse, error)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/photomap-service/internal/domain"
)

// PhotoRepository определяет методы пайплайна геокодирования для работы с фотографиями.
// Полный CRUD фотографий принадлежит внешнему сервису - здесь только срез,
// нужный оркестратору и статусному эндпоинту.
type PhotoRepository interface {
	// GetByID возвращает фотографию по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)

	// SelectForGeocoding выбирает фотографии, подходящие для батча геокодирования:
	// с ненулевыми координатами и, если filter.Force=false, в статусе
	// pending/failed либо без статуса
	SelectForGeocoding(ctx context.Context, filter domain.GeocodingFilter) ([]*domain.Photo, error)

	// UpdateGeocodingStatus обновляет только статус геокодирования
	UpdateGeocodingStatus(ctx context.Context, id uuid.UUID, status domain.GeocodingStatus) error

	// UpdateGeocodingResult записывает детали геокодирования вместе с терминальным статусом
	UpdateGeocodingResult(ctx context.Context, id uuid.UUID, details domain.GeocodingDetails, status domain.GeocodingStatus) error

	// UpdateCoordinates обновляет координаты фотографии, сбрасывает прежние
	// детали геокодирования и помечает фото как pending
	UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error

	// CountByGeocodingStatus возвращает количество фотографий в каждом статусе
	CountByGeocodingStatus(ctx context.Context) (map[domain.GeocodingStatus]int, error)

	// ListCompletedSamples возвращает несколько завершённых фотографий для статусного эндпоинта
	ListCompletedSamples(ctx context.Context, limit int) ([]*domain.Photo, error)
}

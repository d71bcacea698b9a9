package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/photomap-service/internal/domain"
)

// ProcessResult - итог одного батча геокодирования
type ProcessResult struct {
	TotalFound     int `json:"total_found"`
	TotalProcessed int `json:"total_processed"`
	TotalErrors    int `json:"total_errors"`
}

// StatusSummary - сводка по статусам геокодирования
type StatusSummary struct {
	Counts  map[domain.GeocodingStatus]int `json:"counts"`
	Pending int                            `json:"pending"`
	Samples []PhotoSample                  `json:"samples"`
}

// PhotoSample - краткое представление обработанной фотографии
type PhotoSample struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Status      string     `json:"status"`
	GeocodedAt  *time.Time `json:"geocoded_at,omitempty"`
}

// CountryResponse - страна в ответе API
type CountryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RegionResponse - регион в ответе API
type RegionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CountryID uuid.UUID `json:"country_id"`
}

// CountyResponse - провинция в ответе API
type CountyResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	RegionID uuid.UUID `json:"region_id"`
}

// CityResponse - город в ответе API
type CityResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	CountyID uuid.UUID `json:"county_id"`
}

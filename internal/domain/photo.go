package domain

import (
	"time"

	"github.com/google/uuid"
)

// GeocodingStatus - статус геокодирования фотографии
type GeocodingStatus string

const (
	GeocodingStatusNotApplicable       GeocodingStatus = "not_applicable"
	GeocodingStatusPending             GeocodingStatus = "pending"
	GeocodingStatusProcessing          GeocodingStatus = "processing"
	GeocodingStatusCompleted           GeocodingStatus = "completed"
	GeocodingStatusCompletedWithErrors GeocodingStatus = "completed_with_errors"
	GeocodingStatusFailed              GeocodingStatus = "failed"
)

// IsTerminal проверяет, является ли статус терминальным.
// Из терминального статуса фото выводится только принудительным перезапуском (force=true).
func (s GeocodingStatus) IsTerminal() bool {
	switch s {
	case GeocodingStatusCompleted, GeocodingStatusCompletedWithErrors, GeocodingStatusFailed:
		return true
	}
	return false
}

// GeocodingDetails - результат геокодирования, сохраняемый на фотографии.
// Ненулевой ID нижнего уровня всегда подразумевает разрешённую цепочку предков.
type GeocodingDetails struct {
	DisplayName    string     `json:"display_name" db:"display_name"`
	CountryID      *uuid.UUID `json:"country_id" db:"country_id"`
	RegionID       *uuid.UUID `json:"region_id" db:"region_id"`
	CountyID       *uuid.UUID `json:"county_id" db:"county_id"`
	CityID         *uuid.UUID `json:"city_id" db:"city_id"`
	GeocodingError string     `json:"geocoding_error,omitempty" db:"geocoding_error"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Photo - срез фотографии, с которым работает пайплайн геокодирования.
// Остальные поля фотографии (файлы, метки, EXIF) принадлежат внешнему сервису.
type Photo struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	OwnerID             uuid.UUID        `json:"owner_id" db:"owner_id"`
	Title               string           `json:"title" db:"title"`
	Latitude            *float64         `json:"latitude,omitempty" db:"latitude"`
	Longitude           *float64         `json:"longitude,omitempty" db:"longitude"`
	HasValidCoordinates bool             `json:"has_valid_coordinates" db:"has_valid_coordinates"`
	GeocodingStatus     GeocodingStatus  `json:"geocoding_status" db:"geocoding_status"`
	GeocodingDetails    GeocodingDetails `json:"geocoding_details" db:"geocoding_details"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at" db:"updated_at"`
}

// Coordinates возвращает координаты фотографии, если они заданы и ненулевые
func (p *Photo) Coordinates() (lat, lon float64, ok bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return 0, 0, false
	}
	if *p.Latitude == 0 && *p.Longitude == 0 {
		return 0, 0, false
	}
	return *p.Latitude, *p.Longitude, true
}

// GeocodingFilter - критерии выборки фотографий для батча геокодирования
type GeocodingFilter struct {
	Limit   int
	Force   bool
	OwnerID *uuid.UUID
	Status  *GeocodingStatus
}

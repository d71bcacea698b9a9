package dto

import "github.com/google/uuid"

// ProcessRequest - параметры запуска батча геокодирования
type ProcessRequest struct {
	Limit   int        `json:"limit" validate:"omitempty,min=1,max=500"`
	Force   bool       `json:"force"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	Status  *string    `json:"status,omitempty" validate:"omitempty,geocoding_status"`
}

// UpdateLocationRequest - обновление координат фотографии
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

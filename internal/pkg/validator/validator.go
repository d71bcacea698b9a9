package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/photomap-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Кастомный тег для статусов геокодирования в DTO
	_ = validate.RegisterValidation("geocoding_status", func(fl validator.FieldLevel) bool {
		switch domain.GeocodingStatus(fl.Field().String()) {
		case domain.GeocodingStatusNotApplicable,
			domain.GeocodingStatusPending,
			domain.GeocodingStatusProcessing,
			domain.GeocodingStatusCompleted,
			domain.GeocodingStatusCompletedWithErrors,
			domain.GeocodingStatusFailed:
			return true
		}
		return false
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/photomap-service/internal/domain"
)

// PlaceRepository определяет find-or-create и выборки для иерархии мест.
//
// Все FindOrCreate* идемпотентны при конкурентных вызовах с одинаковым
// натуральным ключом: гонка на уникальном индексе разрешается атомарным
// upsert, оба вызова возвращают одну и ту же строку. Пустое название,
// отсутствующий владелец или родитель - ошибка, сущность не создаётся.
type PlaceRepository interface {
	// FindOrCreateCountry возвращает страну (name, ownerID), создавая при отсутствии
	FindOrCreateCountry(ctx context.Context, name string, ownerID uuid.UUID) (*domain.Country, error)

	// FindOrCreateRegion возвращает регион (name, countryID), создавая при отсутствии
	FindOrCreateRegion(ctx context.Context, name string, countryID, ownerID uuid.UUID) (*domain.Region, error)

	// FindOrCreateCounty возвращает провинцию (name, regionID), создавая при отсутствии
	FindOrCreateCounty(ctx context.Context, name string, regionID, countryID, ownerID uuid.UUID) (*domain.County, error)

	// FindOrCreateCity возвращает город (name, countyID), создавая при отсутствии
	FindOrCreateCity(ctx context.Context, name string, countyID, regionID, countryID, ownerID uuid.UUID) (*domain.City, error)

	// ListCountries возвращает страны пользователя, отсортированные по названию
	ListCountries(ctx context.Context, ownerID uuid.UUID) ([]*domain.Country, error)

	// ListRegions возвращает регионы пользователя, опционально внутри страны
	ListRegions(ctx context.Context, ownerID uuid.UUID, countryID *uuid.UUID) ([]*domain.Region, error)

	// ListCounties возвращает провинции пользователя, опционально внутри региона
	ListCounties(ctx context.Context, ownerID uuid.UUID, regionID *uuid.UUID) ([]*domain.County, error)

	// ListCities возвращает города пользователя, опционально внутри провинции
	ListCities(ctx context.Context, ownerID uuid.UUID, countyID *uuid.UUID) ([]*domain.City, error)
}

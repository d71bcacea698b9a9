package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/photomap-service/internal/domain/repository"
	"github.com/photomap-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// PlaceUseCase отдает иерархию мест пользователя для навигации по карте
type PlaceUseCase struct {
	placeRepo repository.PlaceRepository
	logger    *zap.Logger
}

// NewPlaceUseCase создает новый экземпляр PlaceUseCase
func NewPlaceUseCase(placeRepo repository.PlaceRepository, logger *zap.Logger) *PlaceUseCase {
	return &PlaceUseCase{
		placeRepo: placeRepo,
		logger:    logger,
	}
}

// ListCountries возвращает страны пользователя
func (uc *PlaceUseCase) ListCountries(ctx context.Context, ownerID uuid.UUID) ([]dto.CountryResponse, error) {
	countries, err := uc.placeRepo.ListCountries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	result := make([]dto.CountryResponse, 0, len(countries))
	for _, c := range countries {
		result = append(result, dto.CountryResponse{ID: c.ID, Name: c.Name})
	}
	return result, nil
}

// ListRegions возвращает регионы пользователя, опционально внутри страны
func (uc *PlaceUseCase) ListRegions(ctx context.Context, ownerID uuid.UUID, countryID *uuid.UUID) ([]dto.RegionResponse, error) {
	regions, err := uc.placeRepo.ListRegions(ctx, ownerID, countryID)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	result := make([]dto.RegionResponse, 0, len(regions))
	for _, r := range regions {
		result = append(result, dto.RegionResponse{ID: r.ID, Name: r.Name, CountryID: r.CountryID})
	}
	return result, nil
}

// ListCounties возвращает провинции пользователя, опционально внутри региона
func (uc *PlaceUseCase) ListCounties(ctx context.Context, ownerID uuid.UUID, regionID *uuid.UUID) ([]dto.CountyResponse, error) {
	counties, err := uc.placeRepo.ListCounties(ctx, ownerID, regionID)
	if err != nil {
		return nil, fmt.Errorf("list counties: %w", err)
	}

	result := make([]dto.CountyResponse, 0, len(counties))
	for _, c := range counties {
		result = append(result, dto.CountyResponse{ID: c.ID, Name: c.Name, RegionID: c.RegionID})
	}
	return result, nil
}

// ListCities возвращает города пользователя, опционально внутри провинции
func (uc *PlaceUseCase) ListCities(ctx context.Context, ownerID uuid.UUID, countyID *uuid.UUID) ([]dto.CityResponse, error) {
	cities, err := uc.placeRepo.ListCities(ctx, ownerID, countyID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	result := make([]dto.CityResponse, 0, len(cities))
	for _, c := range cities {
		result = append(result, dto.CityResponse{ID: c.ID, Name: c.Name, CountyID: c.CountyID})
	}
	return result, nil
}

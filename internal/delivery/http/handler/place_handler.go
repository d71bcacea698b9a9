package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	apperrors "github.com/photomap-service/internal/pkg/errors"
	"github.com/photomap-service/internal/pkg/utils"
	"github.com/photomap-service/internal/usecase"
	"go.uber.org/zap"
)

// ownerHeader - заголовок, которым gateway передает ID текущего пользователя
const ownerHeader = "X-Owner-ID"

// PlaceHandler обрабатывает запросы к иерархии мест
type PlaceHandler struct {
	placeUC *usecase.PlaceUseCase
	logger  *zap.Logger
}

// NewPlaceHandler создает новый экземпляр PlaceHandler
func NewPlaceHandler(placeUC *usecase.PlaceUseCase, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{
		placeUC: placeUC,
		logger:  logger,
	}
}

// GetCountries godoc
// @Summary List countries
// @Description Возвращает страны пользователя, отсортированные по названию
// @Tags Places
// @Produce json
// @Param X-Owner-ID header string true "ID владельца"
// @Success 200 {array} dto.CountryResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/countries [get]
func (h *PlaceHandler) GetCountries(c *fiber.Ctx) error {
	ownerID, err := parseOwner(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	countries, err := h.placeUC.ListCountries(c.Context(), ownerID)
	if err != nil {
		h.logger.Error("Failed to list countries", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, countries, &utils.Meta{Total: len(countries)})
}

// GetRegions godoc
// @Summary List regions
// @Description Возвращает регионы пользователя, опционально внутри страны
// @Tags Places
// @Produce json
// @Param X-Owner-ID header string true "ID владельца"
// @Param country_id query string false "Фильтр по стране"
// @Success 200 {array} dto.RegionResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/regions [get]
func (h *PlaceHandler) GetRegions(c *fiber.Ctx) error {
	ownerID, err := parseOwner(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	countryID, err := parseOptionalUUID(c, "country_id")
	if err != nil {
		return utils.SendError(c, err)
	}

	regions, err := h.placeUC.ListRegions(c.Context(), ownerID, countryID)
	if err != nil {
		h.logger.Error("Failed to list regions", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, regions, &utils.Meta{Total: len(regions)})
}

// GetCounties godoc
// @Summary List counties
// @Description Возвращает провинции пользователя, опционально внутри региона
// @Tags Places
// @Produce json
// @Param X-Owner-ID header string true "ID владельца"
// @Param region_id query string false "Фильтр по региону"
// @Success 200 {array} dto.CountyResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/counties [get]
func (h *PlaceHandler) GetCounties(c *fiber.Ctx) error {
	ownerID, err := parseOwner(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	regionID, err := parseOptionalUUID(c, "region_id")
	if err != nil {
		return utils.SendError(c, err)
	}

	counties, err := h.placeUC.ListCounties(c.Context(), ownerID, regionID)
	if err != nil {
		h.logger.Error("Failed to list counties", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, counties, &utils.Meta{Total: len(counties)})
}

// GetCities godoc
// @Summary List cities
// @Description Возвращает города пользователя, опционально внутри провинции
// @Tags Places
// @Produce json
// @Param X-Owner-ID header string true "ID владельца"
// @Param county_id query string false "Фильтр по провинции"
// @Success 200 {array} dto.CityResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/cities [get]
func (h *PlaceHandler) GetCities(c *fiber.Ctx) error {
	ownerID, err := parseOwner(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	countyID, err := parseOptionalUUID(c, "county_id")
	if err != nil {
		return utils.SendError(c, err)
	}

	cities, err := h.placeUC.ListCities(c.Context(), ownerID, countyID)
	if err != nil {
		h.logger.Error("Failed to list cities", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, cities, &utils.Meta{Total: len(cities)})
}

func parseOwner(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Get(ownerHeader)
	if raw == "" {
		return uuid.Nil, apperrors.ErrInvalidOwnerID
	}

	ownerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidOwnerID
	}

	return ownerID, nil
}

func parseOptionalUUID(c *fiber.Ctx, param string) (*uuid.UUID, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidRequest
	}

	return &id, nil
}

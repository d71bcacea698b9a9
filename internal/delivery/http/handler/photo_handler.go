package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	apperrors "github.com/photomap-service/internal/pkg/errors"
	"github.com/photomap-service/internal/pkg/utils"
	"github.com/photomap-service/internal/pkg/validator"
	"github.com/photomap-service/internal/usecase"
	"github.com/photomap-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// PhotoHandler обрабатывает запросы к локациям фотографий
type PhotoHandler struct {
	geocodingUC *usecase.GeocodingUseCase
	logger      *zap.Logger
}

// NewPhotoHandler создает новый экземпляр PhotoHandler
func NewPhotoHandler(geocodingUC *usecase.GeocodingUseCase, logger *zap.Logger) *PhotoHandler {
	return &PhotoHandler{
		geocodingUC: geocodingUC,
		logger:      logger,
	}
}

// UpdateLocation godoc
// @Summary Update photo location
// @Description Обновляет координаты фотографии и ставит её в очередь на геокодирование
// @Tags Photos
// @Accept json
// @Produce json
// @Param id path string true "ID фотографии"
// @Param request body dto.UpdateLocationRequest true "Новые координаты"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/photos/{id}/location [patch]
func (h *PhotoHandler) UpdateLocation(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidPhotoID)
	}

	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("Failed to parse location update", zap.Error(err))
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	if err := h.geocodingUC.UpdatePhotoLocation(c.Context(), photoID, req.Latitude, req.Longitude); err != nil {
		h.logger.Error("Failed to update photo location",
			zap.String("photo_id", photoID.String()),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":          "location updated, geocoding scheduled",
		"photo_id":         photoID,
		"geocoding_status": "pending",
	})
}

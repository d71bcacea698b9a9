package handler

import (
	"context"
	"errors"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	apperrors "github.com/photomap-service/internal/pkg/errors"
	"github.com/photomap-service/internal/pkg/utils"
	"github.com/photomap-service/internal/pkg/validator"
	"github.com/photomap-service/internal/usecase"
	"github.com/photomap-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const processRunTimeout = 10 * time.Minute

// GeocodingHandler обрабатывает административные запросы пайплайна геокодирования
type GeocodingHandler struct {
	geocodingUC *usecase.GeocodingUseCase
	logger      *zap.Logger
}

// NewGeocodingHandler создает новый экземпляр GeocodingHandler
func NewGeocodingHandler(geocodingUC *usecase.GeocodingUseCase, logger *zap.Logger) *GeocodingHandler {
	return &GeocodingHandler{
		geocodingUC: geocodingUC,
		logger:      logger,
	}
}

// Process godoc
// @Summary Trigger geocoding batch
// @Description Запускает батч обратного геокодирования для фотографий в очереди
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param request body dto.ProcessRequest false "Параметры батча"
// @Success 202 {object} map[string]interface{} "Батч принят в обработку"
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/geocoding/process [post]
func (h *GeocodingHandler) Process(c *fiber.Ctx) error {
	var req dto.ProcessRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			h.logger.Warn("Failed to parse process request", zap.Error(err))
			return utils.SendError(c, apperrors.ErrInvalidRequest)
		}
	}

	if err := validator.Validate(&req); err != nil {
		h.logger.Warn("Invalid process request", zap.Error(err))
		return utils.SendError(c, processValidationError(err))
	}

	h.logger.Info("Geocoding batch triggered via API",
		zap.Int("limit", req.Limit),
		zap.Bool("force", req.Force))

	// Обработка идёт в фоне: клиент получает подтверждение сразу
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processRunTimeout)
		defer cancel()

		result, err := h.geocodingUC.ProcessPendingPhotos(ctx, req)
		if err != nil {
			h.logger.Error("Triggered geocoding batch failed", zap.Error(err))
			return
		}

		h.logger.Info("Triggered geocoding batch finished",
			zap.Int("found", result.TotalFound),
			zap.Int("processed", result.TotalProcessed),
			zap.Int("errors", result.TotalErrors))
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "geocoding batch started",
		"force":   req.Force,
	})
}

// GetStatus godoc
// @Summary Geocoding pipeline status
// @Description Возвращает количество фотографий в каждом статусе и последние обработанные
// @Tags Geocoding
// @Produce json
// @Success 200 {object} dto.StatusSummary
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/geocoding/status [get]
func (h *GeocodingHandler) GetStatus(c *fiber.Ctx) error {
	summary, err := h.geocodingUC.GetStatus(c.Context())
	if err != nil {
		h.logger.Error("Failed to get geocoding status", zap.Error(err))
		return utils.SendError(c, apperrors.ErrDatabaseError)
	}

	return utils.SendSuccess(c, summary, nil)
}

// processValidationError подбирает код ошибки по упавшему тегу валидации
func processValidationError(err error) error {
	var fieldErrs govalidator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "geocoding_status" {
				return apperrors.ErrInvalidGeocodingStatus
			}
		}
	}
	return apperrors.ErrInvalidRequest
}

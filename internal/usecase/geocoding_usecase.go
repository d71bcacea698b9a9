package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/photomap-service/internal/config"
	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/domain/repository"
	"github.com/photomap-service/internal/observability"
	apperrors "github.com/photomap-service/internal/pkg/errors"
	"github.com/photomap-service/internal/pkg/utils"
	"github.com/photomap-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	defaultBatchLimit  = 100
	statusSampleLimit  = 5  // фотографий в выдаче статусного эндпоинта
	scheduleRunTimeout = 2 * time.Minute
)

// GeocodingUseCase - оркестратор обратного геокодирования фотографий.
// Батч обрабатывается строго последовательно: внешний провайдер не любит
// параллельные запросы, а ошибка одной фотографии не должна ронять остальные.
type GeocodingUseCase struct {
	photoRepo repository.PhotoRepository
	placeRepo repository.PlaceRepository
	geocoder  repository.GeocoderRepository
	cacheRepo repository.CacheRepository
	metrics   *observability.Metrics
	clock     clockwork.Clock
	logger    *zap.Logger

	maxRetries     int
	retryDelay     time.Duration
	attemptTimeout time.Duration
	scheduleLag    time.Duration
	batchSize      int
	cacheTTL       time.Duration
}

// NewGeocodingUseCase создает новый экземпляр GeocodingUseCase
func NewGeocodingUseCase(
	photoRepo repository.PhotoRepository,
	placeRepo repository.PlaceRepository,
	geocoder repository.GeocoderRepository,
	cacheRepo repository.CacheRepository,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	cfg *config.Config,
	logger *zap.Logger,
) *GeocodingUseCase {
	batchSize := cfg.Worker.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchLimit
	}

	// Ноль попыток означал бы "успех" без обращения к провайдеру
	maxRetries := cfg.Worker.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &GeocodingUseCase{
		photoRepo:      photoRepo,
		placeRepo:      placeRepo,
		geocoder:       geocoder,
		cacheRepo:      cacheRepo,
		metrics:        metrics,
		clock:          clock,
		logger:         logger,
		maxRetries:     maxRetries,
		retryDelay:     cfg.Worker.RetryDelay,
		attemptTimeout: cfg.Nominatim.RequestTimeout,
		scheduleLag:    cfg.Worker.ScheduleLag,
		batchSize:      batchSize,
		cacheTTL:       cfg.Cache.GeocodeCacheTTL,
	}
}

// ProcessPendingPhotos обрабатывает очередной батч фотографий, ожидающих геокодирования.
//
// Ошибки отдельных фотографий учитываются в счётчиках и не прерывают батч.
// Ошибка выборки батча логируется и возвращает нулевой результат без ошибки:
// планировщик продолжит работу на следующем тике.
func (uc *GeocodingUseCase) ProcessPendingPhotos(ctx context.Context, req dto.ProcessRequest) (*dto.ProcessResult, error) {
	filter := domain.GeocodingFilter{
		Limit:   req.Limit,
		Force:   req.Force,
		OwnerID: req.OwnerID,
	}
	if filter.Limit <= 0 {
		filter.Limit = uc.batchSize
	}
	if req.Status != nil {
		status := domain.GeocodingStatus(*req.Status)
		filter.Status = &status
	}

	start := uc.clock.Now()

	// 1. Выбираем кандидатов
	photos, err := uc.photoRepo.SelectForGeocoding(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to select photos for geocoding", zap.Error(err))
		return &dto.ProcessResult{}, nil
	}

	uc.metrics.BatchSize.Observe(float64(len(photos)))

	if len(photos) == 0 {
		uc.logger.Debug("No photos pending geocoding")
		return &dto.ProcessResult{}, nil
	}

	uc.logger.Info("Starting geocoding batch",
		zap.Int("photos", len(photos)),
		zap.Bool("force", filter.Force))

	result := &dto.ProcessResult{TotalFound: len(photos)}

	// 2. Обрабатываем последовательно
	for _, photo := range photos {
		if ctx.Err() != nil {
			uc.logger.Warn("Geocoding batch interrupted", zap.Error(ctx.Err()))
			break
		}

		ok, err := uc.processPhotoSafe(ctx, photo)
		if err != nil {
			result.TotalErrors++
			uc.metrics.PhotosFailed.Inc()
			uc.logger.Error("Failed to geocode photo",
				zap.String("photo_id", photo.ID.String()),
				zap.Error(err))

			// Лучшее из возможного: фиксируем failed, чтобы фото не зацикливалось
			if updErr := uc.photoRepo.UpdateGeocodingResult(ctx, photo.ID, domain.GeocodingDetails{
				GeocodingError: err.Error(),
			}, domain.GeocodingStatusFailed); updErr != nil {
				uc.logger.Error("Failed to mark photo as failed",
					zap.String("photo_id", photo.ID.String()),
					zap.Error(updErr))
			}
			continue
		}

		if !ok {
			// Терминальный статус уже записан внутри processPhoto
			result.TotalErrors++
			uc.metrics.PhotosFailed.Inc()
			continue
		}

		result.TotalProcessed++
	}

	uc.metrics.BatchProcessingDuration.Observe(uc.clock.Since(start).Seconds())

	uc.logger.Info("Geocoding batch finished",
		zap.Int("found", result.TotalFound),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("errors", result.TotalErrors))

	return result, nil
}

// ProcessPhoto геокодирует одну фотографию по ID
func (uc *GeocodingUseCase) ProcessPhoto(ctx context.Context, photoID uuid.UUID) error {
	photo, err := uc.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("get photo %s: %w", photoID, err)
	}
	if photo == nil {
		return apperrors.ErrPhotoNotFound
	}

	// Отложенный запуск мог проиграть гонку фоновому батчу
	if photo.GeocodingStatus.IsTerminal() {
		uc.logger.Debug("Photo already in terminal geocoding status, skipping",
			zap.String("photo_id", photo.ID.String()),
			zap.String("status", string(photo.GeocodingStatus)))
		return nil
	}

	_, err = uc.processPhotoSafe(ctx, photo)
	return err
}

// ScheduleProcessPhoto запускает геокодирование одной фотографии с небольшой
// задержкой, чтобы транзакция записи координат успела закоммититься
func (uc *GeocodingUseCase) ScheduleProcessPhoto(photoID uuid.UUID) {
	go func() {
		<-uc.clock.After(uc.scheduleLag)

		ctx, cancel := context.WithTimeout(context.Background(), scheduleRunTimeout)
		defer cancel()

		if err := uc.ProcessPhoto(ctx, photoID); err != nil {
			uc.logger.Error("Scheduled geocoding failed",
				zap.String("photo_id", photoID.String()),
				zap.Error(err))
		}
	}()
}

// UpdatePhotoLocation обновляет координаты фотографии и ставит её в очередь
// на повторное геокодирование
func (uc *GeocodingUseCase) UpdatePhotoLocation(ctx context.Context, photoID uuid.UUID, lat, lon float64) error {
	// (0, 0) отклоняется наравне с выходом за диапазон: экватор у нулевого
	// меридиана на практике означает отсутствие координат
	if !utils.HasUsableCoordinates(lat, lon) {
		return apperrors.ErrInvalidCoordinates
	}

	photo, err := uc.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("get photo %s: %w", photoID, err)
	}
	if photo == nil {
		return apperrors.ErrPhotoNotFound
	}

	if err := uc.photoRepo.UpdateCoordinates(ctx, photoID, lat, lon); err != nil {
		return fmt.Errorf("update coordinates for photo %s: %w", photoID, err)
	}

	uc.logger.Info("Photo coordinates updated, geocoding scheduled",
		zap.String("photo_id", photoID.String()),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon))

	uc.ScheduleProcessPhoto(photoID)
	return nil
}

// GetStatus возвращает сводку по статусам геокодирования и несколько
// последних обработанных фотографий
func (uc *GeocodingUseCase) GetStatus(ctx context.Context) (*dto.StatusSummary, error) {
	counts, err := uc.photoRepo.CountByGeocodingStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count photos by status: %w", err)
	}

	samples, err := uc.photoRepo.ListCompletedSamples(ctx, statusSampleLimit)
	if err != nil {
		return nil, fmt.Errorf("list completed samples: %w", err)
	}

	summary := &dto.StatusSummary{
		Counts:  counts,
		Pending: counts[domain.GeocodingStatusPending],
		Samples: make([]dto.PhotoSample, 0, len(samples)),
	}

	for _, photo := range samples {
		summary.Samples = append(summary.Samples, dto.PhotoSample{
			ID:          photo.ID,
			Title:       photo.Title,
			DisplayName: photo.GeocodingDetails.DisplayName,
			Status:      string(photo.GeocodingStatus),
			GeocodedAt:  photo.GeocodingDetails.UpdatedAt,
		})
	}

	return summary, nil
}

// processPhotoSafe оборачивает processPhoto барьером от паник: паника при
// обработке одной фотографии превращается в её ошибку, батч продолжается
func (uc *GeocodingUseCase) processPhotoSafe(ctx context.Context, photo *domain.Photo) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("panic while geocoding photo: %v", r)
		}
	}()

	return uc.processPhoto(ctx, photo)
}

// processPhoto выполняет полный цикл геокодирования одной фотографии:
// processing -> провайдер (с кешем и повторами) -> иерархия мест -> терминальный статус.
// Возвращает ok=false, когда терминальный статус уже записан, но результат
// неполный (исчерпаны повторы или не сохранилась часть иерархии).
func (uc *GeocodingUseCase) processPhoto(ctx context.Context, photo *domain.Photo) (bool, error) {
	lat, lon, ok := photo.Coordinates()
	if !ok {
		// Выборка такие не возвращает, но одиночный путь может
		if err := uc.photoRepo.UpdateGeocodingStatus(ctx, photo.ID, domain.GeocodingStatusNotApplicable); err != nil {
			return false, err
		}
		return true, nil
	}

	// 1. Помечаем как обрабатываемую до обращения к провайдеру
	if err := uc.photoRepo.UpdateGeocodingStatus(ctx, photo.ID, domain.GeocodingStatusProcessing); err != nil {
		return false, fmt.Errorf("mark photo processing: %w", err)
	}

	// 2. Получаем нормализованную локацию: кеш, затем провайдер с повторами
	geocode := uc.resolveLocation(ctx, lat, lon)
	if geocode.Err != nil {
		details := domain.GeocodingDetails{
			DisplayName:    geocode.DisplayName,
			GeocodingError: geocode.Err.Error(),
		}
		if details.DisplayName == "" {
			details.DisplayName = domain.FormatCoordinates(lat, lon)
		}

		if err := uc.photoRepo.UpdateGeocodingResult(ctx, photo.ID, details, domain.GeocodingStatusCompletedWithErrors); err != nil {
			return false, fmt.Errorf("record geocoding failure: %w", err)
		}

		uc.logger.Warn("Geocoding exhausted retries",
			zap.String("photo_id", photo.ID.String()),
			zap.String("code", geocode.Err.Code))
		return false, nil
	}

	loc := geocode.Location

	// 3. Разрешаем иерархию мест сверху вниз, деградируя по уровням
	details, hadPlaceErr := uc.resolvePlaces(ctx, photo.OwnerID, loc)
	details.DisplayName = loc.DisplayName

	status := domain.GeocodingStatusCompleted
	if hadPlaceErr {
		status = domain.GeocodingStatusCompletedWithErrors
		details.GeocodingError = "failed to persist part of the place hierarchy"
	}

	if err := uc.photoRepo.UpdateGeocodingResult(ctx, photo.ID, details, status); err != nil {
		return false, fmt.Errorf("record geocoding result: %w", err)
	}

	uc.metrics.PhotosProcessed.Inc()
	uc.logger.Debug("Photo geocoded",
		zap.String("photo_id", photo.ID.String()),
		zap.String("display_name", details.DisplayName),
		zap.String("status", string(status)))

	return !hadPlaceErr, nil
}

// resolveLocation возвращает нормализованную локацию для координат,
// сначала из кеша, затем от провайдера
func (uc *GeocodingUseCase) resolveLocation(ctx context.Context, lat, lon float64) *domain.GeocodeResult {
	cached, err := uc.cacheRepo.GetGeocodeResult(ctx, lat, lon)
	if err != nil {
		uc.logger.Warn("Failed to read geocode cache", zap.Error(err))
	}
	if cached != nil {
		uc.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return &domain.GeocodeResult{Location: cached, DisplayName: cached.DisplayName}
	}
	uc.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result := uc.geocodeWithRetry(ctx, lat, lon)

	if result.Err == nil && result.Location != nil {
		if err := uc.cacheRepo.SetGeocodeResult(ctx, lat, lon, result.Location, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache geocode result", zap.Error(err))
			// Не возвращаем ошибку, т.к. данные уже получены
		}
	}

	return result
}

// geocodeWithRetry опрашивает провайдера с ограниченным числом попыток.
// Исчерпание попыток не ошибка вызова: возвращается результат с заполненным Err.
func (uc *GeocodingUseCase) geocodeWithRetry(ctx context.Context, lat, lon float64) *domain.GeocodeResult {
	var lastErr *domain.ProviderError

	for attempt := 1; attempt <= uc.maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, uc.attemptTimeout)
		start := uc.clock.Now()
		resp, err := uc.geocoder.ReverseGeocode(attemptCtx, lat, lon)
		cancel()

		uc.metrics.GeocodeAPIDuration.Observe(uc.clock.Since(start).Seconds())

		if err == nil {
			uc.metrics.GeocodeRequests.WithLabelValues("success").Inc()
			loc := domain.NormalizeReverseResponse(resp, lat, lon)
			return &domain.GeocodeResult{Location: &loc, DisplayName: loc.DisplayName}
		}

		uc.metrics.GeocodeRequests.WithLabelValues("error").Inc()

		var provErr *domain.ProviderError
		if !errors.As(err, &provErr) {
			provErr = domain.NewProviderError(domain.ProviderCodeUnknown, err.Error())
		}
		lastErr = provErr

		uc.logger.Warn("Reverse geocoding attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", uc.maxRetries),
			zap.String("code", provErr.Code),
			zap.String("message", provErr.Message))

		if attempt < uc.maxRetries {
			uc.metrics.GeocodeRetries.Inc()
			select {
			case <-uc.clock.After(uc.retryDelay):
			case <-ctx.Done():
				return &domain.GeocodeResult{Err: lastErr}
			}
		}
	}

	return &domain.GeocodeResult{Err: lastErr}
}

// resolvePlaces материализует иерархию мест для локации. Уровень со значением
// UnknownPlace пропускается вместе со всеми нижележащими: запись "Unknown"
// в справочник только замусорила бы его. Ошибка на уровне логируется,
// нижние уровни не создаются, уже разрешённые ID сохраняются.
func (uc *GeocodingUseCase) resolvePlaces(ctx context.Context, ownerID uuid.UUID, loc *domain.NormalizedLocation) (domain.GeocodingDetails, bool) {
	var details domain.GeocodingDetails

	if loc.CountryName == domain.UnknownPlace {
		return details, false
	}

	country, err := uc.placeRepo.FindOrCreateCountry(ctx, loc.CountryName, ownerID)
	if err != nil {
		uc.logger.Error("Failed to upsert country",
			zap.String("name", loc.CountryName),
			zap.Error(err))
		return details, true
	}
	details.CountryID = &country.ID
	uc.metrics.PlacesCreated.WithLabelValues("country").Inc()

	if loc.RegionName == domain.UnknownPlace {
		return details, false
	}

	region, err := uc.placeRepo.FindOrCreateRegion(ctx, loc.RegionName, country.ID, ownerID)
	if err != nil {
		uc.logger.Error("Failed to upsert region",
			zap.String("name", loc.RegionName),
			zap.Error(err))
		return details, true
	}
	details.RegionID = &region.ID
	uc.metrics.PlacesCreated.WithLabelValues("region").Inc()

	if loc.CountyName == domain.UnknownPlace {
		return details, false
	}

	county, err := uc.placeRepo.FindOrCreateCounty(ctx, loc.CountyName, region.ID, country.ID, ownerID)
	if err != nil {
		uc.logger.Error("Failed to upsert county",
			zap.String("name", loc.CountyName),
			zap.Error(err))
		return details, true
	}
	details.CountyID = &county.ID
	uc.metrics.PlacesCreated.WithLabelValues("county").Inc()

	if loc.CityName == domain.UnknownPlace {
		return details, false
	}

	city, err := uc.placeRepo.FindOrCreateCity(ctx, loc.CityName, county.ID, region.ID, country.ID, ownerID)
	if err != nil {
		uc.logger.Error("Failed to upsert city",
			zap.String("name", loc.CityName),
			zap.Error(err))
		return details, true
	}
	details.CityID = &city.ID
	uc.metrics.PlacesCreated.WithLabelValues("city").Inc()

	return details, false
}

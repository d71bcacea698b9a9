package geocoding

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/photomap-service/internal/config"
	"github.com/photomap-service/internal/observability"
	"github.com/photomap-service/internal/usecase"
	"github.com/photomap-service/internal/usecase/dto"
	"github.com/photomap-service/internal/worker"
	"go.uber.org/zap"
)

// GeocodingWorker периодически запускает батч геокодирования.
// Ошибки батча логируются и не останавливают планировщик: следующий тик
// начинается независимо от исхода предыдущего.
type GeocodingWorker struct {
	*worker.BaseWorker
	geocodingUC *usecase.GeocodingUseCase
	metrics     *observability.Metrics
	clock       clockwork.Clock
	cfg         config.WorkerConfig
}

// NewGeocodingWorker создает новый GeocodingWorker
func NewGeocodingWorker(
	geocodingUC *usecase.GeocodingUseCase,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	cfg config.WorkerConfig,
	logger *zap.Logger,
) *GeocodingWorker {
	return &GeocodingWorker{
		BaseWorker:  worker.NewBaseWorker("geocoding", logger),
		geocodingUC: geocodingUC,
		metrics:     metrics,
		clock:       clock,
		cfg:         cfg,
	}
}

// Start запускает воркер
func (w *GeocodingWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting GeocodingWorker",
		zap.Duration("interval", w.cfg.Interval),
		zap.Int("batch_size", w.cfg.BatchSize))

	w.metrics.WorkerRunning.Set(1)
	defer w.metrics.WorkerRunning.Set(0)

	ticker := w.clock.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// Первый батч сразу, не дожидаясь первого тика
	w.runBatch(ctx)

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.Chan():
			w.runBatch(ctx)
		}
	}
}

// runBatch запускает один цикл обработки, проглатывая любые ошибки
func (w *GeocodingWorker) runBatch(ctx context.Context) {
	logger := w.Logger()

	result, err := w.geocodingUC.ProcessPendingPhotos(ctx, dto.ProcessRequest{
		Limit: w.cfg.BatchSize,
	})
	if err != nil {
		logger.Error("Geocoding batch failed", zap.Error(err))
		return
	}

	if result.TotalFound > 0 {
		logger.Info("Geocoding batch completed",
			zap.Int("found", result.TotalFound),
			zap.Int("processed", result.TotalProcessed),
			zap.Int("errors", result.TotalErrors))
	}
}

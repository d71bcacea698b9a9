package geocoding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/photomap-service/internal/config"
	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/observability"
	"github.com/photomap-service/internal/usecase"
	"github.com/photomap-service/internal/worker/geocoding"
)

// selectOnlyPhotoRepo - минимальный репозиторий для теста планировщика:
// фиксирует вызовы выборки, остальные методы не используются
type selectOnlyPhotoRepo struct {
	calls chan struct{}
}

func (m *selectOnlyPhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	return nil, nil
}

func (m *selectOnlyPhotoRepo) SelectForGeocoding(ctx context.Context, filter domain.GeocodingFilter) ([]*domain.Photo, error) {
	m.calls <- struct{}{}
	return nil, errors.New("database unavailable")
}

func (m *selectOnlyPhotoRepo) UpdateGeocodingStatus(ctx context.Context, id uuid.UUID, status domain.GeocodingStatus) error {
	return nil
}

func (m *selectOnlyPhotoRepo) UpdateGeocodingResult(ctx context.Context, id uuid.UUID, details domain.GeocodingDetails, status domain.GeocodingStatus) error {
	return nil
}

func (m *selectOnlyPhotoRepo) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	return nil
}

func (m *selectOnlyPhotoRepo) CountByGeocodingStatus(ctx context.Context) (map[domain.GeocodingStatus]int, error) {
	return nil, nil
}

func (m *selectOnlyPhotoRepo) ListCompletedSamples(ctx context.Context, limit int) ([]*domain.Photo, error) {
	return nil, nil
}

func TestGeocodingWorker_SurvivesFailingBatches(t *testing.T) {
	clock := clockwork.NewFakeClock()
	photoRepo := &selectOnlyPhotoRepo{calls: make(chan struct{}, 10)}

	cfg := &config.Config{
		Worker: config.WorkerConfig{
			Interval:   5 * time.Minute,
			BatchSize:  50,
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
		},
		Nominatim: config.NominatimConfig{RequestTimeout: time.Second},
		Cache:     config.CacheConfig{GeocodeCacheTTL: time.Hour},
	}

	uc := usecase.NewGeocodingUseCase(
		photoRepo, nil, nil, nil,
		observability.NewMetricsForTesting(),
		clock, cfg, zap.NewNop(),
	)

	w := geocoding.NewGeocodingWorker(uc, observability.NewMetricsForTesting(), clock, cfg.Worker, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	waitForCall := func() {
		select {
		case <-photoRepo.calls:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for batch run")
		}
	}

	// Первый батч без ожидания тика; ошибка выборки не останавливает воркер
	waitForCall()

	// Каждый следующий тик запускает новый батч несмотря на прошлые ошибки
	clock.BlockUntil(1)
	clock.Advance(cfg.Worker.Interval)
	waitForCall()

	clock.BlockUntil(1)
	clock.Advance(cfg.Worker.Interval)
	waitForCall()

	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

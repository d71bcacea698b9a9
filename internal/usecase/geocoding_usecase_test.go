package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/photomap-service/internal/config"
	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/observability"
	"github.com/photomap-service/internal/usecase"
	"github.com/photomap-service/internal/usecase/dto"
)

// MockPhotoRepository is a mock of PhotoRepository
type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *MockPhotoRepository) SelectForGeocoding(ctx context.Context, filter domain.GeocodingFilter) ([]*domain.Photo, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Photo), args.Error(1)
}

func (m *MockPhotoRepository) UpdateGeocodingStatus(ctx context.Context, id uuid.UUID, status domain.GeocodingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPhotoRepository) UpdateGeocodingResult(ctx context.Context, id uuid.UUID, details domain.GeocodingDetails, status domain.GeocodingStatus) error {
	args := m.Called(ctx, id, details, status)
	return args.Error(0)
}

func (m *MockPhotoRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	args := m.Called(ctx, id, lat, lon)
	return args.Error(0)
}

func (m *MockPhotoRepository) CountByGeocodingStatus(ctx context.Context) (map[domain.GeocodingStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.GeocodingStatus]int), args.Error(1)
}

func (m *MockPhotoRepository) ListCompletedSamples(ctx context.Context, limit int) ([]*domain.Photo, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Photo), args.Error(1)
}

// MockPlaceRepository is a mock of PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) FindOrCreateCountry(ctx context.Context, name string, ownerID uuid.UUID) (*domain.Country, error) {
	args := m.Called(ctx, name, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

func (m *MockPlaceRepository) FindOrCreateRegion(ctx context.Context, name string, countryID, ownerID uuid.UUID) (*domain.Region, error) {
	args := m.Called(ctx, name, countryID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Region), args.Error(1)
}

func (m *MockPlaceRepository) FindOrCreateCounty(ctx context.Context, name string, regionID, countryID, ownerID uuid.UUID) (*domain.County, error) {
	args := m.Called(ctx, name, regionID, countryID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.County), args.Error(1)
}

func (m *MockPlaceRepository) FindOrCreateCity(ctx context.Context, name string, countyID, regionID, countryID, ownerID uuid.UUID) (*domain.City, error) {
	args := m.Called(ctx, name, countyID, regionID, countryID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.City), args.Error(1)
}

func (m *MockPlaceRepository) ListCountries(ctx context.Context, ownerID uuid.UUID) ([]*domain.Country, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Country), args.Error(1)
}

func (m *MockPlaceRepository) ListRegions(ctx context.Context, ownerID uuid.UUID, countryID *uuid.UUID) ([]*domain.Region, error) {
	args := m.Called(ctx, ownerID, countryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Region), args.Error(1)
}

func (m *MockPlaceRepository) ListCounties(ctx context.Context, ownerID uuid.UUID, regionID *uuid.UUID) ([]*domain.County, error) {
	args := m.Called(ctx, ownerID, regionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.County), args.Error(1)
}

func (m *MockPlaceRepository) ListCities(ctx context.Context, ownerID uuid.UUID, countyID *uuid.UUID) ([]*domain.City, error) {
	args := m.Called(ctx, ownerID, countyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.City), args.Error(1)
}

// MockGeocoderRepository is a mock of GeocoderRepository
type MockGeocoderRepository struct {
	mock.Mock
}

func (m *MockGeocoderRepository) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.ReverseGeocodeResponse, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReverseGeocodeResponse), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetGeocodeResult(ctx context.Context, lat, lon float64) (*domain.NormalizedLocation, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NormalizedLocation), args.Error(1)
}

func (m *MockCacheRepository) SetGeocodeResult(ctx context.Context, lat, lon float64, loc *domain.NormalizedLocation, ttl time.Duration) error {
	args := m.Called(ctx, lat, lon, loc, ttl)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{
			BatchSize:   50,
			MaxRetries:  3,
			RetryDelay:  time.Millisecond,
			ScheduleLag: time.Hour, // отложенные запуски не должны срабатывать в тестах
		},
		Nominatim: config.NominatimConfig{
			RequestTimeout: time.Second,
		},
		Cache: config.CacheConfig{
			GeocodeCacheTTL: time.Hour,
		},
	}
}

func newTestUseCase(
	photoRepo *MockPhotoRepository,
	placeRepo *MockPlaceRepository,
	geocoder *MockGeocoderRepository,
	cacheRepo *MockCacheRepository,
) *usecase.GeocodingUseCase {
	return usecase.NewGeocodingUseCase(
		photoRepo,
		placeRepo,
		geocoder,
		cacheRepo,
		observability.NewMetricsForTesting(),
		clockwork.NewRealClock(),
		testConfig(),
		zap.NewNop(),
	)
}

func ptrFloat64(v float64) *float64 { return &v }

func newPendingPhoto(ownerID uuid.UUID, lat, lon float64) *domain.Photo {
	return &domain.Photo{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           "test photo",
		Latitude:        ptrFloat64(lat),
		Longitude:       ptrFloat64(lon),
		GeocodingStatus: domain.GeocodingStatusPending,
	}
}

func santiagoResponse() *domain.ReverseGeocodeResponse {
	return &domain.ReverseGeocodeResponse{
		DisplayName: "Santiago, Provincia de Santiago, Región Metropolitana de Santiago, Chile",
		Address: map[string]string{
			"city":    "Santiago",
			"county":  "Provincia de Santiago",
			"state":   "Región Metropolitana de Santiago",
			"country": "Chile",
		},
	}
}

func TestGeocodingUseCase_ProcessPendingPhotos(t *testing.T) {
	ctx := context.Background()

	t.Run("full success resolves complete hierarchy", func(t *testing.T) {
		ownerID := uuid.New()
		photo := newPendingPhoto(ownerID, -33.45, -70.66)

		countryID := uuid.New()
		regionID := uuid.New()
		countyID := uuid.New()
		cityID := uuid.New()

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).Return([]*domain.Photo{photo}, nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, photo.ID, domain.GeocodingStatusProcessing).Return(nil)
		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(nil, nil)
		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).Return(santiagoResponse(), nil)
		cacheRepo.On("SetGeocodeResult", mock.Anything, -33.45, -70.66, mock.Anything, time.Hour).Return(nil)

		placeRepo.On("FindOrCreateCountry", mock.Anything, "Chile", ownerID).
			Return(&domain.Country{ID: countryID, Name: "Chile", OwnerID: ownerID}, nil)
		placeRepo.On("FindOrCreateRegion", mock.Anything, "Región Metropolitana de Santiago", countryID, ownerID).
			Return(&domain.Region{ID: regionID, CountryID: countryID}, nil)
		placeRepo.On("FindOrCreateCounty", mock.Anything, "Provincia de Santiago", regionID, countryID, ownerID).
			Return(&domain.County{ID: countyID, RegionID: regionID}, nil)
		placeRepo.On("FindOrCreateCity", mock.Anything, "Santiago", countyID, regionID, countryID, ownerID).
			Return(&domain.City{ID: cityID, CountyID: countyID}, nil)

		photoRepo.On("UpdateGeocodingResult", mock.Anything, photo.ID, mock.MatchedBy(func(d domain.GeocodingDetails) bool {
			return d.CountryID != nil && *d.CountryID == countryID &&
				d.RegionID != nil && *d.RegionID == regionID &&
				d.CountyID != nil && *d.CountyID == countyID &&
				d.CityID != nil && *d.CityID == cityID &&
				d.DisplayName != "" && d.GeocodingError == ""
		}), domain.GeocodingStatusCompleted).Return(nil)

		uc := newTestUseCase(photoRepo, placeRepo, geocoder, cacheRepo)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalFound)
		assert.Equal(t, 1, result.TotalProcessed)
		assert.Equal(t, 0, result.TotalErrors)

		photoRepo.AssertExpectations(t)
		placeRepo.AssertExpectations(t)
	})

	t.Run("country-only response completes with only country id", func(t *testing.T) {
		ownerID := uuid.New()
		photo := newPendingPhoto(ownerID, -33.45, -70.66)
		countryID := uuid.New()

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).Return([]*domain.Photo{photo}, nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, photo.ID, domain.GeocodingStatusProcessing).Return(nil)
		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(nil, nil)
		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).
			Return(&domain.ReverseGeocodeResponse{Country: "Chile"}, nil)
		cacheRepo.On("SetGeocodeResult", mock.Anything, -33.45, -70.66, mock.Anything, time.Hour).Return(nil)

		placeRepo.On("FindOrCreateCountry", mock.Anything, "Chile", ownerID).
			Return(&domain.Country{ID: countryID, Name: "Chile", OwnerID: ownerID}, nil)

		// Уровни со значением Unknown не должны попадать в справочник
		photoRepo.On("UpdateGeocodingResult", mock.Anything, photo.ID, mock.MatchedBy(func(d domain.GeocodingDetails) bool {
			return d.CountryID != nil && *d.CountryID == countryID &&
				d.RegionID == nil && d.CountyID == nil && d.CityID == nil
		}), domain.GeocodingStatusCompleted).Return(nil)

		uc := newTestUseCase(photoRepo, placeRepo, geocoder, cacheRepo)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalProcessed)
		assert.Equal(t, 0, result.TotalErrors)

		placeRepo.AssertNotCalled(t, "FindOrCreateRegion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		placeRepo.AssertNotCalled(t, "FindOrCreateCounty", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		placeRepo.AssertNotCalled(t, "FindOrCreateCity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		photoRepo.AssertExpectations(t)
	})

	t.Run("retry succeeds on third attempt", func(t *testing.T) {
		ownerID := uuid.New()
		photo := newPendingPhoto(ownerID, -33.45, -70.66)
		provErr := domain.NewProviderError(domain.ProviderCodeNetworkError, "connection refused")

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).Return([]*domain.Photo{photo}, nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, photo.ID, domain.GeocodingStatusProcessing).Return(nil)
		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(nil, nil)

		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).Return(nil, provErr).Twice()
		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).
			Return(&domain.ReverseGeocodeResponse{Country: "Chile"}, nil).Once()

		cacheRepo.On("SetGeocodeResult", mock.Anything, -33.45, -70.66, mock.Anything, time.Hour).Return(nil)
		placeRepo.On("FindOrCreateCountry", mock.Anything, "Chile", ownerID).
			Return(&domain.Country{ID: uuid.New(), Name: "Chile", OwnerID: ownerID}, nil)
		photoRepo.On("UpdateGeocodingResult", mock.Anything, photo.ID, mock.Anything, domain.GeocodingStatusCompleted).Return(nil)

		uc := newTestUseCase(photoRepo, placeRepo, geocoder, cacheRepo)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalProcessed)

		geocoder.AssertNumberOfCalls(t, "ReverseGeocode", 3)
	})

	t.Run("exhausted retries end in completed_with_errors", func(t *testing.T) {
		ownerID := uuid.New()
		photo := newPendingPhoto(ownerID, -33.45, -70.66)
		provErr := domain.NewProviderError(domain.ProviderCodeNetworkError, "request timed out")

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).Return([]*domain.Photo{photo}, nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, photo.ID, domain.GeocodingStatusProcessing).Return(nil)
		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(nil, nil)
		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).Return(nil, provErr)

		photoRepo.On("UpdateGeocodingResult", mock.Anything, photo.ID, mock.MatchedBy(func(d domain.GeocodingDetails) bool {
			return d.GeocodingError != "" && d.DisplayName != ""
		}), domain.GeocodingStatusCompletedWithErrors).Return(nil)

		uc := newTestUseCase(photoRepo, placeRepo, geocoder, cacheRepo)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalFound)
		assert.Equal(t, 0, result.TotalProcessed)
		assert.Equal(t, 1, result.TotalErrors)

		geocoder.AssertNumberOfCalls(t, "ReverseGeocode", 3)
		placeRepo.AssertNotCalled(t, "FindOrCreateCountry", mock.Anything, mock.Anything, mock.Anything)
		cacheRepo.AssertNotCalled(t, "SetGeocodeResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("selection failure returns zero counts without error", func(t *testing.T) {
		photoRepo := &MockPhotoRepository{}
		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		uc := newTestUseCase(photoRepo, &MockPlaceRepository{}, &MockGeocoderRepository{}, &MockCacheRepository{})

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalFound)
		assert.Equal(t, 0, result.TotalProcessed)
		assert.Equal(t, 0, result.TotalErrors)
	})

	t.Run("one failing photo does not abort the batch", func(t *testing.T) {
		ownerID := uuid.New()
		good1 := newPendingPhoto(ownerID, -33.45, -70.66)
		bad := newPendingPhoto(ownerID, 10.0, 20.0)
		good2 := newPendingPhoto(ownerID, -33.45, -70.66)

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).
			Return([]*domain.Photo{good1, bad, good2}, nil)

		photoRepo.On("UpdateGeocodingStatus", mock.Anything, good1.ID, domain.GeocodingStatusProcessing).Return(nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, good2.ID, domain.GeocodingStatusProcessing).Return(nil)
		// Вторая фотография падает на самом первом шаге
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, bad.ID, domain.GeocodingStatusProcessing).
			Return(errors.New("deadlock detected"))
		photoRepo.On("UpdateGeocodingResult", mock.Anything, bad.ID, mock.Anything, domain.GeocodingStatusFailed).Return(nil)

		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(nil, nil)
		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).
			Return(&domain.ReverseGeocodeResponse{Country: "Chile"}, nil)
		cacheRepo.On("SetGeocodeResult", mock.Anything, -33.45, -70.66, mock.Anything, time.Hour).Return(nil)
		placeRepo.On("FindOrCreateCountry", mock.Anything, "Chile", ownerID).
			Return(&domain.Country{ID: uuid.New(), Name: "Chile", OwnerID: ownerID}, nil)
		photoRepo.On("UpdateGeocodingResult", mock.Anything, good1.ID, mock.Anything, domain.GeocodingStatusCompleted).Return(nil)
		photoRepo.On("UpdateGeocodingResult", mock.Anything, good2.ID, mock.Anything, domain.GeocodingStatusCompleted).Return(nil)

		uc := newTestUseCase(photoRepo, placeRepo, geocoder, cacheRepo)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalFound)
		assert.Equal(t, 2, result.TotalProcessed)
		assert.Equal(t, 1, result.TotalErrors)
	})

	t.Run("zero max retries still performs one attempt", func(t *testing.T) {
		ownerID := uuid.New()
		photo := newPendingPhoto(ownerID, -33.45, -70.66)
		provErr := domain.NewProviderError(domain.ProviderCodeNetworkError, "connection refused")

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).Return([]*domain.Photo{photo}, nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, photo.ID, domain.GeocodingStatusProcessing).Return(nil)
		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(nil, nil)
		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).Return(nil, provErr)
		photoRepo.On("UpdateGeocodingResult", mock.Anything, photo.ID, mock.MatchedBy(func(d domain.GeocodingDetails) bool {
			return d.GeocodingError != ""
		}), domain.GeocodingStatusCompletedWithErrors).Return(nil)

		cfg := testConfig()
		cfg.Worker.MaxRetries = 0

		uc := usecase.NewGeocodingUseCase(
			photoRepo,
			placeRepo,
			geocoder,
			cacheRepo,
			observability.NewMetricsForTesting(),
			clockwork.NewRealClock(),
			cfg,
			zap.NewNop(),
		)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalFound)
		assert.Equal(t, 0, result.TotalProcessed)
		assert.Equal(t, 1, result.TotalErrors)

		geocoder.AssertNumberOfCalls(t, "ReverseGeocode", 1)
	})

	t.Run("panicking photo is marked failed and batch continues", func(t *testing.T) {
		ownerID := uuid.New()
		first := newPendingPhoto(ownerID, -33.45, -70.66)
		second := newPendingPhoto(ownerID, 48.86, 2.35)

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).
			Return([]*domain.Photo{first, second}, nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, first.ID, domain.GeocodingStatusProcessing).Return(nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, second.ID, domain.GeocodingStatusProcessing).Return(nil)

		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(nil, nil)
		cacheRepo.On("GetGeocodeResult", mock.Anything, 48.86, 2.35).Return(nil, nil)
		geocoder.On("ReverseGeocode", mock.Anything, -33.45, -70.66).
			Return(&domain.ReverseGeocodeResponse{Country: "Chile"}, nil)
		geocoder.On("ReverseGeocode", mock.Anything, 48.86, 2.35).
			Return(&domain.ReverseGeocodeResponse{Country: "France"}, nil)
		cacheRepo.On("SetGeocodeResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil)

		placeRepo.On("FindOrCreateCountry", mock.Anything, "Chile", ownerID).
			Run(func(mock.Arguments) { panic("corrupted place index") }).
			Return(nil, errors.New("unreachable"))
		placeRepo.On("FindOrCreateCountry", mock.Anything, "France", ownerID).
			Return(&domain.Country{ID: uuid.New(), Name: "France", OwnerID: ownerID}, nil)

		photoRepo.On("UpdateGeocodingResult", mock.Anything, first.ID, mock.MatchedBy(func(d domain.GeocodingDetails) bool {
			return d.GeocodingError != ""
		}), domain.GeocodingStatusFailed).Return(nil)
		photoRepo.On("UpdateGeocodingResult", mock.Anything, second.ID, mock.Anything, domain.GeocodingStatusCompleted).Return(nil)

		uc := newTestUseCase(photoRepo, placeRepo, geocoder, cacheRepo)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalFound)
		assert.Equal(t, 1, result.TotalProcessed)
		assert.Equal(t, 1, result.TotalErrors)

		photoRepo.AssertExpectations(t)
	})

	t.Run("cache hit skips provider entirely", func(t *testing.T) {
		ownerID := uuid.New()
		photo := newPendingPhoto(ownerID, -33.45, -70.66)
		countryID := uuid.New()

		photoRepo := &MockPhotoRepository{}
		placeRepo := &MockPlaceRepository{}
		geocoder := &MockGeocoderRepository{}
		cacheRepo := &MockCacheRepository{}

		photoRepo.On("SelectForGeocoding", mock.Anything, mock.Anything).Return([]*domain.Photo{photo}, nil)
		photoRepo.On("UpdateGeocodingStatus", mock.Anything, photo.ID, domain.GeocodingStatusProcessing).Return(nil)
		cacheRepo.On("GetGeocodeResult", mock.Anything, -33.45, -70.66).Return(&domain.NormalizedLocation{
			CountryName: "Chile",
			RegionName:  domain.UnknownPlace,
			CountyName:  domain.UnknownPlace,
			CityName:    domain.UnknownPlace,
			DisplayName: "Chile",
		}, nil)
		placeRepo.On("FindOrCreateCountry", mock.Anything, "Chile", ownerID).
			Return(&domain.Country{ID: countryID, Name: "Chile", OwnerID: ownerID}, nil)
		photoRepo.On("UpdateGeocodingResult", mock.Anything, photo.ID, mock.Anything, domain.GeocodingStatusCompleted).Return(nil)

		uc := newTestUseCase(photoRepo, placeRepo, geocoder, cacheRepo)

		result, err := uc.ProcessPendingPhotos(ctx, dto.ProcessRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalProcessed)

		geocoder.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGeocodingUseCase_GetStatus(t *testing.T) {
	photoRepo := &MockPhotoRepository{}

	now := time.Now()
	sample := &domain.Photo{
		ID:              uuid.New(),
		Title:           "sunset",
		GeocodingStatus: domain.GeocodingStatusCompleted,
		GeocodingDetails: domain.GeocodingDetails{
			DisplayName: "Santiago, Chile",
			UpdatedAt:   &now,
		},
	}

	photoRepo.On("CountByGeocodingStatus", mock.Anything).Return(map[domain.GeocodingStatus]int{
		domain.GeocodingStatusPending:   3,
		domain.GeocodingStatusCompleted: 7,
	}, nil)
	photoRepo.On("ListCompletedSamples", mock.Anything, 5).Return([]*domain.Photo{sample}, nil)

	uc := newTestUseCase(photoRepo, &MockPlaceRepository{}, &MockGeocoderRepository{}, &MockCacheRepository{})

	summary, err := uc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Pending)
	assert.Equal(t, 7, summary.Counts[domain.GeocodingStatusCompleted])
	require.Len(t, summary.Samples, 1)
	assert.Equal(t, "Santiago, Chile", summary.Samples[0].DisplayName)
	assert.Equal(t, "completed", summary.Samples[0].Status)
}

func TestGeocodingUseCase_ProcessPhoto_SkipsTerminal(t *testing.T) {
	photo := newPendingPhoto(uuid.New(), -33.45, -70.66)
	photo.GeocodingStatus = domain.GeocodingStatusCompleted

	photoRepo := &MockPhotoRepository{}
	geocoder := &MockGeocoderRepository{}
	photoRepo.On("GetByID", mock.Anything, photo.ID).Return(photo, nil)

	uc := newTestUseCase(photoRepo, &MockPlaceRepository{}, geocoder, &MockCacheRepository{})

	err := uc.ProcessPhoto(context.Background(), photo.ID)
	require.NoError(t, err)

	photoRepo.AssertNotCalled(t, "UpdateGeocodingStatus", mock.Anything, mock.Anything, mock.Anything)
	geocoder.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything, mock.Anything)
}

func TestGeocodingUseCase_UpdatePhotoLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		uc := newTestUseCase(&MockPhotoRepository{}, &MockPlaceRepository{}, &MockGeocoderRepository{}, &MockCacheRepository{})

		err := uc.UpdatePhotoLocation(ctx, uuid.New(), 91.0, 0.0)
		assert.Error(t, err)
	})

	t.Run("rejects null island coordinates", func(t *testing.T) {
		photoRepo := &MockPhotoRepository{}
		uc := newTestUseCase(photoRepo, &MockPlaceRepository{}, &MockGeocoderRepository{}, &MockCacheRepository{})

		err := uc.UpdatePhotoLocation(ctx, uuid.New(), 0.0, 0.0)
		assert.Error(t, err)

		photoRepo.AssertNotCalled(t, "UpdateCoordinates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("updates coordinates and resets status", func(t *testing.T) {
		photo := newPendingPhoto(uuid.New(), 1.0, 2.0)

		photoRepo := &MockPhotoRepository{}
		photoRepo.On("GetByID", mock.Anything, photo.ID).Return(photo, nil)
		photoRepo.On("UpdateCoordinates", mock.Anything, photo.ID, -33.45, -70.66).Return(nil)

		uc := newTestUseCase(photoRepo, &MockPlaceRepository{}, &MockGeocoderRepository{}, &MockCacheRepository{})

		err := uc.UpdatePhotoLocation(ctx, photo.ID, -33.45, -70.66)
		require.NoError(t, err)

		photoRepo.AssertExpectations(t)
	})

	t.Run("unknown photo returns not found", func(t *testing.T) {
		photoRepo := &MockPhotoRepository{}
		photoRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

		uc := newTestUseCase(photoRepo, &MockPlaceRepository{}, &MockGeocoderRepository{}, &MockCacheRepository{})

		err := uc.UpdatePhotoLocation(ctx, uuid.New(), -33.45, -70.66)
		assert.Error(t, err)
	})
}

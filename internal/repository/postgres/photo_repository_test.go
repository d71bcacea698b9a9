package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/domain/repository"
	"github.com/photomap-service/internal/repository/postgres/testhelpers"
)

// PhotoRepositoryTestSuite tests all methods of PhotoRepository
type PhotoRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.PhotoRepository
	ctx    context.Context
}

// SetupSuite runs once before all tests in the suite
func (s *PhotoRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	// Apply migrations (skip if tables already exist)
	_ = testhelpers.ApplyMigrations(
		s.testDB.DB.DB,
		"../../../migrations",
	)

	s.repo = testhelpers.NewPhotoRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

// TearDownSuite runs once after all tests in the suite
func (s *PhotoRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest runs before each test
func (s *PhotoRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.NoError(s.testDB.Cleanup(s.ctx))
}

// insertPhoto вставляет фотографию напрямую: создание фотографий принадлежит
// внешнему сервису и в репозитории не реализовано
func (s *PhotoRepositoryTestSuite) insertPhoto(ownerID uuid.UUID, lat, lon *float64, status string) uuid.UUID {
	id := uuid.New()
	_, err := s.testDB.DB.ExecContext(s.ctx, `
		INSERT INTO photos (id, owner_id, title, latitude, longitude, has_valid_coordinates, geocoding_status)
		VALUES ($1, $2, 'test photo', $3, $4, $5, $6)`,
		id, ownerID, lat, lon, lat != nil && lon != nil, status,
	)
	s.Require().NoError(err)
	return id
}

func ptrF(v float64) *float64 { return &v }

func (s *PhotoRepositoryTestSuite) TestSelectForGeocoding() {
	ownerID := uuid.New()

	pending := s.insertPhoto(ownerID, ptrF(-33.45), ptrF(-70.66), "pending")
	failed := s.insertPhoto(ownerID, ptrF(40.0), ptrF(-3.7), "failed")
	completed := s.insertPhoto(ownerID, ptrF(48.86), ptrF(2.35), "completed")
	noCoords := s.insertPhoto(ownerID, nil, nil, "pending")
	nullIsland := s.insertPhoto(ownerID, ptrF(0), ptrF(0), "pending")

	photos, err := s.repo.SelectForGeocoding(s.ctx, domain.GeocodingFilter{Limit: 50})
	s.Require().NoError(err)

	ids := make(map[uuid.UUID]bool, len(photos))
	for _, p := range photos {
		ids[p.ID] = true
	}

	s.True(ids[pending], "pending photo with coordinates must be selected")
	s.True(ids[failed], "failed photo must be retried")
	s.False(ids[completed], "completed photo must not be reprocessed without force")
	s.False(ids[noCoords], "photo without coordinates must be skipped")
	s.False(ids[nullIsland], "photo at (0,0) must be skipped")
}

func (s *PhotoRepositoryTestSuite) TestSelectForGeocoding_Force() {
	ownerID := uuid.New()
	completed := s.insertPhoto(ownerID, ptrF(-33.45), ptrF(-70.66), "completed")

	photos, err := s.repo.SelectForGeocoding(s.ctx, domain.GeocodingFilter{Limit: 50, Force: true})
	s.Require().NoError(err)
	s.Require().Len(photos, 1)
	s.Equal(completed, photos[0].ID)
}

func (s *PhotoRepositoryTestSuite) TestSelectForGeocoding_OwnerFilter() {
	ownerA := uuid.New()
	ownerB := uuid.New()
	photoA := s.insertPhoto(ownerA, ptrF(-33.45), ptrF(-70.66), "pending")
	s.insertPhoto(ownerB, ptrF(-33.45), ptrF(-70.66), "pending")

	photos, err := s.repo.SelectForGeocoding(s.ctx, domain.GeocodingFilter{Limit: 50, OwnerID: &ownerA})
	s.Require().NoError(err)
	s.Require().Len(photos, 1)
	s.Equal(photoA, photos[0].ID)
}

func (s *PhotoRepositoryTestSuite) TestUpdateGeocodingResult() {
	ownerID := uuid.New()
	photoID := s.insertPhoto(ownerID, ptrF(-33.45), ptrF(-70.66), "processing")

	placeRepo := testhelpers.NewPlaceRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	country, err := placeRepo.FindOrCreateCountry(s.ctx, "Chile", ownerID)
	s.Require().NoError(err)

	countryID := country.ID
	details := domain.GeocodingDetails{
		DisplayName: "Santiago, Chile",
		CountryID:   &countryID,
	}

	err = s.repo.UpdateGeocodingResult(s.ctx, photoID, details, domain.GeocodingStatusCompleted)
	s.Require().NoError(err)

	photo, err := s.repo.GetByID(s.ctx, photoID)
	s.Require().NoError(err)
	s.Equal(domain.GeocodingStatusCompleted, photo.GeocodingStatus)
	s.Equal("Santiago, Chile", photo.GeocodingDetails.DisplayName)
	s.Require().NotNil(photo.GeocodingDetails.CountryID)
	s.Equal(countryID, *photo.GeocodingDetails.CountryID)
	s.Nil(photo.GeocodingDetails.RegionID)
	s.NotNil(photo.GeocodingDetails.UpdatedAt)
	s.Empty(photo.GeocodingDetails.GeocodingError)
}

func (s *PhotoRepositoryTestSuite) TestUpdateGeocodingResult_UnknownPhoto() {
	err := s.repo.UpdateGeocodingResult(s.ctx, uuid.New(), domain.GeocodingDetails{}, domain.GeocodingStatusCompleted)
	s.Error(err)
}

func (s *PhotoRepositoryTestSuite) TestUpdateCoordinates_ResetsGeocoding() {
	ownerID := uuid.New()
	photoID := s.insertPhoto(ownerID, ptrF(-33.45), ptrF(-70.66), "processing")

	placeRepo := testhelpers.NewPlaceRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	country, err := placeRepo.FindOrCreateCountry(s.ctx, "Chile", ownerID)
	s.Require().NoError(err)

	countryID := country.ID
	err = s.repo.UpdateGeocodingResult(s.ctx, photoID, domain.GeocodingDetails{
		DisplayName: "Santiago, Chile",
		CountryID:   &countryID,
	}, domain.GeocodingStatusCompleted)
	s.Require().NoError(err)

	err = s.repo.UpdateCoordinates(s.ctx, photoID, 48.86, 2.35)
	s.Require().NoError(err)

	photo, err := s.repo.GetByID(s.ctx, photoID)
	s.Require().NoError(err)
	s.Equal(domain.GeocodingStatusPending, photo.GeocodingStatus)
	s.True(photo.HasValidCoordinates)
	s.Require().NotNil(photo.Latitude)
	s.Equal(48.86, *photo.Latitude)
	s.Empty(photo.GeocodingDetails.DisplayName, "old geocoding result must be reset")
	s.Nil(photo.GeocodingDetails.CountryID)
}

func (s *PhotoRepositoryTestSuite) TestCountByGeocodingStatus() {
	ownerID := uuid.New()
	s.insertPhoto(ownerID, ptrF(1), ptrF(2), "pending")
	s.insertPhoto(ownerID, ptrF(1), ptrF(2), "pending")
	s.insertPhoto(ownerID, ptrF(1), ptrF(2), "completed")

	counts, err := s.repo.CountByGeocodingStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, counts[domain.GeocodingStatusPending])
	s.Equal(1, counts[domain.GeocodingStatusCompleted])
}

func (s *PhotoRepositoryTestSuite) TestListCompletedSamples() {
	ownerID := uuid.New()
	first := s.insertPhoto(ownerID, ptrF(1), ptrF(2), "processing")
	second := s.insertPhoto(ownerID, ptrF(3), ptrF(4), "processing")
	s.insertPhoto(ownerID, ptrF(5), ptrF(6), "pending")

	s.Require().NoError(s.repo.UpdateGeocodingResult(s.ctx, first, domain.GeocodingDetails{DisplayName: "Place A"}, domain.GeocodingStatusCompleted))
	s.Require().NoError(s.repo.UpdateGeocodingResult(s.ctx, second, domain.GeocodingDetails{DisplayName: "Place B"}, domain.GeocodingStatusCompleted))

	samples, err := s.repo.ListCompletedSamples(s.ctx, 5)
	s.Require().NoError(err)
	s.Len(samples, 2)
	for _, p := range samples {
		s.Equal(domain.GeocodingStatusCompleted, p.GeocodingStatus)
	}
}

func TestPhotoRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PhotoRepositoryTestSuite))
}

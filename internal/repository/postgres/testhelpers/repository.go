package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/photomap-service/internal/domain/repository"
	"github.com/photomap-service/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewPhotoRepositoryForTest creates a photo repository with test database and logger
func NewPhotoRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.PhotoRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewPhotoRepository(pgDB, logger)
}

// NewPlaceRepositoryForTest creates a place repository with test database and logger
func NewPlaceRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.PlaceRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewPlaceRepository(pgDB, logger)
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/domain/repository"
	"go.uber.org/zap"
)

type placeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPlaceRepository создает новый экземпляр place repository
func NewPlaceRepository(db *DB, logger *zap.Logger) repository.PlaceRepository {
	return &placeRepository{
		db:     db,
		logger: logger,
	}
}

// Каждый upsert использует фиктивный DO UPDATE по уникальному ключу: при
// конфликте RETURNING отдаёт существующую строку, и гонка двух конкурентных
// создателей разрешается атомарно, без catch-and-reread.

// FindOrCreateCountry возвращает страну (name, ownerID), создавая при отсутствии
func (r *placeRepository) FindOrCreateCountry(ctx context.Context, name string, ownerID uuid.UUID) (*domain.Country, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrPlaceNameEmpty
	}
	if ownerID == uuid.Nil {
		return nil, domain.ErrPlaceOwnerMissing
	}

	query := `INSERT INTO countries (id, name, owner_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, owner_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, owner_id, created_at`

	var country domain.Country
	if err := r.db.GetContext(ctx, &country, query, uuid.New(), name, ownerID); err != nil {
		r.logger.Error("Failed to find or create country",
			zap.String("name", name),
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("find or create country: %w", err)
	}

	return &country, nil
}

// FindOrCreateRegion возвращает регион (name, countryID), создавая при отсутствии
func (r *placeRepository) FindOrCreateRegion(ctx context.Context, name string, countryID, ownerID uuid.UUID) (*domain.Region, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrPlaceNameEmpty
	}
	if ownerID == uuid.Nil {
		return nil, domain.ErrPlaceOwnerMissing
	}
	if countryID == uuid.Nil {
		return nil, domain.ErrPlaceParentMissing
	}

	query := `INSERT INTO regions (id, name, country_id, owner_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, country_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, country_id, owner_id, created_at`

	var region domain.Region
	if err := r.db.GetContext(ctx, &region, query, uuid.New(), name, countryID, ownerID); err != nil {
		r.logger.Error("Failed to find or create region",
			zap.String("name", name),
			zap.String("country_id", countryID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("find or create region: %w", err)
	}

	return &region, nil
}

// FindOrCreateCounty возвращает провинцию (name, regionID), создавая при отсутствии
func (r *placeRepository) FindOrCreateCounty(ctx context.Context, name string, regionID, countryID, ownerID uuid.UUID) (*domain.County, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrPlaceNameEmpty
	}
	if ownerID == uuid.Nil {
		return nil, domain.ErrPlaceOwnerMissing
	}
	if regionID == uuid.Nil || countryID == uuid.Nil {
		return nil, domain.ErrPlaceParentMissing
	}

	query := `INSERT INTO counties (id, name, region_id, country_id, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name, region_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, region_id, country_id, owner_id, created_at`

	var county domain.County
	if err := r.db.GetContext(ctx, &county, query, uuid.New(), name, regionID, countryID, ownerID); err != nil {
		r.logger.Error("Failed to find or create county",
			zap.String("name", name),
			zap.String("region_id", regionID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("find or create county: %w", err)
	}

	return &county, nil
}

// FindOrCreateCity возвращает город (name, countyID), создавая при отсутствии
func (r *placeRepository) FindOrCreateCity(ctx context.Context, name string, countyID, regionID, countryID, ownerID uuid.UUID) (*domain.City, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrPlaceNameEmpty
	}
	if ownerID == uuid.Nil {
		return nil, domain.ErrPlaceOwnerMissing
	}
	if countyID == uuid.Nil || regionID == uuid.Nil || countryID == uuid.Nil {
		return nil, domain.ErrPlaceParentMissing
	}

	query := `INSERT INTO cities (id, name, county_id, region_id, country_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name, county_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, county_id, region_id, country_id, owner_id, created_at`

	var city domain.City
	if err := r.db.GetContext(ctx, &city, query, uuid.New(), name, countyID, regionID, countryID, ownerID); err != nil {
		r.logger.Error("Failed to find or create city",
			zap.String("name", name),
			zap.String("county_id", countyID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("find or create city: %w", err)
	}

	return &city, nil
}

// ListCountries возвращает страны пользователя, отсортированные по названию
func (r *placeRepository) ListCountries(ctx context.Context, ownerID uuid.UUID) ([]*domain.Country, error) {
	query := `SELECT id, name, owner_id, created_at FROM countries
		WHERE owner_id = $1 ORDER BY name ASC`

	var countries []*domain.Country
	if err := r.db.SelectContext(ctx, &countries, query, ownerID); err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	return countries, nil
}

// ListRegions возвращает регионы пользователя, опционально внутри страны
func (r *placeRepository) ListRegions(ctx context.Context, ownerID uuid.UUID, countryID *uuid.UUID) ([]*domain.Region, error) {
	query := `SELECT id, name, country_id, owner_id, created_at FROM regions WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if countryID != nil {
		args = append(args, *countryID)
		query += fmt.Sprintf(" AND country_id = $%d", len(args))
	}
	query += " ORDER BY name ASC"

	var regions []*domain.Region
	if err := r.db.SelectContext(ctx, &regions, query, args...); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	return regions, nil
}

// ListCounties возвращает провинции пользователя, опционально внутри региона
func (r *placeRepository) ListCounties(ctx context.Context, ownerID uuid.UUID, regionID *uuid.UUID) ([]*domain.County, error) {
	query := `SELECT id, name, region_id, country_id, owner_id, created_at FROM counties WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if regionID != nil {
		args = append(args, *regionID)
		query += fmt.Sprintf(" AND region_id = $%d", len(args))
	}
	query += " ORDER BY name ASC"

	var counties []*domain.County
	if err := r.db.SelectContext(ctx, &counties, query, args...); err != nil {
		return nil, fmt.Errorf("list counties: %w", err)
	}

	return counties, nil
}

// ListCities возвращает города пользователя, опционально внутри провинции
func (r *placeRepository) ListCities(ctx context.Context, ownerID uuid.UUID, countyID *uuid.UUID) ([]*domain.City, error) {
	query := `SELECT id, name, county_id, region_id, country_id, owner_id, created_at FROM cities WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if countyID != nil {
		args = append(args, *countyID)
		query += fmt.Sprintf(" AND county_id = $%d", len(args))
	}
	query += " ORDER BY name ASC"

	var cities []*domain.City
	if err := r.db.SelectContext(ctx, &cities, query, args...); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	return cities, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/photomap-service/internal/domain"
	"github.com/photomap-service/internal/domain/repository"
	"go.uber.org/zap"
)

// photoColumns - общая проекция фотографии с маппингом деталей геокодирования
// во вложенную структуру
const photoColumns = `
	id, owner_id, title, latitude, longitude, has_valid_coordinates, geocoding_status,
	COALESCE(geocode_display_name, '') AS "geocoding_details.display_name",
	country_id AS "geocoding_details.country_id",
	region_id AS "geocoding_details.region_id",
	county_id AS "geocoding_details.county_id",
	city_id AS "geocoding_details.city_id",
	COALESCE(geocoding_error, '') AS "geocoding_details.geocoding_error",
	geocoded_at AS "geocoding_details.updated_at",
	created_at, updated_at
`

type photoRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPhotoRepository создает новый экземпляр photo repository
func NewPhotoRepository(db *DB, logger *zap.Logger) repository.PhotoRepository {
	return &photoRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID возвращает фотографию по ID; (nil, nil) если фотографии нет
func (r *photoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	query := fmt.Sprintf(`SELECT %s FROM photos WHERE id = $1`, photoColumns)

	var photo domain.Photo
	if err := r.db.GetContext(ctx, &photo, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get photo by id: %w", err)
	}

	return &photo, nil
}

// SelectForGeocoding выбирает фотографии для батча геокодирования
func (r *photoRepository) SelectForGeocoding(ctx context.Context, filter domain.GeocodingFilter) ([]*domain.Photo, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	// Только фотографии с присутствующими ненулевыми координатами
	query := fmt.Sprintf(`SELECT %s FROM photos
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		AND NOT (latitude = 0 AND longitude = 0)`, photoColumns)

	args := make([]interface{}, 0, 3)

	// Без force обрабатываются только ожидающие и неудачные
	if !filter.Force {
		query += fmt.Sprintf(` AND (geocoding_status IN ('%s', '%s') OR geocoding_status IS NULL OR geocoding_status = '')`,
			domain.GeocodingStatusPending, domain.GeocodingStatusFailed)
	}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND geocoding_status = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at ASC LIMIT $%d", len(args))

	var photos []*domain.Photo
	if err := r.db.SelectContext(ctx, &photos, query, args...); err != nil {
		return nil, fmt.Errorf("select photos for geocoding: %w", err)
	}

	return photos, nil
}

// UpdateGeocodingStatus обновляет только статус геокодирования
func (r *photoRepository) UpdateGeocodingStatus(ctx context.Context, id uuid.UUID, status domain.GeocodingStatus) error {
	query := `UPDATE photos SET geocoding_status = $1, updated_at = now() WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("update geocoding status: %w", err)
	}

	return nil
}

// UpdateGeocodingResult записывает детали геокодирования вместе с терминальным статусом
func (r *photoRepository) UpdateGeocodingResult(ctx context.Context, id uuid.UUID, details domain.GeocodingDetails, status domain.GeocodingStatus) error {
	query := `UPDATE photos SET
		geocode_display_name = $1,
		country_id = $2,
		region_id = $3,
		county_id = $4,
		city_id = $5,
		geocoding_error = NULLIF($6, ''),
		geocoded_at = now(),
		geocoding_status = $7,
		updated_at = now()
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		details.DisplayName,
		details.CountryID,
		details.RegionID,
		details.CountyID,
		details.CityID,
		details.GeocodingError,
		status,
		id,
	)
	if err != nil {
		return fmt.Errorf("update geocoding result: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("update geocoding result: photo %s not found", id)
	}

	return nil
}

// UpdateCoordinates обновляет координаты, сбрасывает прежний результат
// геокодирования и помечает фото как pending
func (r *photoRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	query := `UPDATE photos SET
		latitude = $1,
		longitude = $2,
		has_valid_coordinates = TRUE,
		geocoding_status = $3,
		geocode_display_name = NULL,
		country_id = NULL,
		region_id = NULL,
		county_id = NULL,
		city_id = NULL,
		geocoding_error = NULL,
		updated_at = now()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, lat, lon, domain.GeocodingStatusPending, id)
	if err != nil {
		return fmt.Errorf("update photo coordinates: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("update photo coordinates: photo %s not found", id)
	}

	return nil
}

// CountByGeocodingStatus возвращает количество фотографий в каждом статусе.
// Фотографии без статуса считаются pending.
func (r *photoRepository) CountByGeocodingStatus(ctx context.Context) (map[domain.GeocodingStatus]int, error) {
	query := `SELECT
		COALESCE(NULLIF(geocoding_status, ''), 'pending') AS status,
		COUNT(*) AS count
		FROM photos
		GROUP BY 1`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count photos by geocoding status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.GeocodingStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan geocoding status count: %w", err)
		}
		counts[domain.GeocodingStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocoding status counts rows error: %w", err)
	}

	return counts, nil
}

// ListCompletedSamples возвращает несколько последних завершённых фотографий
func (r *photoRepository) ListCompletedSamples(ctx context.Context, limit int) ([]*domain.Photo, error) {
	if limit <= 0 {
		limit = 5
	}

	query := fmt.Sprintf(`SELECT %s FROM photos
		WHERE geocoding_status = $1
		ORDER BY geocoded_at DESC NULLS LAST
		LIMIT $2`, photoColumns)

	var photos []*domain.Photo
	if err := r.db.SelectContext(ctx, &photos, query, domain.GeocodingStatusCompleted, limit); err != nil {
		return nil, fmt.Errorf("list completed samples: %w", err)
	}

	return photos, nil
}

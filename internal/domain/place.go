package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ошибки создания сущностей иерархии: сущность без названия, владельца или
// валидного родителя не создаётся никогда
var (
	ErrPlaceNameEmpty     = errors.New("place name is empty")
	ErrPlaceOwnerMissing  = errors.New("place owner is missing")
	ErrPlaceParentMissing = errors.New("place parent reference is missing")
)

// Иерархия мест: Country → Region → County → City.
// Каждая сущность принадлежит одному пользователю: одинаковые названия
// у разных пользователей дают разные строки.

// Country - страна. Уникальность: (name, owner_id)
type Country struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Region - регион внутри страны. Уникальность: (name, country_id)
type Region struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CountryID uuid.UUID `json:"country_id" db:"country_id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// County - провинция/округ внутри региона. Уникальность: (name, region_id).
// country_id денормализовано и всегда совпадает со страной региона.
type County struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	RegionID  uuid.UUID `json:"region_id" db:"region_id"`
	CountryID uuid.UUID `json:"country_id" db:"country_id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// City - город/населённый пункт внутри провинции. Уникальность: (name, county_id).
// region_id и country_id денормализованы из цепочки предков.
type City struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CountyID  uuid.UUID `json:"county_id" db:"county_id"`
	RegionID  uuid.UUID `json:"region_id" db:"region_id"`
	CountryID uuid.UUID `json:"country_id" db:"country_id"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

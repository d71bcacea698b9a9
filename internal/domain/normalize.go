package domain

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownPlace - сентинел для неразрешённого уровня иерархии
const UnknownPlace = "Unknown"

// adminTagHierarchy - фиксированный порядок административных тегов от крупного
// уровня к мелкому. Порядок - данные, а не ветвление: страновые особенности
// ("state" против "region") выражаются позицией в таблице.
var adminTagHierarchy = []string{
	"state", "region", "province", // уровень региона
	"county", "district", // уровень провинции/округа
	"municipality", "locality", // уровень муниципалитета
	"city", "town", "village", "hamlet", "suburb", // уровень города
}

// Наборы тегов для выбора канонического значения каждого уровня
var (
	regionLevelTags = []string{"state", "region", "province"}
	countyLevelTags = []string{"county", "district"}
	cityLevelTags   = []string{"city", "town", "village", "hamlet", "suburb", "municipality", "locality"}
)

// adminLevelEntry - пара (название, административный тег) из блока address
type adminLevelEntry struct {
	name string
	tag  string
}

// NormalizeReverseResponse приводит разнородный ответ провайдера к каноническому
// кортежу названий. Никогда не возвращает ошибку: неполный ответ даёт
// UnknownPlace на соответствующих уровнях, а синтезированные фолбэки
// гарантируют, что цепочка предков не рвётся из-за одного пропущенного уровня.
// Координаты нужны только для фолбэка displayName.
func NormalizeReverseResponse(resp *ReverseGeocodeResponse, lat, lon float64) NormalizedLocation {
	var loc NormalizedLocation

	switch {
	case resp == nil:
		loc = NormalizedLocation{}
	case isPreShaped(resp):
		// 1. Уже разобранный объект с готовыми уровнями - используем напрямую
		loc = normalizePreShaped(resp)
	case isGeocodeJSON(resp):
		// 2. GeocodeJSON FeatureCollection с блоком geocoding
		loc = normalizeGeocodeJSON(resp)
	default:
		// 3. Плоский формат Nominatim с блоком address
		loc = normalizeFlatAddress(resp)
	}

	loc.CountryName = valueOrUnknown(loc.CountryName)
	loc.RegionName = valueOrUnknown(loc.RegionName)
	loc.CountyName = valueOrUnknown(loc.CountyName)
	loc.CityName = valueOrUnknown(loc.CityName)

	// 4. Синтезированные фолбэки: если уровень неизвестен, а уровень ниже
	// известен, подставляем производное название, чтобы цепочку предков
	// всегда можно было создать целиком
	if loc.RegionName == UnknownPlace && loc.CountyName != UnknownPlace {
		loc.RegionName = "Region of " + loc.CountyName
	}
	if loc.CountyName == UnknownPlace && loc.CityName != UnknownPlace {
		loc.CountyName = "County of " + loc.CityName
	}
	if loc.CityName == UnknownPlace && resp != nil && resp.Name != "" {
		loc.CityName = resp.Name
	}

	// 5. Фолбэк displayName - форматированные координаты
	if loc.DisplayName == "" {
		loc.DisplayName = FormatCoordinates(lat, lon)
	}

	return loc
}

// isPreShaped распознаёт уже разобранный объект: есть готовые уровни и нет
// ни блока address, ни FeatureCollection
func isPreShaped(resp *ReverseGeocodeResponse) bool {
	if len(resp.Address) > 0 || len(resp.Features) > 0 {
		return false
	}
	return resp.Country != "" || resp.Region != "" || resp.State != "" ||
		resp.County != "" || resp.City != "" || resp.Town != "" || resp.Village != ""
}

func isGeocodeJSON(resp *ReverseGeocodeResponse) bool {
	if resp.Type != "FeatureCollection" || len(resp.Features) == 0 {
		return false
	}
	g := resp.Features[0].Properties.Geocoding
	return g.Country != "" || g.Name != "" || g.Label != "" || len(g.Admin) > 0
}

// normalizePreShaped обрабатывает уже разобранный объект
func normalizePreShaped(resp *ReverseGeocodeResponse) NormalizedLocation {
	region := firstNonEmpty(resp.Region, resp.State)
	city := firstNonEmpty(resp.City, resp.Town, resp.Village)

	display := resp.Label
	if display == "" {
		display = joinPlaceNames(city, resp.County, region, resp.Country)
	}

	return NormalizedLocation{
		CountryName: resp.Country,
		RegionName:  region,
		CountyName:  resp.County,
		CityName:    city,
		DisplayName: display,
	}
}

// normalizeGeocodeJSON обрабатывает FeatureCollection с properties.geocoding
func normalizeGeocodeJSON(resp *ReverseGeocodeResponse) NormalizedLocation {
	g := resp.Features[0].Properties.Geocoding

	return NormalizedLocation{
		CountryName: g.Country,
		RegionName:  firstNonEmpty(g.State, g.Admin["level4"]),
		CountyName:  firstNonEmpty(g.County, g.Admin["level6"]),
		CityName:    firstNonEmpty(g.Name, g.Admin["level8"]),
		DisplayName: g.Label,
	}
}

// normalizeFlatAddress реализует универсальный разбор плоского блока address:
// собирает все ключи, похожие на административные уровни, сортирует их по
// таблице иерархии и берёт первое совпадение на каждом уровне.
func normalizeFlatAddress(resp *ReverseGeocodeResponse) NormalizedLocation {
	address := resp.Address

	// Собираем все поля, похожие на административные уровни
	var entries []adminLevelEntry
	for key, value := range address {
		if value == "" {
			continue
		}
		if tagRank(key) >= 0 {
			entries = append(entries, adminLevelEntry{name: value, tag: key})
		}
	}

	// Сортируем по иерархии от крупного уровня к мелкому.
	// Стабильность нужна, чтобы одинаковые ранги сохраняли детерминированный порядок.
	sort.SliceStable(entries, func(i, j int) bool {
		return tagRank(entries[i].tag) < tagRank(entries[j].tag)
	})

	return NormalizedLocation{
		CountryName: address["country"],
		RegionName:  findByTags(entries, regionLevelTags),
		CountyName:  findByTags(entries, countyLevelTags),
		CityName:    findByTags(entries, cityLevelTags),
		DisplayName: resp.DisplayName,
	}
}

// tagRank возвращает позицию административного тега в таблице иерархии,
// -1 если ключ не похож ни на один тег
func tagRank(key string) int {
	for i, prefix := range adminTagHierarchy {
		if strings.HasPrefix(key, prefix) {
			return i
		}
	}
	return -1
}

// findByTags возвращает первое значение, чей тег начинается с одного из
// префиксов уровня, либо пустую строку
func findByTags(entries []adminLevelEntry, prefixes []string) string {
	for _, e := range entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(e.tag, prefix) {
				return e.name
			}
		}
	}
	return ""
}

// FormatCoordinates форматирует координаты в строку "lat, lon" для фолбэка displayName
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%v, %v", lat, lon)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return UnknownPlace
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinPlaceNames(names ...string) string {
	var parts []string
	for _, n := range names {
		if n != "" && n != UnknownPlace {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, ", ")
}

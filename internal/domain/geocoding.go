package domain

import "fmt"

// Коды ошибок провайдера геокодирования
const (
	ProviderCodeNetworkError    = "NETWORK_ERROR"
	ProviderCodeHTTPStatus      = "HTTP_STATUS"
	ProviderCodeInvalidResponse = "INVALID_RESPONSE"
	ProviderCodeUnknown         = "UNKNOWN_ERROR"
)

// ProviderError - типизированная ошибка внешнего провайдера геокодирования
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewProviderError создает новую ProviderError
func NewProviderError(code, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

// ReverseGeocodeResponse - сырой ответ провайдера обратного геокодирования.
// Провайдер может вернуть три формы: плоский JSON Nominatim с блоком address,
// GeocodeJSON FeatureCollection или уже разобранный объект с готовыми уровнями.
type ReverseGeocodeResponse struct {
	// Плоский формат Nominatim
	DisplayName string            `json:"display_name"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Address     map[string]string `json:"address"`

	// GeocodeJSON FeatureCollection
	Features []ReverseGeocodeFeature `json:"features"`

	// Уже разобранный объект
	Country string `json:"country"`
	State   string `json:"state"`
	Region  string `json:"region"`
	County  string `json:"county"`
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Label   string `json:"displayName"`
}

// ReverseGeocodeFeature - элемент FeatureCollection
type ReverseGeocodeFeature struct {
	Properties ReverseGeocodeProperties `json:"properties"`
}

// ReverseGeocodeProperties - properties фичи GeocodeJSON
type ReverseGeocodeProperties struct {
	Geocoding GeocodingBlock `json:"geocoding"`
}

// GeocodingBlock - блок geocoding внутри properties
type GeocodingBlock struct {
	Country string            `json:"country"`
	State   string            `json:"state"`
	County  string            `json:"county"`
	Name    string            `json:"name"`
	Label   string            `json:"label"`
	Admin   map[string]string `json:"admin"`
}

// NormalizedLocation - канонический кортеж названий, извлечённый из ответа провайдера.
// Неразрешённые уровни получают сентинел UnknownPlace, не пустую строку и не nil,
// чтобы ветвление в оркестраторе оставалось простым.
type NormalizedLocation struct {
	CountryName string `json:"country_name"`
	RegionName  string `json:"region_name"`
	CountyName  string `json:"county_name"`
	CityName    string `json:"city_name"`
	DisplayName string `json:"display_name"`
}

// GeocodeResult - итог обращения к провайдеру после всех попыток.
// Исчерпание повторов не бросает ошибку, а возвращает результат с заполненным Err,
// чтобы батч-цикл оркестратора не прерывался из-за одной фотографии.
type GeocodeResult struct {
	Location    *NormalizedLocation
	DisplayName string
	Err         *ProviderError
}

package utils

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// HasUsableCoordinates отсекает точку (0, 0), которую клиенты присылают
// вместо отсутствующих координат
func HasUsableCoordinates(lat, lon float64) bool {
	if !ValidateCoordinates(lat, lon) {
		return false
	}
	return lat != 0 || lon != 0
}

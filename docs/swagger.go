// Package docs PhotoMap Geocoding Service API.
//
// Сервис обратного геокодирования фотографий. Обогащает фотографии с GPS
// координатами человекочитаемыми местами: страна, регион, провинция, город.
//
// Основные возможности:
// - Фоновое обратное геокодирование фотографий через Nominatim
// - Идемпотентный справочник мест с иерархией на пользователя
// - Административный запуск батча и сводка статусов
// - Обновление координат фотографии с повторным геокодированием
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs

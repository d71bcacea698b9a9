package errors

import "net/http"

var (
	ErrPhotoNotFound = New(
		"PHOTO_NOT_FOUND",
		"Photo not found",
		http.StatusNotFound,
	)

	ErrInvalidPhotoID = New(
		"INVALID_PHOTO_ID",
		"Invalid photo ID",
		http.StatusBadRequest,
	)

	ErrInvalidOwnerID = New(
		"INVALID_OWNER_ID",
		"Invalid owner ID",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidGeocodingStatus = New(
		"INVALID_GEOCODING_STATUS",
		"Invalid geocoding status value",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

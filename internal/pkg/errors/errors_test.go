package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/photomap-service/internal/pkg/errors"
)

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
		"validation": "latitude out of range",
	})

	require.NotSame(t, apperrors.ErrInvalidCoordinates, detailed)
	assert.Nil(t, apperrors.ErrInvalidCoordinates.Details, "общий экземпляр не должен меняться")

	assert.Equal(t, apperrors.ErrInvalidCoordinates.Code, detailed.Code)
	assert.Equal(t, apperrors.ErrInvalidCoordinates.StatusCode, detailed.StatusCode)
	assert.Equal(t, "latitude out of range", detailed.Details["validation"])
}

func TestAppErrorMessage(t *testing.T) {
	err := apperrors.New("SOME_CODE", "something broke", 500)
	assert.Equal(t, "SOME_CODE: something broke", err.Error())
}

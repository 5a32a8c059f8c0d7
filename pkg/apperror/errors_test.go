package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{
		{Field: "invoice.client", Message: "client is required"},
	})

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Errors, 1)
	assert.Equal(t, "invoice.client", err.Errors[0].Field)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Invoice")

	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.Equal(t, "Invoice not found", err.Error())
}

func TestStaleVersionMapsToConflict(t *testing.T) {
	assert.Equal(t, http.StatusConflict, ErrStaleVersion.Code)
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(NewBadRequestError("bad input"))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	wrapped := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, wrapped.Code)
	assert.Equal(t, "boom", wrapped.Message)
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ErrStaleVersion))
	assert.False(t, IsAppError(errors.New("boom")))
}

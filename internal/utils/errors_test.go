package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorToHTTPStatus(t *testing.T) {
	cases := map[string]int{
		ErrInvalidInput:      http.StatusBadRequest,
		ErrInvalidID:         http.StatusBadRequest,
		ErrNotFound:          http.StatusNotFound,
		ErrDuplicate:         http.StatusConflict,
		ErrConflict:          http.StatusConflict,
		ErrUnauthorized:      http.StatusUnauthorized,
		ErrForbidden:         http.StatusForbidden,
		ErrModerationBlocked: http.StatusUnprocessableEntity,
		ErrUnavailable:       http.StatusServiceUnavailable,
		ErrDatabase:          http.StatusInternalServerError,
	}

	for code, want := range cases {
		assert.Equal(t, want, AppErrorToHTTPStatus(code), "code %s", code)
	}
	assert.Equal(t, http.StatusInternalServerError, AppErrorToHTTPStatus("SOMETHING_ELSE"))
}

func TestIsErrorCode(t *testing.T) {
	err := NewNotFoundError("post")
	assert.True(t, IsErrorCode(err, ErrNotFound))
	assert.False(t, IsErrorCode(err, ErrConflict))
	assert.False(t, IsErrorCode(nil, ErrNotFound))
}

func TestAppErrorMessage(t *testing.T) {
	err := NewForbiddenError("requires admin role")
	assert.Equal(t, ErrForbidden, err.Code)
	assert.Contains(t, err.Error(), "requires admin role")
}

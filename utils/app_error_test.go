package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"auth", NewAuthError("unauthorized"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("forbidden"), http.StatusForbidden},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"conflict", NewConflictError("conflict"), http.StatusConflict},
		{"upload", NewUploadError("upload failed", errors.New("boom")), http.StatusInternalServerError},
		{"internal", NewInternalError("oops", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.StatusCode)
			assert.True(t, IsStatus(tc.err, tc.status))
		})
	}
}

func TestAsAppError(t *testing.T) {
	assert.Nil(t, AsAppError(nil))

	conflict := NewConflictError("already assigned")
	wrapped := fmt.Errorf("accept: %w", conflict)
	got := AsAppError(wrapped)
	require.NotNil(t, got)
	assert.Same(t, conflict, got)

	plain := AsAppError(errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode)
	assert.Equal(t, "Internal Server Error", plain.Message)
	assert.ErrorContains(t, plain.Cause(), "db down")
}

func TestAppError_UnwrapKeepsCause(t *testing.T) {
	root := errors.New("connection refused")
	err := NewUploadError("Image upload failed", root)
	assert.ErrorIs(t, err, root)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_WithErrors(t *testing.T) {
	err := NewValidationError("Invalid input").WithErrors("title is required", "location is required")
	assert.Equal(t, []string{"title is required", "location is required"}, err.Errors)
}

package utils

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// AppError adalah error domain yang membawa HTTP status code tetap.
// Service mengembalikan AppError, middleware.ErrorHandler yang merender envelope-nya.
type AppError struct {
	StatusCode int
	Message    string
	Errors     []string
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Cause mengembalikan error asli (dengan stack dari pkg/errors bila ada).
func (e *AppError) Cause() error {
	return e.cause
}

// WithErrors menambahkan detail error (misal hasil validasi per field).
func (e *AppError) WithErrors(details ...string) *AppError {
	e.Errors = append(e.Errors, details...)
	return e
}

func newAppError(status int, message string, cause error) *AppError {
	if cause != nil {
		cause = pkgerrors.WithStack(cause)
	}
	return &AppError{StatusCode: status, Message: message, cause: cause}
}

// 400 - input tidak lengkap / tidak valid
func NewValidationError(message string) *AppError {
	return newAppError(http.StatusBadRequest, message, nil)
}

// 401 - credential tidak ada / tidak valid
func NewAuthError(message string) *AppError {
	return newAppError(http.StatusUnauthorized, message, nil)
}

// 403 - sudah login tapi tidak berhak
func NewForbiddenError(message string) *AppError {
	return newAppError(http.StatusForbidden, message, nil)
}

// 404
func NewNotFoundError(message string) *AppError {
	return newAppError(http.StatusNotFound, message, nil)
}

// 409 - precondition state tidak terpenuhi
func NewConflictError(message string) *AppError {
	return newAppError(http.StatusConflict, message, nil)
}

// 429 - rate limit
func NewTooManyRequestsError(message string) *AppError {
	return newAppError(http.StatusTooManyRequests, message, nil)
}

// NewUploadError dipakai saat upload gambar ke media host gagal.
func NewUploadError(message string, cause error) *AppError {
	return newAppError(http.StatusInternalServerError, message, cause)
}

// NewInternalError membungkus error tak terduga (biasanya dari repository).
func NewInternalError(message string, cause error) *AppError {
	return newAppError(http.StatusInternalServerError, message, cause)
}

// AsAppError mengubah error apa pun menjadi *AppError.
// Error yang bukan AppError dianggap 500.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal Server Error", err)
}

// IsStatus memeriksa apakah err adalah AppError dengan status code tertentu.
func IsStatus(err error, status int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.StatusCode == status
}

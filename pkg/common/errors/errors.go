package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common sentinel errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrExtraction        = errors.New("extraction failed")
	ErrUpstream          = errors.New("upstream service failed")
	ErrInternal          = errors.New("internal error")
)

// AppError represents an application-specific error with an HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps a common error to an AppError with an appropriate HTTP status code.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	// Check for existing AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Map sentinel errors
	if errors.Is(err, ErrInvalidInput) {
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		return NewAppError(http.StatusBadRequest, "Unsupported file type", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		return NewAppError(http.StatusUnauthorized, "Invalid token", err)
	}
	if errors.Is(err, ErrExtraction) {
		return NewAppError(http.StatusInternalServerError, "Document parsing failed", err)
	}
	if errors.Is(err, ErrUpstream) {
		return NewAppError(http.StatusBadGateway, "Upstream service failed", err)
	}

	// Default to internal server error
	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}

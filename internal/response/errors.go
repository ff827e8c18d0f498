package response

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error codes
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeIdentitySyncFailed = "IDENTITY_SYNC_FAILED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnavailable        = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// MsgForbidden is the only message a forbidden response ever carries.
const MsgForbidden = "Insufficient permissions"

// AppError represents an application error with a stable code
type AppError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// WrapAppError creates an application error keeping the cause for logging
func WrapAppError(code, message string, err error) *AppError {
	appErr := &AppError{Code: code, Message: message, Err: err}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

func NewUnauthenticatedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthenticated, message, "")
}

func NewIdentitySyncError(err error) *AppError {
	return WrapAppError(ErrCodeIdentitySyncFailed, "Failed to synchronize user identity", err)
}

func NewForbiddenError() *AppError {
	return NewAppError(ErrCodeForbidden, MsgForbidden, "")
}

func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

func NewUnavailableError(message string) *AppError {
	return NewAppError(ErrCodeUnavailable, message, "")
}

func NewInternalError(err error) *AppError {
	return WrapAppError(ErrCodeInternal, "Internal server error", err)
}

// HasCode reports whether err is an AppError carrying code
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to its HTTP status, error code and client-facing message.
// Unclassified errors never leak their text.
func StatusFor(err error) (int, string, string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, ErrCodeNotFound, "Resource not found"
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := StatusForCode(appErr.Code)
		if status == http.StatusInternalServerError {
			return status, ErrCodeInternal, "Internal server error"
		}
		return status, appErr.Code, appErr.Message
	}

	return http.StatusInternalServerError, ErrCodeInternal, "Internal server error"
}

// StatusForCode maps error codes to HTTP status codes
func StatusForCode(code string) int {
	switch code {
	case ErrCodeUnauthenticated, ErrCodeIdentitySyncFailed:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

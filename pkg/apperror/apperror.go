package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an application error for status-code translation.
type Type string

const (
	TypeValidation   Type = "VALIDATION"
	TypeNotFound     Type = "NOT_FOUND"
	TypeUnauthorized Type = "UNAUTHORIZED"
	TypeForbidden    Type = "FORBIDDEN"
	TypeConflict     Type = "CONFLICT"
	TypeUnavailable  Type = "UNAVAILABLE"
	TypeInternal     Type = "INTERNAL"
)

// AppError is an error with a client-facing message. Err holds the cause and
// is only ever logged.
type AppError struct {
	Type    Type
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error type to an HTTP status. Conflicts are reported as 400
// so that duplicate-username responses match other input errors.
func (e *AppError) Status() int {
	switch e.Type {
	case TypeValidation, TypeConflict:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *AppError {
	return &AppError{Type: TypeValidation, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Type: TypeNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Type: TypeUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Type: TypeForbidden, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Type: TypeConflict, Message: message}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{Type: TypeUnavailable, Message: message, Err: err}
}

// Internal wraps an unexpected failure. The message shown to clients is
// always generic.
func Internal(err error) *AppError {
	return &AppError{Type: TypeInternal, Message: "Internal server error", Err: err}
}

// From returns err as an *AppError, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

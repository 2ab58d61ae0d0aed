// Package apperror defines the application error taxonomy and its mapping
// onto HTTP status codes and the {"error": ...} response envelope.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes an application error.
type ErrorType int

const (
	// InternalError is an unexpected database or external-service failure.
	InternalError ErrorType = iota
	// ValidationError is a missing or malformed input field.
	ValidationError
	// NotFoundError means a referenced id does not exist.
	NotFoundError
	// ConflictError is a duplicate unique field, e.g. an email already in use.
	ConflictError
	// AuthError means credentials did not check out.
	AuthError
)

// AppError carries a user-facing message plus an optional underlying error
// that stays server-side.
type AppError struct {
	Type    ErrorType
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

// StatusCode returns the HTTP status for the error type. ConflictError maps
// to 400 rather than 409 to keep the wire contract of the original API.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body sent for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse exposes only the message, never the wrapped error.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: InternalError, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ValidationError, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: NotFoundError, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ConflictError, Message: message}
}

func NewAuthError(message string) *AppError {
	return &AppError{Type: AuthError, Message: message}
}

// FromError pulls an *AppError out of an error chain, wrapping anything else
// as an InternalError with a generic message.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("An error occurred", err)
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

func IsAuth(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

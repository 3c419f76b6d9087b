// Package errors defines the typed application errors the API layer maps to
// HTTP responses.
package errors

import (
	"net/http"

	"accountsvc/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int   // HTTP status code
	Message() string // Top-level response message
	Cause() string   // Validation cause, empty for non-400 errors
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode int
	message  string
	cause    string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, message, cause string) *BaseError {
	return &BaseError{
		httpCode: httpCode,
		message:  message,
		cause:    cause,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != "" {
		return e.message + ": " + e.cause
	}

	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// Message returns the top-level response message.
func (e *BaseError) Message() string {
	return e.message
}

// Cause returns the validation cause string.
func (e *BaseError) Cause() string {
	return e.cause
}

// Response messages shared by several errors.
const (
	msgSignupFailed = "Account creation failed"
	msgUpdateFailed = "User updation failed"
)

// Predefined error types
var (
	// Signup validation errors, in rule order.
	ErrSignupCredentialsRequired = NewBaseError(
		http.StatusBadRequest,
		msgSignupFailed,
		"Required user_id and password",
	)

	ErrSignupInputLength = NewBaseError(
		http.StatusBadRequest,
		msgSignupFailed,
		"Input length is incorrect",
	)

	ErrSignupInvalidPattern = NewBaseError(
		http.StatusBadRequest,
		msgSignupFailed,
		"Incorrect character pattern",
	)

	ErrSignupDuplicateID = NewBaseError(
		http.StatusBadRequest,
		msgSignupFailed,
		"Already same user_id is used",
	)

	// Update validation errors.
	ErrUpdateForbiddenFields = NewBaseError(
		http.StatusBadRequest,
		msgUpdateFailed,
		"Not updatable user_id and password",
	)

	ErrUpdateFieldsRequired = NewBaseError(
		http.StatusBadRequest,
		msgUpdateFailed,
		"Required nickname or comment",
	)

	ErrUpdateInvalidProfile = NewBaseError(
		http.StatusBadRequest,
		msgUpdateFailed,
		"String length limit exceeded or containing invalid characters",
	)

	// Authentication and authorization errors.
	ErrAuthenticationFailed = NewBaseError(
		http.StatusUnauthorized,
		"Authentication failed",
		"",
	)

	ErrNoPermission = NewBaseError(
		http.StatusForbidden,
		"No permission for update",
		"",
	)

	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"No user found",
		"",
	)
)

// Package apperror defines the error taxonomy shared by handlers and
// middleware and maps it onto HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the category of an AppError.
type ErrorType int

const (
	// InternalError is any failure the client cannot act on.
	InternalError ErrorType = iota
	// DatabaseError is a storage failure.
	DatabaseError
	// ValidationError is missing or malformed input.
	ValidationError
	// AuthError is a missing, malformed or expired credential.
	AuthError
	// NotFoundError is a missing resource, or one owned by somebody else.
	NotFoundError
	// ConflictError is a uniqueness violation.
	ConflictError
)

// AppError carries a client-facing message and the underlying cause.
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

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// ToResponse converts the error to its response body. Only Message is exposed.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// New creates an AppError of the given type.
func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return New(InternalError, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return New(DatabaseError, message, err)
}

func NewValidationError(message string, err error) *AppError {
	return New(ValidationError, message, err)
}

func NewAuthError(message string, err error) *AppError {
	return New(AuthError, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFoundError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return New(ConflictError, message, err)
}

func is(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool { return is(err, NotFoundError) }

// IsAuthError reports whether err is an AuthError.
func IsAuthError(err error) bool { return is(err, AuthError) }

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool { return is(err, ValidationError) }

// IsConflictError reports whether err is a ConflictError.
func IsConflictError(err error) bool { return is(err, ConflictError) }

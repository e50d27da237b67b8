// Package errors provides typed errors for aigc.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrRateLimit indicates the provider rejected the call for rate limiting
	ErrRateLimit ErrorType = iota
	// ErrServer indicates a provider-side (5xx class) failure
	ErrServer
	// ErrTimeout indicates a timeout or network-level failure
	ErrTimeout
	// ErrAuth indicates an authentication or authorization failure
	ErrAuth
	// ErrNotFound indicates a missing resource, typically an unknown model
	ErrNotFound
	// ErrConfig indicates a configuration error
	ErrConfig
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrGeneration indicates the pipeline could not produce a message
	ErrGeneration
)

// Error is the base error type for all aigc errors
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(errType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var aigcErr *Error
	if err == nil {
		return false
	}
	if errors.As(err, &aigcErr) {
		return aigcErr.Type == errType
	}
	return false
}

// IsRetryable returns true if the error is transient and retryable.
// Rate limits, server errors and timeouts are transient; auth and
// not-found failures are permanent and must surface immediately.
func IsRetryable(err error) bool {
	var aigcErr *Error
	if err == nil {
		return false
	}
	if !errors.As(err, &aigcErr) {
		// Unclassified errors default to retryable
		return true
	}

	switch aigcErr.Type {
	case ErrRateLimit, ErrServer, ErrTimeout:
		return true
	default:
		return false
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrRateLimit:
		return "RATE_LIMIT"
	case ErrServer:
		return "SERVER"
	case ErrTimeout:
		return "TIMEOUT"
	case ErrAuth:
		return "AUTH"
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrConfig:
		return "CONFIG"
	case ErrValidation:
		return "VALIDATION"
	case ErrGeneration:
		return "GENERATION"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// RateLimitError creates a rate limit error
func RateLimitError(message string, cause error) *Error {
	return New(ErrRateLimit, message, cause)
}

// ServerError creates a provider server error
func ServerError(message string, cause error) *Error {
	return New(ErrServer, message, cause)
}

// TimeoutError creates a timeout error
func TimeoutError(message string, cause error) *Error {
	return New(ErrTimeout, message, cause)
}

// AuthError creates an authentication error
func AuthError(message string, cause error) *Error {
	return New(ErrAuth, message, cause)
}

// NotFoundError creates a not-found error
func NotFoundError(message string, cause error) *Error {
	return New(ErrNotFound, message, cause)
}

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *Error {
	return New(ErrConfig, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *Error {
	return New(ErrValidation, message, cause)
}

// GenerationError creates a pipeline generation error
func GenerationError(message string, cause error) *Error {
	return New(ErrGeneration, message, cause)
}

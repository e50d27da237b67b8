package errors

import (
	"errors"
	"strings"
)

// Classify maps an arbitrary client error onto the aigc taxonomy.
// Errors that already carry a type pass through unchanged. Everything
// else is classified from message evidence, the same way providers
// surface failures through HTTP client wrappers.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var aigcErr *Error
	if errors.As(err, &aigcErr) {
		return aigcErr
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests"):
		return RateLimitError(err.Error(), err)

	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host"):
		return TimeoutError(err.Error(), err)

	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "unauthorized") || strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "invalid api key") || strings.Contains(msg, "forbidden"):
		return AuthError(err.Error(), err)

	case strings.Contains(msg, "404") || strings.Contains(msg, "not found") ||
		strings.Contains(msg, "no such model") || strings.Contains(msg, "model_not_found"):
		return NotFoundError(err.Error(), err)

	case strings.Contains(msg, "500") || strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") || strings.Contains(msg, "504") ||
		strings.Contains(msg, "internal server error") || strings.Contains(msg, "overloaded"):
		return ServerError(err.Error(), err)

	default:
		// Unknown failures are treated as server-class so the retry
		// policy gets a chance before the error surfaces.
		return ServerError(err.Error(), err)
	}
}

// FromStatusCode maps an HTTP status code onto the taxonomy.
func FromStatusCode(code int, message string) *Error {
	switch {
	case code == 429:
		return RateLimitError(message, nil)
	case code == 401 || code == 403:
		return AuthError(message, nil)
	case code == 404:
		return NotFoundError(message, nil)
	case code == 408:
		return TimeoutError(message, nil)
	case code >= 500:
		return ServerError(message, nil)
	default:
		return GenerationError(message, nil)
	}
}

package errors

import "fmt"

// ErrorType classifies failures from the ClickUp API
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("clickup %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed API error
func New(errorType ErrorType, message string, code int) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// Wrap creates a typed API error around an underlying cause
func Wrap(errorType ErrorType, message string, code int, err error) *Error {
	return &Error{Type: errorType, Message: message, Code: code, Err: err}
}

// IsRetryable checks if an error type should be retried.
// Rate limit errors are retryable, but only through the rate limiter's
// own protocol, never through generic backoff.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}

package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
)

// ErrorType represents the category of a client error.
type ErrorType int

const (
	// ErrTypeSession indicates a missing or rejected session token.
	ErrTypeSession ErrorType = iota
	// ErrTypeNetwork indicates a network-level failure (unreachable host,
	// connection refused, DNS).
	ErrTypeNetwork
	// ErrTypeTimeout indicates the blanket request timeout elapsed.
	ErrTypeTimeout
	// ErrTypeHTTP indicates a non-2xx response from the backend.
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body.
	ErrTypeParse
	// ErrTypeValidation indicates a selection rejected locally before any
	// network call was made.
	ErrTypeValidation
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeSession:
		return "Session Error"
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeHTTP:
		return "Backend Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ClientError is the error returned by all Client operations. The Message
// is suitable for direct display; errors never escalate past the operation
// that produced them.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int   // HTTP status code, when Type is ErrTypeHTTP
	Err        error // underlying error, if any
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewSessionError creates a session error. userMessage should tell the user
// what to do next (typically: log in again).
func NewSessionError(message string) *ClientError {
	return &ClientError{
		Type:       ErrTypeSession,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNetworkError creates a network-level error, classifying timeouts
// separately so the UI can word them differently.
func NewNetworkError(message string, err error) *ClientError {
	typ := ErrTypeNetwork
	if isTimeout(err) {
		typ = ErrTypeTimeout
	}
	return &ClientError{
		Type:    typ,
		Message: message,
		Err:     err,
	}
}

// NewHTTPError creates an error for a non-2xx backend response.
func NewHTTPError(statusCode int, message string) *ClientError {
	return &ClientError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates an error for a malformed response body.
func NewParseError(message string, err error) *ClientError {
	return &ClientError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates an error for a selection rejected locally,
// before any request is issued.
func NewValidationError(message string) *ClientError {
	return &ClientError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if os.IsTimeout(err) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsSessionError reports whether err is a session error (the user must log
// in again).
func IsSessionError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeSession
}

// IsNetworkError reports whether err is a network or timeout error.
func IsNetworkError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && (ce.Type == ErrTypeNetwork || ce.Type == ErrTypeTimeout)
}

// IsHTTPError reports whether err is a non-2xx backend response.
func IsHTTPError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeHTTP
}

// IsValidationError reports whether err was raised locally before any
// network call.
func IsValidationError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeValidation
}

// UserMessage returns a concise string suitable for surfacing in component
// state. Backend-provided messages pass through verbatim.
func UserMessage(err error) string {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return err.Error()
	}

	switch ce.Type {
	case ErrTypeSession:
		return "Your session has expired. Please log in again."
	case ErrTypeTimeout:
		return "The clinic server did not respond in time. Please try again."
	case ErrTypeNetwork:
		return "Could not reach the clinic server. Check your connection and try again."
	case ErrTypeHTTP:
		if ce.Message != "" {
			return ce.Message
		}
		return fmt.Sprintf("The clinic server returned an error (HTTP %d).", ce.StatusCode)
	case ErrTypeParse:
		return "Received an unexpected response from the clinic server."
	case ErrTypeValidation:
		return ce.Message
	default:
		return ce.Message
	}
}

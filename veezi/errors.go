package veezi

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid veezi configuration")
	// ErrTransport indicates the request did not produce a usable response
	ErrTransport = errors.New("veezi transport error")
	// ErrDeserialization indicates a response body did not match the expected schema
	ErrDeserialization = errors.New("veezi deserialization error")
	// ErrUnknownRoute indicates a route that is not part of the API surface
	ErrUnknownRoute = errors.New("unknown veezi route")
)

// ConfigError is returned by Builder.Build when a required setting is missing
// or invalid. No network activity happens before it is returned.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid veezi configuration: %s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfig
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// TransportError represents a failed call: a network failure (StatusCode 0)
// or a non-2xx response.
type TransportError struct {
	StatusCode int
	Route      Route
	URL        string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("veezi request %s failed: %v", e.Route, e.Err)
	}
	return fmt.Sprintf("veezi API error: %s: status %d: %s", e.Route, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap returns the underlying cause, if any
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsNotFound checks if the error indicates a not found response
func (e *TransportError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *TransportError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Temporary reports whether a caller-side retry could plausibly succeed.
// The client itself never retries.
func (e *TransportError) Temporary() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// DeserializationError indicates that a response body could not be decoded
// into the expected records. Values that fail to decode are never cached.
type DeserializationError struct {
	Route Route
	Err   error
}

// Error implements the error interface
func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Route, e.Err)
}

// Unwrap returns the underlying decode error
func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDeserialization
func (e *DeserializationError) Is(target error) bool {
	return target == ErrDeserialization
}

// MissingFieldError is reported inside a DeserializationError when a required
// field is absent or null.
type MissingFieldError struct {
	Record string
	Field  string
}

// Error implements the error interface
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Record, e.Field)
}

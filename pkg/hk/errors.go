package hk

import (
	"errors"
	"fmt"
)

// APIError is an error reported by the hkbase server itself. The transport's
// response validator converts every non-2xx response into one. APIErrors
// always propagate to callers unchanged.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Detail     string `json:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("hkbase: %s (status %d)", e.Status, e.StatusCode)
	}

	return fmt.Sprintf("hkbase: %s (status %d): %s", e.Status, e.StatusCode, e.Detail)
}

// ClientError wraps any failure that did not come from the server: network
// errors, malformed payloads, and logical violations detected client-side.
// The original cause is retained and available through Unwrap.
type ClientError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Static errors. Caller-input errors are returned immediately and never
// wrapped in a ClientError.
var (
	ErrConfigRequired         = errors.New("config is required")
	ErrURLRequired            = errors.New("hkbase URL is required")
	ErrRepositoryNotConnected = errors.New("could not connect to repository")
	ErrInvalidFilterType      = errors.New("invalid filter type: must be a string or a map")
	ErrInvalidEntityType      = errors.New("invalid entity type: must be an hklib entity or a map")
	ErrInvalidIDType          = errors.New("invalid id type: must be a string or an hklib entity")
	ErrUnsupportedObserver    = errors.New("unsupported observer type")
	ErrNATSConfigRequired     = errors.New("NATS configuration required for NATS observer")
	ErrObserverNotRegistered  = errors.New("observer is not registered")
)

// IsAPIError reports whether err originated from an hkbase error response.
func IsAPIError(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}

// IsNotFound reports whether err is a server-side 404.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}

	return false
}

// IsUnauthorized reports whether err is a server-side 401.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}

	return false
}

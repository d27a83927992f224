package pocketbase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is the normalized error for every failed client operation.
//
// Two categories exist: transport-level failures where no HTTP response was
// received (Status == 0) and HTTP-level failures carrying the numeric status
// code the server returned. Data holds the raw error payload when the
// response body parsed as JSON.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Data    Record `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
	}

	return e.Message
}

// IsTransport reports whether the error occurred before any HTTP response
// was received (connection refused, DNS failure, timeout).
func (e *APIError) IsTransport() bool {
	return e.Status == 0
}

// Static errors for configuration validation.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrBaseURLRequired    = errors.New("base URL is required")
	ErrNoAuthToken        = errors.New("no auth token available")
	ErrEmptyCollection    = errors.New("collection name is required")
	ErrNATSConfigRequired = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCache   = errors.New("unsupported cache type")
	ErrCacheDisabled      = errors.New("cache disabled")
	ErrCacheKeyNotFound   = errors.New("cache key not found")
	ErrCacheEntryExpired  = errors.New("cache entry expired")
	ErrNoMoreItems        = errors.New("no more items")

	ErrUnsupportedOperationType = errors.New("unsupported operation type")
)

// NewTransportError normalizes a transport failure into an APIError with no
// status code.
func NewTransportError(err error) *APIError {
	return &APIError{Message: err.Error()}
}

// ParseAPIError normalizes a non-2xx response into an APIError. The body is
// parsed as JSON to extract the server's message field and full payload;
// unparseable bodies fall back to the generic status text.
func ParseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Message: fmt.Sprintf("request failed with status %d %s", status, http.StatusText(status)),
		Status:  status,
	}

	var payload Record
	if err := json.Unmarshal(body, &payload); err == nil && payload != nil {
		apiErr.Data = payload

		if msg, ok := payload["message"].(string); ok && msg != "" {
			apiErr.Message = msg
		}
	}

	return apiErr
}

// IsNotFound checks if the error is a not-found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusForbidden
	}

	return false
}

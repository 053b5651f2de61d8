package sheets

import (
	"errors"
	"fmt"
)

// Common errors returned by the sheets client.
var (
	// ErrNotConfigured indicates no backend endpoint is configured.
	ErrNotConfigured = errors.New("backend endpoint not configured")

	// ErrNotFound indicates the backend has no record for the request.
	ErrNotFound = errors.New("not found in backend")

	// ErrBackend indicates the backend reported an error envelope.
	ErrBackend = errors.New("backend error")

	// ErrNetwork indicates a network connectivity issue.
	ErrNetwork = errors.New("network error communicating with backend")

	// ErrInvalidResponse indicates an unexpected backend response.
	ErrInvalidResponse = errors.New("invalid response from backend")
)

// APIError carries the backend's error envelope details.
type APIError struct {
	StatusCode int
	Action     string // Backend action that failed (e.g. "saveItem")
	Message    string
}

func (e *APIError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("backend error (status %d, action %s): %s", e.StatusCode, e.Action, e.Message)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap ties every error envelope to ErrBackend for errors.Is checks.
func (e *APIError) Unwrap() error {
	return ErrBackend
}

// IsBackend returns true if the error is a backend error envelope.
func IsBackend(err error) bool {
	return errors.Is(err, ErrBackend)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotConfigured returns true if the error indicates a missing endpoint.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

package tts

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials indicates no credential is configured for the
// selected engine. Surfaced before any network call or file write.
var ErrMissingCredentials = errors.New("missing credentials")

// ErrUnavailable indicates the TTS endpoint is not reachable.
var ErrUnavailable = errors.New("tts service unavailable")

// ErrTimeout indicates the TTS endpoint took too long to respond.
var ErrTimeout = errors.New("tts request timeout")

// APIError represents an error response from the TTS service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tts api error (status %d): %s", e.StatusCode, e.Message)
}

// IsAPIError checks if an error is an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

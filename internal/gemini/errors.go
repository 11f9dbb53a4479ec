// ABOUTME: Errors returned by the Gemini client
// ABOUTME: Missing and invalid keys plus structured API failures
package gemini

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured
	ErrMissingAPIKey = errors.New("gemini: API key is not configured (set API_KEY or GEMINI_API_KEY)")

	// ErrInvalidAPIKey is returned when the service rejects the key
	ErrInvalidAPIKey = errors.New("gemini: API key is invalid, check the key in Google AI Studio")

	// ErrNoAudio is returned when a speech reply carries no audio payload
	ErrNoAudio = errors.New("gemini: response contained no audio")
)

// APIError is a non-2xx response from the service
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini: HTTP %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps rejected keys to ErrInvalidAPIKey
func (e *APIError) Unwrap() error {
	if e.Reason == "API_KEY_INVALID" || strings.Contains(e.Message, "API_KEY_INVALID") {
		return ErrInvalidAPIKey
	}
	return nil
}

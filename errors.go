package askshot

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrMissingAPIKey indicates no credential is stored for the active preset.
	ErrMissingAPIKey = errors.New("askshot: missing API key")

	// ErrMissingBaseURL indicates the active preset has no base URL.
	ErrMissingBaseURL = errors.New("askshot: missing base URL")

	// ErrMissingModel indicates the active preset has no model name.
	ErrMissingModel = errors.New("askshot: missing model")

	// ErrNoInput indicates a request carried neither a conversation nor an image.
	ErrNoInput = errors.New("askshot: request needs a conversation or an image")

	// ErrPermissionDenied indicates network access to the destination origin
	// was not authorized.
	ErrPermissionDenied = errors.New("askshot: origin not authorized")
)

// ConfigError represents a user-actionable configuration problem detected
// before any network call.
type ConfigError struct {
	Field string // The settings field at fault (e.g. "api_key", "base_url")
	Err   error  // Wrapped sentinel (ErrMissingAPIKey, ErrMissingBaseURL, ...)
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error for '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration error for '%s'", e.Field)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PermissionError represents a declined or unavailable authorization for a
// destination origin. Distinct from network failures.
type PermissionError struct {
	Origin string // The origin that was not authorized (scheme://host)
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("missing permission for origin %s/*", e.Origin)
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

// ProviderError represents a failed HTTP exchange with the destination API.
type ProviderError struct {
	StatusCode int    // HTTP status code, 0 for transport failures
	Message    string // Structured provider message when one could be parsed
	Err        error  // Wrapped transport error, if any
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.StatusCode > 0 {
		msg = fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return "request failed: " + msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if an error is a configuration problem the user can
// fix in settings.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsPermissionError checks if an error is an origin authorization failure.
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsProviderError checks if an error came back from the destination API or
// the transport underneath it.
func IsProviderError(err error) bool {
	if err == nil {
		return false
	}
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}

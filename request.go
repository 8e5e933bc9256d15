package askshot

import "github.com/google/uuid"

// AskRequest carries one exchange with the destination API. Exactly one of
// History or ImageDataURL must be present; an image-only request is expanded
// into a synthetic single-turn conversation by the payload builders.
type AskRequest struct {
	// RequestID correlates all delta/completion events for this exchange.
	// It must be unique for the lifetime of the pending request.
	RequestID string `json:"requestId"`

	// History is the conversation so far
	History []Turn `json:"history,omitempty"`

	// ImageDataURL is a single captured image as a data: URI
	ImageDataURL string `json:"imageDataUrl,omitempty"`
}

// Validate rejects requests with neither a conversation nor an image.
func (r *AskRequest) Validate() error {
	if r.ImageDataURL == "" && len(r.History) == 0 {
		return ErrNoInput
	}
	return nil
}

// NewRequestID mints an opaque request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

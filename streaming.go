package askshot

// Stream event type constants.
const (
	// EventTypeDelta marks an incremental fragment of assistant text.
	EventTypeDelta = "delta"

	// EventTypeDone marks stream completion. Exactly one done event follows
	// all delta events for a given request id.
	EventTypeDone = "done"
)

// StreamEvent is one delivery to a listening surface. Delta events carry
// Delta; done events carry OK plus either the full accumulated Text or a
// human-readable Error.
type StreamEvent struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Delta     string `json:"delta,omitempty"`
	OK        bool   `json:"ok"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DeltaEvent builds a delta event for a request.
func DeltaEvent(requestID, delta string) StreamEvent {
	return StreamEvent{Type: EventTypeDelta, RequestID: requestID, Delta: delta}
}

// DoneEvent builds the terminal event for a request from its result.
func DoneEvent(requestID string, res *Result) StreamEvent {
	return StreamEvent{
		Type:      EventTypeDone,
		RequestID: requestID,
		OK:        res.OK,
		Text:      res.Text,
		Error:     res.Error,
	}
}

// Result is the single normalized outcome of a request: success with text,
// success with the streamed flag, or failure with a human-readable message.
type Result struct {
	OK       bool   `json:"ok"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
	Streamed bool   `json:"streamed,omitempty"`
}

// Failure builds a failed result from an error.
func Failure(err error) *Result {
	return &Result{OK: false, Error: err.Error()}
}

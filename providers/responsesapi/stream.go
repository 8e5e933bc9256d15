package responsesapi

import (
	"strings"

	"github.com/tidwall/gjson"

	askshot "github.com/askshot/askshot-llm-go"
)

// Stream event type markers.
const (
	// eventTextDelta carries a plain string delta.
	eventTextDelta = "response.output_text.delta"

	// eventMessageDelta carries a composite delta content array.
	eventMessageDelta = "message.delta"

	// eventCompleted is an in-band terminal signal, recognized in addition
	// to the [DONE] sentinel.
	eventCompleted = "response.completed"
)

// Extractor pulls text deltas out of responses-API stream events.
type Extractor struct{}

var _ askshot.DeltaExtractor = Extractor{}

// Extract tries, in order: the delta string of a text-delta event, the
// concatenated text-bearing parts of a composite message-delta event, and a
// bare top-level output_text field as a last resort. Events whose shape
// matches none of these yield no delta. A response.completed event is
// terminal regardless of whether it carried a delta.
func (Extractor) Extract(data []byte) (string, bool) {
	event := gjson.ParseBytes(data)
	eventType := event.Get("type").String()
	done := eventType == eventCompleted

	if eventType == eventTextDelta {
		if delta := event.Get("delta"); delta.Type == gjson.String {
			return delta.Str, done
		}
	}

	if eventType == eventMessageDelta {
		if joined := joinDeltaParts(event.Get("delta.content")); joined != "" {
			return joined, done
		}
	}

	if text := event.Get("output_text"); text.Type == gjson.String {
		return text.Str, done
	}

	return "", done
}

// joinDeltaParts concatenates the text-bearing sub-parts of a composite
// delta content array, in order, with no separator.
func joinDeltaParts(content gjson.Result) string {
	if !content.IsArray() {
		return ""
	}
	var joined strings.Builder
	for _, part := range content.Array() {
		if text := part.Get("text"); text.Type == gjson.String {
			joined.WriteString(text.Str)
			continue
		}
		if inner := part.Get("content"); inner.Type == gjson.String {
			joined.WriteString(inner.Str)
		}
	}
	return joined.String()
}

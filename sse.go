package askshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// doneSentinel is the literal data payload some providers send to close an
// SSE stream.
const doneSentinel = "[DONE]"

// eventSeparator splits an SSE byte stream into events.
var eventSeparator = []byte("\n\n")

// DeltaExtractor pulls an incremental text delta out of one parsed SSE data
// payload. done reports whether the payload itself signals stream
// completion, independent of the [DONE] sentinel. Payloads that match no
// known shape yield an empty delta, never an error.
type DeltaExtractor interface {
	Extract(data []byte) (delta string, done bool)
}

// eventScanner reassembles SSE event boundaries from a raw byte stream.
// Bytes are buffered across reads, so events and multi-byte characters
// split at arbitrary chunk boundaries come out whole. A trailing fragment
// with no closing blank line is an incomplete event and is discarded.
type eventScanner struct {
	r    io.Reader
	buf  []byte
	read []byte
	err  error
}

func newEventScanner(r io.Reader) *eventScanner {
	return &eventScanner{r: r, read: make([]byte, 4096)}
}

// Next returns the next complete event, or io.EOF when the stream ends.
func (s *eventScanner) Next() ([]byte, error) {
	for {
		if idx := bytes.Index(s.buf, eventSeparator); idx >= 0 {
			event := s.buf[:idx]
			s.buf = s.buf[idx+len(eventSeparator):]
			return event, nil
		}
		if s.err != nil {
			return nil, s.err
		}
		n, err := s.r.Read(s.read)
		if n > 0 {
			s.buf = append(s.buf, s.read[:n]...)
		}
		if err != nil {
			s.err = err
		}
	}
}

// dataLines returns the data payloads of one raw event. Only lines with the
// literal "data:" prefix carry payload; everything else (comments, event
// names, keepalives) is skipped.
func dataLines(event []byte) []string {
	var payloads []string
	for _, line := range strings.Split(string(event), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "data:") {
			continue
		}
		payloads = append(payloads, strings.TrimSpace(trimmed[len("data:"):]))
	}
	return payloads
}

// StreamText consumes an SSE body, invoking onDelta for every non-empty
// text delta in arrival order, and returns the accumulated text when the
// stream terminates. Termination happens on the [DONE] sentinel, on an
// extractor-reported completion event, or on the stream naturally ending;
// all three return the text accumulated so far. Non-JSON data payloads are
// skipped as keepalives.
func StreamText(r io.Reader, ex DeltaExtractor, onDelta func(delta string)) (string, error) {
	scanner := newEventScanner(r)
	var full strings.Builder
	for {
		event, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			return full.String(), nil
		}
		if err != nil {
			return full.String(), err
		}
		for _, data := range dataLines(event) {
			if data == doneSentinel {
				return full.String(), nil
			}
			if !json.Valid([]byte(data)) {
				continue
			}
			delta, done := ex.Extract([]byte(data))
			if delta != "" {
				full.WriteString(delta)
				if onDelta != nil {
					onDelta(delta)
				}
			}
			if done {
				return full.String(), nil
			}
		}
	}
}

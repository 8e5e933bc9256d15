package chatapi

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	loremgen "github.com/bozaro/golorem"

	askshot "github.com/askshot/askshot-llm-go"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			"delta content",
			`{"choices":[{"delta":{"content":"Hel"}}]}`,
			"Hel",
		},
		{
			"text fallback",
			`{"choices":[{"delta":{},"text":"legacy"}]}`,
			"legacy",
		},
		{
			"empty delta content falls back to text",
			`{"choices":[{"delta":{"content":""},"text":"x"}]}`,
			"x",
		},
		{
			"role-only chunk",
			`{"choices":[{"delta":{"role":"assistant"}}]}`,
			"",
		},
		{
			"no choices",
			`{"choices":[]}`,
			"",
		},
		{
			"unrelated shape",
			`{"object":"ping"}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, done := Extractor{}.Extract([]byte(tt.data))
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
			if done {
				t.Error("chat chunks never signal completion in-band")
			}
		})
	}
}

// chunkedReader yields the stream in fixed-size reads so event and rune
// boundaries land mid-chunk.
type chunkedReader struct {
	data []byte
	size int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.size
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	n = copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

func TestStreamRoundTrip(t *testing.T) {
	// Generated prose plus multi-byte characters, sliced into small deltas
	// and reassembled through the full SSE path.
	text := loremgen.New().Paragraph(2, 4) + " 世界 🚀"
	runes := []rune(text)

	var stream strings.Builder
	stream.WriteString(": keepalive\n\n")
	for i := 0; i < len(runes); i += 5 {
		end := i + 5
		if end > len(runes) {
			end = len(runes)
		}
		chunk := map[string]any{
			"choices": []any{map[string]any{"delta": map[string]any{"content": string(runes[i:end])}}},
		}
		raw, err := json.Marshal(chunk)
		if err != nil {
			t.Fatal(err)
		}
		stream.WriteString("data: " + string(raw) + "\n\n")
	}
	stream.WriteString("data: [DONE]\n\n")

	for _, size := range []int{1, 3, 7, 64, stream.Len()} {
		t.Run(fmt.Sprintf("chunk size %d", size), func(t *testing.T) {
			r := &chunkedReader{data: []byte(stream.String()), size: size}
			var deltas []string
			full, err := askshot.StreamText(r, Extractor{}, func(d string) {
				deltas = append(deltas, d)
			})
			if err != nil {
				t.Fatalf("StreamText() error = %v", err)
			}
			if full != text {
				t.Errorf("full text = %q, want %q", full, text)
			}
			if strings.Join(deltas, "") != text {
				t.Errorf("joined deltas = %q, want %q", strings.Join(deltas, ""), text)
			}
		})
	}
}

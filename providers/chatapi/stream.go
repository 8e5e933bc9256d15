package chatapi

import (
	"encoding/json"

	askshot "github.com/askshot/askshot-llm-go"
)

// Chunk is one streaming chat-completions event payload.
type Chunk struct {
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice is a choice inside a streaming chunk.
type ChunkChoice struct {
	Delta ChunkDelta `json:"delta"`
	Text  *string    `json:"text"`
}

// ChunkDelta carries the incremental content of a chunk.
type ChunkDelta struct {
	Content *string `json:"content"`
}

// Extractor pulls text deltas out of chat-completions stream events.
// The chat shape has no in-band completion event; termination comes from
// the [DONE] sentinel or the stream ending.
type Extractor struct{}

var _ askshot.DeltaExtractor = Extractor{}

// Extract returns the first choice's delta content, falling back to its
// bare text field. Unrecognized payloads yield no delta.
func (Extractor) Extract(data []byte) (string, bool) {
	var chunk Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	choice := chunk.Choices[0]
	if choice.Delta.Content != nil && *choice.Delta.Content != "" {
		return *choice.Delta.Content, false
	}
	if choice.Text != nil {
		return *choice.Text, false
	}
	return "", false
}

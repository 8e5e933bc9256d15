// Package responsesapi builds and decodes the responses-API wire shape.
package responsesapi

import (
	"encoding/json"
	"fmt"
	"strings"

	askshot "github.com/askshot/askshot-llm-go"
)

// Request is a responses-API request body. Note the nested reasoning object
// and the max_output_tokens name; both differ from the chat shape.
type Request struct {
	Model           string      `json:"model"`
	Input           []InputItem `json:"input"`
	Reasoning       *Reasoning  `json:"reasoning,omitempty"`
	Temperature     *float64    `json:"temperature,omitempty"`
	MaxOutputTokens *int        `json:"max_output_tokens,omitempty"`
}

// Reasoning nests the effort level.
type Reasoning struct {
	Effort string `json:"effort"`
}

// InputItem is one conversation entry. Content is always a part array in
// this shape, for every role.
type InputItem struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one part of an input item. The type tag depends on the
// role: "input_text"/"input_image" for user entries, "output_text" for
// assistant entries, plain "text" for system entries.
type ContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"` // bare data URI, no wrapper object
}

// BuildPayload translates a conversation (or a single captured image) into
// a responses-API request body. It is a pure function of its inputs.
func BuildPayload(history []askshot.Turn, imageDataURL string, s *askshot.Settings) ([]byte, error) {
	var input []InputItem
	if len(history) > 0 {
		input = inputFromHistory(history, s.SystemPrompt)
	} else {
		input = inputFromImage(imageDataURL, s)
	}
	input = withConciseDirective(input)

	req := &Request{Model: s.Model, Input: input}
	if s.ReasoningEffort != "" && s.ReasoningEffort != askshot.EffortNone {
		req.Reasoning = &Reasoning{Effort: string(s.ReasoningEffort)}
	}
	if s.UseTemperature {
		t := s.ClampedTemperature()
		req.Temperature = &t
	}
	if s.UseMaxTokens {
		m := s.ClampedMaxTokens()
		req.MaxOutputTokens = &m
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal responses payload: %w", err)
	}
	return body, nil
}

func inputFromHistory(history []askshot.Turn, systemPrompt string) []InputItem {
	var input []InputItem
	if systemPrompt != "" && !askshot.HasSystemTurn(history) {
		input = append(input, systemItem(systemPrompt))
	}
	for _, turn := range history {
		switch turn.Role {
		case askshot.RoleUser:
			var parts []ContentPart
			for _, b := range turn.Content {
				if b.IsText() {
					parts = append(parts, ContentPart{Type: "input_text", Text: b.Text})
				}
				if b.IsImage() {
					parts = append(parts, ContentPart{Type: "input_image", ImageURL: b.DataURL})
				}
			}
			input = append(input, InputItem{Role: askshot.RoleUser, Content: parts})
		case askshot.RoleAssistant:
			input = append(input, InputItem{
				Role:    askshot.RoleAssistant,
				Content: []ContentPart{{Type: "output_text", Text: turn.JoinedText()}},
			})
		case askshot.RoleSystem:
			input = append(input, systemItem(turn.JoinedText()))
		}
	}
	return input
}

// inputFromImage synthesizes a one-turn conversation from a captured image
// and the preset's default question.
func inputFromImage(imageDataURL string, s *askshot.Settings) []InputItem {
	var input []InputItem
	if s.SystemPrompt != "" {
		input = append(input, systemItem(s.SystemPrompt))
	}
	parts := []ContentPart{{Type: "input_text", Text: s.UserPrompt}}
	if imageDataURL != "" {
		parts = append(parts, ContentPart{Type: "input_image", ImageURL: imageDataURL})
	}
	return append(input, InputItem{Role: askshot.RoleUser, Content: parts})
}

func systemItem(text string) InputItem {
	return InputItem{
		Role:    askshot.RoleSystem,
		Content: []ContentPart{{Type: "text", Text: text}},
	}
}

// withConciseDirective prepends the terse-response directive unless some
// system entry already contains it.
func withConciseDirective(input []InputItem) []InputItem {
	for _, item := range input {
		if item.Role != askshot.RoleSystem {
			continue
		}
		for _, part := range item.Content {
			if strings.Contains(part.Text, askshot.ConciseDirective) {
				return input
			}
		}
	}
	return append([]InputItem{systemItem(askshot.ConciseDirective)}, input...)
}

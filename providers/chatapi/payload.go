// Package chatapi builds and decodes the chat-completions wire shape.
package chatapi

import (
	"encoding/json"
	"fmt"
	"strings"

	askshot "github.com/askshot/askshot-llm-go"
)

// Request is a chat-completions request body.
type Request struct {
	Model           string    `json:"model"`
	Messages        []Message `json:"messages"`
	ReasoningEffort string    `json:"reasoning_effort,omitempty"`
	Temperature     *float64  `json:"temperature,omitempty"`
	MaxTokens       *int      `json:"max_tokens,omitempty"`
}

// Message is a single chat message. Content is a plain string for system
// and assistant roles and a []ContentPart for user roles.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one part of multimodal user content.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference. Data URIs go in directly.
type ImageURL struct {
	URL string `json:"url"`
}

// BuildPayload translates a conversation (or a single captured image) into
// a chat-completions request body. It is a pure function of its inputs.
func BuildPayload(history []askshot.Turn, imageDataURL string, s *askshot.Settings) ([]byte, error) {
	var messages []Message
	if len(history) > 0 {
		messages = messagesFromHistory(history, s.SystemPrompt)
	} else {
		messages = messagesFromImage(imageDataURL, s)
	}
	messages = withConciseDirective(messages)

	req := &Request{Model: s.Model, Messages: messages}
	if s.ReasoningEffort != "" && s.ReasoningEffort != askshot.EffortNone {
		req.ReasoningEffort = string(s.ReasoningEffort)
	}
	if s.UseTemperature {
		t := s.ClampedTemperature()
		req.Temperature = &t
	}
	if s.UseMaxTokens {
		m := s.ClampedMaxTokens()
		req.MaxTokens = &m
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}
	return body, nil
}

func messagesFromHistory(history []askshot.Turn, systemPrompt string) []Message {
	var messages []Message
	if systemPrompt != "" && !askshot.HasSystemTurn(history) {
		messages = append(messages, Message{Role: askshot.RoleSystem, Content: systemPrompt})
	}
	for _, turn := range history {
		switch turn.Role {
		case askshot.RoleUser:
			var parts []ContentPart
			for _, b := range turn.Content {
				if b.IsText() {
					parts = append(parts, ContentPart{Type: "text", Text: b.Text})
				}
				if b.IsImage() {
					parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: b.DataURL}})
				}
			}
			messages = append(messages, Message{Role: askshot.RoleUser, Content: parts})
		case askshot.RoleAssistant, askshot.RoleSystem:
			// Assistant and system turns collapse to a single text field;
			// images are never sent back as assistant content.
			messages = append(messages, Message{Role: turn.Role, Content: turn.JoinedText()})
		}
	}
	return messages
}

// messagesFromImage synthesizes a one-turn conversation from a captured
// image and the preset's default question.
func messagesFromImage(imageDataURL string, s *askshot.Settings) []Message {
	var messages []Message
	if s.SystemPrompt != "" {
		messages = append(messages, Message{Role: askshot.RoleSystem, Content: s.SystemPrompt})
	}
	parts := []ContentPart{{Type: "text", Text: s.UserPrompt}}
	if imageDataURL != "" {
		parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: imageDataURL}})
	}
	return append(messages, Message{Role: askshot.RoleUser, Content: parts})
}

// withConciseDirective prepends the terse-response directive unless some
// system message already contains it.
func withConciseDirective(messages []Message) []Message {
	for _, m := range messages {
		if m.Role != askshot.RoleSystem {
			continue
		}
		if content, ok := m.Content.(string); ok && strings.Contains(content, askshot.ConciseDirective) {
			return messages
		}
	}
	directive := Message{Role: askshot.RoleSystem, Content: askshot.ConciseDirective}
	return append([]Message{directive}, messages...)
}

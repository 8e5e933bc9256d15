package askshot

import (
	"strings"

	"github.com/tidwall/gjson"
)

// textDecoder attempts to pull the final text out of one response shape.
// Decoders run in a fixed priority order; each either matches with a
// non-empty result or skips.
type textDecoder func(body gjson.Result) (string, bool)

var textDecoders = []textDecoder{
	decodeChatMessage,
	decodeChatText,
	decodeOutputText,
	decodeOutputArray,
	decodeMessageContent,
}

// ExtractText extracts the final text from a fully-buffered response body,
// trying the chat shape first and the responses shape after it. Returns
// false when no decoder matches; callers treat that as "no content".
func ExtractText(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	parsed := gjson.ParseBytes(body)
	for _, decode := range textDecoders {
		if text, ok := decode(parsed); ok {
			return text, true
		}
	}
	return "", false
}

// decodeChatMessage reads the first choice's message content string.
func decodeChatMessage(body gjson.Result) (string, bool) {
	content := body.Get("choices.0.message.content")
	if content.Type == gjson.String && content.Str != "" {
		return content.Str, true
	}
	return "", false
}

// decodeChatText reads the first choice's bare text field.
func decodeChatText(body gjson.Result) (string, bool) {
	text := body.Get("choices.0.text")
	if text.Type == gjson.String && text.Str != "" {
		return text.Str, true
	}
	return "", false
}

// decodeOutputText reads the top-level aggregated output_text fast path.
func decodeOutputText(body gjson.Result) (string, bool) {
	text := body.Get("output_text")
	if text.Type == gjson.String && text.Str != "" {
		return text.Str, true
	}
	return "", false
}

// decodeOutputArray flattens text-bearing sub-items of a structured output
// array, joined by newlines.
func decodeOutputArray(body gjson.Result) (string, bool) {
	output := body.Get("output")
	if !output.IsArray() {
		return "", false
	}
	var parts []string
	for _, item := range output.Array() {
		content := item.Get("content")
		if !content.IsArray() {
			continue
		}
		for _, sub := range content.Array() {
			if text := sub.Get("text"); text.Type == gjson.String && text.Str != "" {
				parts = append(parts, text.Str)
			} else if inner := sub.Get("content"); inner.Type == gjson.String && inner.Str != "" {
				parts = append(parts, inner.Str)
			}
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

// decodeMessageContent is the generic message.content array fallback.
func decodeMessageContent(body gjson.Result) (string, bool) {
	content := body.Get("message.content")
	if !content.IsArray() {
		return "", false
	}
	var parts []string
	for _, sub := range content.Array() {
		if text := sub.Get("text"); text.Type == gjson.String && text.Str != "" {
			parts = append(parts, text.Str)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

// ExtractError reads a conventional {error: {message|code}} body. Returns
// false when the body carries no structured error.
func ExtractError(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	parsed := gjson.ParseBytes(body)
	if msg := parsed.Get("error.message"); msg.Exists() && msg.String() != "" {
		return msg.String(), true
	}
	if code := parsed.Get("error.code"); code.Exists() && code.String() != "" {
		return code.String(), true
	}
	return "", false
}

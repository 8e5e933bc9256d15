package askshot

import "testing"

func TestExtractText(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{
			"chat message content",
			`{"choices":[{"message":{"content":"42"}}]}`,
			"42", true,
		},
		{
			"chat text fallback when message content is empty",
			`{"choices":[{"message":{"content":""},"text":"fallback"}]}`,
			"fallback", true,
		},
		{
			"chat text fallback when message is absent",
			`{"choices":[{"text":"legacy"}]}`,
			"legacy", true,
		},
		{
			"aggregated output_text",
			`{"output_text":"hi"}`,
			"hi", true,
		},
		{
			"structured output array",
			`{"output":[{"content":[{"text":"first"},{"text":"second"}]},{"content":[{"content":"third"}]}]}`,
			"first\nsecond\nthird", true,
		},
		{
			"message content array fallback",
			`{"message":{"content":[{"text":"a"},{"text":"b"}]}}`,
			"a\nb", true,
		},
		{
			"chat shape wins over responses shape",
			`{"choices":[{"message":{"content":"chat"}}],"output_text":"responses"}`,
			"chat", true,
		},
		{
			"empty object",
			`{}`,
			"", false,
		},
		{
			"empty output_text does not match",
			`{"output_text":""}`,
			"", false,
		},
		{
			"null message content does not match",
			`{"choices":[{"message":{"content":null}}]}`,
			"", false,
		},
		{
			"output array with no text parts",
			`{"output":[{"content":[{"type":"refusal"}]}]}`,
			"", false,
		},
		{
			"invalid JSON",
			`not json`,
			"", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractText([]byte(tt.body))
			if ok != tt.wantOK {
				t.Fatalf("ExtractText() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractError(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"message field", `{"error":{"message":"bad key"}}`, "bad key", true},
		{"code fallback", `{"error":{"code":"invalid_api_key"}}`, "invalid_api_key", true},
		{"numeric code", `{"error":{"code":401}}`, "401", true},
		{"message preferred over code", `{"error":{"message":"boom","code":"x"}}`, "boom", true},
		{"no error object", `{"ok":true}`, "", false},
		{"empty message and code", `{"error":{"message":"","code":""}}`, "", false},
		{"invalid JSON", `<!doctype html>`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractError([]byte(tt.body))
			if ok != tt.wantOK {
				t.Fatalf("ExtractError() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractError() = %q, want %q", got, tt.want)
			}
		})
	}
}

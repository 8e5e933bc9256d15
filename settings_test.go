package askshot

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInferModeFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Mode
	}{
		{"/v1/responses", ModeResponses},
		{"/openai/v1/responses", ModeResponses},
		{"/v1/chat/completions", ModeCompletions},
		{"/v1/completions", ModeCompletions},
		{"", ModeCompletions},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := InferModeFromPath(tt.path); got != tt.want {
				t.Errorf("InferModeFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDefaultPathForMode(t *testing.T) {
	if got := DefaultPathForMode(ModeResponses); got != "/v1/responses" {
		t.Errorf("DefaultPathForMode(responses) = %q", got)
	}
	if got := DefaultPathForMode(ModeCompletions); got != "/v1/chat/completions" {
		t.Errorf("DefaultPathForMode(completions) = %q", got)
	}
}

func TestEffectiveMode(t *testing.T) {
	s := &Settings{Mode: ModeResponses, Path: "/v1/chat/completions"}
	if got := s.EffectiveMode(); got != ModeResponses {
		t.Errorf("explicit mode should win, got %v", got)
	}

	s = &Settings{Path: "/v1/responses"}
	if got := s.EffectiveMode(); got != ModeResponses {
		t.Errorf("mode should be inferred from path, got %v", got)
	}

	s = &Settings{Mode: "bogus", Path: "/v1/responses"}
	if got := s.EffectiveMode(); got != ModeResponses {
		t.Errorf("invalid mode should fall back to path inference, got %v", got)
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		path    string
		mode    Mode
		want    string
	}{
		{"plain join", "https://api.openai.com", "/v1/chat/completions", "", "https://api.openai.com/v1/chat/completions"},
		{"trailing slash trimmed", "https://api.openai.com/", "/v1/responses", "", "https://api.openai.com/v1/responses"},
		{"leading slash added", "https://llm.local", "v1/chat/completions", "", "https://llm.local/v1/chat/completions"},
		{"empty path uses mode default", "https://llm.local", "", ModeResponses, "https://llm.local/v1/responses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{BaseURL: tt.baseURL, Path: tt.path, Mode: tt.mode}
			if got := s.Endpoint(); got != tt.want {
				t.Errorf("Endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOrigin(t *testing.T) {
	s := &Settings{BaseURL: "https://api.openai.com:8443", Path: "/v1/chat/completions"}
	origin, err := s.Origin()
	if err != nil {
		t.Fatalf("Origin() error = %v", err)
	}
	if origin != "https://api.openai.com:8443" {
		t.Errorf("Origin() = %q, want %q", origin, "https://api.openai.com:8443")
	}

	s = &Settings{BaseURL: "not a url"}
	if _, err := s.Origin(); err == nil {
		t.Error("Origin() should fail for a URL without scheme and host")
	}
}

func TestClampedTemperature(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0, 1.0},
		{0.0, 0.0},
		{2.0, 2.0},
		{-0.5, 0.0},
		{5.0, 2.0},
		{math.NaN(), 0.0},
	}

	for _, tt := range tests {
		s := &Settings{Temperature: tt.in}
		if got := s.ClampedTemperature(); got != tt.want {
			t.Errorf("ClampedTemperature() with %v = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampedMaxTokens(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{65536, 65536},
		{1, 1},
		{0, 1},
		{-10, 1},
		{50_000_000, 9_999_999},
	}

	for _, tt := range tests {
		s := &Settings{MaxTokens: tt.in}
		if got := s.ClampedMaxTokens(); got != tt.want {
			t.Errorf("ClampedMaxTokens() with %d = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults are valid", func(s *Settings) {}, false},
		{"missing base URL", func(s *Settings) { s.BaseURL = "" }, true},
		{"malformed base URL", func(s *Settings) { s.BaseURL = "not a url" }, true},
		{"missing model", func(s *Settings) { s.Model = "" }, true},
		{"unknown mode", func(s *Settings) { s.Mode = "grpc" }, true},
		{"unknown effort", func(s *Settings) { s.ReasoningEffort = "extreme" }, true},
		{"temperature above range", func(s *Settings) { s.Temperature = 3 }, true},
		{"negative max tokens", func(s *Settings) { s.MaxTokens = -5 }, true},
		{"responses preset", func(s *Settings) {
			s.Mode = ModeResponses
			s.Path = "/v1/responses"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeOverride(t *testing.T) {
	base := DefaultSettings()

	t.Run("nil override clones the base", func(t *testing.T) {
		merged := base.MergeOverride(nil)
		if merged == base {
			t.Fatal("MergeOverride(nil) must not alias the receiver")
		}
		if *merged != *base {
			t.Errorf("MergeOverride(nil) = %+v, want copy of base", merged)
		}
	})

	t.Run("set strings replace, empty strings keep base", func(t *testing.T) {
		merged := base.MergeOverride(&Settings{
			Model:          "gpt-test",
			StreamEnabled:  false,
			UseTemperature: true,
			Temperature:    0.2,
		})
		if merged.Model != "gpt-test" {
			t.Errorf("Model = %q, want override", merged.Model)
		}
		if merged.BaseURL != base.BaseURL {
			t.Errorf("BaseURL = %q, want base value kept", merged.BaseURL)
		}
		if merged.SystemPrompt != base.SystemPrompt {
			t.Errorf("SystemPrompt = %q, want base value kept", merged.SystemPrompt)
		}
	})

	t.Run("toggles always come from the override", func(t *testing.T) {
		merged := base.MergeOverride(&Settings{Model: "gpt-test"})
		if merged.StreamEnabled {
			t.Error("StreamEnabled should follow the override, not the base")
		}
		if merged.UseTemperature || merged.Temperature != 0 {
			t.Error("temperature toggle and value should follow the override")
		}
	})
}

func TestPresetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	content := `active: work
presets:
  work:
    base_url: https://llm.example.com
    path: /v1/responses
    mode: responses
    model: gpt-5
    reasoning_effort: high
    stream: false
    use_max_tokens: true
    max_tokens: 2048
  broken:
    reasoning_effort: extreme
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("LoadPresetFile() error = %v", err)
	}

	t.Run("active preset overlays the defaults", func(t *testing.T) {
		s, err := f.ActiveSettings()
		if err != nil {
			t.Fatalf("ActiveSettings() error = %v", err)
		}
		if s.Preset != "work" {
			t.Errorf("Preset = %q, want %q", s.Preset, "work")
		}
		if s.Model != "gpt-5" || s.BaseURL != "https://llm.example.com" {
			t.Errorf("preset values not applied: %+v", s)
		}
		if s.EffectiveMode() != ModeResponses {
			t.Errorf("EffectiveMode() = %v, want responses", s.EffectiveMode())
		}
		if s.StreamEnabled {
			t.Error("stream: false should override the default")
		}
		if !s.UseMaxTokens || s.MaxTokens != 2048 {
			t.Errorf("max tokens = (%v, %d), want (true, 2048)", s.UseMaxTokens, s.MaxTokens)
		}
		// Untouched keys keep their defaults.
		if s.UserPrompt == "" {
			t.Error("default user prompt should survive the overlay")
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		if _, err := f.Preset("nope"); err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("Preset(nope) error = %v, want not found", err)
		}
	})

	t.Run("invalid preset fails validation", func(t *testing.T) {
		if _, err := f.Preset("broken"); err == nil {
			t.Error("Preset(broken) should fail validation")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPresetFile(filepath.Join(dir, "absent.yaml")); err == nil {
			t.Error("LoadPresetFile() should fail for a missing file")
		}
	})

	t.Run("no active preset", func(t *testing.T) {
		empty := &PresetFile{}
		if _, err := empty.ActiveSettings(); err == nil {
			t.Error("ActiveSettings() should fail without an active name")
		}
	})
}

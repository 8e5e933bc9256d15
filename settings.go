package askshot

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

// Mode selects which of the two wire shapes is used with a destination.
type Mode string

// Known payload modes.
const (
	// ModeCompletions is the chat-completions request/response shape.
	ModeCompletions Mode = "completions"

	// ModeResponses is the responses-API request/response shape.
	ModeResponses Mode = "responses"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid returns true if the mode is a known payload mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeCompletions, ModeResponses:
		return true
	default:
		return false
	}
}

// InferModeFromPath guesses the payload mode from an API path.
// Paths containing "/responses" use the responses shape.
func InferModeFromPath(path string) Mode {
	if strings.Contains(path, "/responses") {
		return ModeResponses
	}
	return ModeCompletions
}

// DefaultPathForMode returns the conventional API path for a mode.
func DefaultPathForMode(m Mode) string {
	if m == ModeResponses {
		return "/v1/responses"
	}
	return "/v1/chat/completions"
}

// Effort is the reasoning-effort level requested from the model.
type Effort string

// Reasoning effort levels. EffortNone suppresses the field entirely.
const (
	EffortNone    Effort = "none"
	EffortMinimal Effort = "minimal"
	EffortLow     Effort = "low"
	EffortMedium  Effort = "medium"
	EffortHigh    Effort = "high"
)

// IsValid returns true if the effort is a known level.
func (e Effort) IsValid() bool {
	switch e {
	case EffortNone, EffortMinimal, EffortLow, EffortMedium, EffortHigh:
		return true
	default:
		return false
	}
}

// Settings describes one destination preset: where requests go and how the
// payload is generated. Credentials are never part of Settings; they live in
// a separate store keyed by the preset name.
type Settings struct {
	// Preset is the name of this preset, used to look up its credential.
	Preset string `yaml:"-" json:"preset,omitempty"`

	// BaseURL is the destination origin, e.g. "https://api.openai.com"
	BaseURL string `yaml:"base_url" json:"baseUrl"`

	// Path is the API path appended to BaseURL, e.g. "/v1/chat/completions"
	Path string `yaml:"path" json:"path"`

	// Mode selects the payload shape. Empty means infer from Path.
	Mode Mode `yaml:"mode" json:"mode,omitempty"`

	// Model is the model identifier sent in the payload
	Model string `yaml:"model" json:"model"`

	// ReasoningEffort is included in the payload unless set to "none"
	ReasoningEffort Effort `yaml:"reasoning_effort" json:"reasoningEffort,omitempty"`

	// SystemPrompt is prepended as a system turn unless the conversation
	// already carries one
	SystemPrompt string `yaml:"system_prompt" json:"systemPrompt,omitempty"`

	// UserPrompt is the default question used for single-image requests
	UserPrompt string `yaml:"user_prompt" json:"userPrompt,omitempty"`

	// StreamEnabled switches between SSE streaming and single-shot calls
	StreamEnabled bool `yaml:"stream" json:"streamEnabled"`

	// UseTemperature gates whether Temperature is transmitted at all.
	// When false the field is omitted from the payload, not zeroed.
	UseTemperature bool    `yaml:"use_temperature" json:"useTemperature"`
	Temperature    float64 `yaml:"temperature" json:"temperature"`

	// UseMaxTokens gates whether MaxTokens is transmitted at all.
	UseMaxTokens bool `yaml:"use_max_tokens" json:"useMaxTokens"`
	MaxTokens    int  `yaml:"max_tokens" json:"maxTokens"`
}

// DefaultSettings returns the stock preset.
func DefaultSettings() *Settings {
	return &Settings{
		Preset:          "default",
		BaseURL:         "https://api.openai.com",
		Path:            "/v1/chat/completions",
		Mode:            ModeCompletions,
		Model:           "o4-mini",
		ReasoningEffort: EffortMedium,
		SystemPrompt:    "You are an assistant skilled at understanding images and solving problems.",
		UserPrompt:      "Solve the problem in this screenshot, showing your reasoning and the final answer.",
		StreamEnabled:   true,
		UseTemperature:  false,
		Temperature:     1,
		UseMaxTokens:    false,
		MaxTokens:       65536,
	}
}

// Clone returns a copy of the settings.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}

// EffectiveMode returns the configured mode, or the mode inferred from the
// path when none is configured.
func (s *Settings) EffectiveMode() Mode {
	if s.Mode.IsValid() {
		return s.Mode
	}
	return InferModeFromPath(s.Path)
}

// Endpoint joins BaseURL and Path into the destination URL.
func (s *Settings) Endpoint() string {
	base := strings.TrimRight(s.BaseURL, "/")
	path := s.Path
	if path == "" {
		path = DefaultPathForMode(s.EffectiveMode())
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Origin returns the scheme://host origin of the destination URL.
func (s *Settings) Origin() (string, error) {
	u, err := url.Parse(s.Endpoint())
	if err != nil {
		return "", fmt.Errorf("invalid destination URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid destination URL: %q", s.Endpoint())
	}
	return u.Scheme + "://" + u.Host, nil
}

// ClampedTemperature returns the temperature clamped to [0, 2].
func (s *Settings) ClampedTemperature() float64 {
	return clampFloat(s.Temperature, 0, 2)
}

// ClampedMaxTokens returns the max-output-tokens clamped to [1, 9_999_999].
func (s *Settings) ClampedMaxTokens() int {
	return clampInt(s.MaxTokens, 1, 9_999_999)
}

// Validate checks the preset for values that could never produce a working
// request.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.BaseURL, validation.Required, is.URL),
		validation.Field(&s.Model, validation.Required),
		validation.Field(&s.Mode, validation.In(ModeCompletions, ModeResponses)),
		validation.Field(&s.ReasoningEffort,
			validation.In(EffortNone, EffortMinimal, EffortLow, EffortMedium, EffortHigh)),
		validation.Field(&s.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&s.MaxTokens, validation.Min(1), validation.Max(9_999_999)),
	)
}

// MergeOverride overlays an override preset on top of s and returns the
// result. String-ish fields replace only when set in the override; toggles
// and their values always come from the override, since a configuration
// under test supplies the complete form.
func (s *Settings) MergeOverride(ov *Settings) *Settings {
	merged := s.Clone()
	if ov == nil {
		return merged
	}
	if ov.Preset != "" {
		merged.Preset = ov.Preset
	}
	if ov.BaseURL != "" {
		merged.BaseURL = ov.BaseURL
	}
	if ov.Path != "" {
		merged.Path = ov.Path
	}
	if ov.Mode != "" {
		merged.Mode = ov.Mode
	}
	if ov.Model != "" {
		merged.Model = ov.Model
	}
	if ov.ReasoningEffort != "" {
		merged.ReasoningEffort = ov.ReasoningEffort
	}
	if ov.SystemPrompt != "" {
		merged.SystemPrompt = ov.SystemPrompt
	}
	if ov.UserPrompt != "" {
		merged.UserPrompt = ov.UserPrompt
	}
	merged.StreamEnabled = ov.StreamEnabled
	merged.UseTemperature = ov.UseTemperature
	merged.Temperature = ov.Temperature
	merged.UseMaxTokens = ov.UseMaxTokens
	merged.MaxTokens = ov.MaxTokens
	return merged
}

func clampFloat(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	return math.Min(max, math.Max(min, v))
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// PresetFile is a YAML file holding named destination presets and the name
// of the active one. Credentials deliberately have no place in this file.
type PresetFile struct {
	Active  string               `yaml:"active"`
	Presets map[string]yaml.Node `yaml:"presets"`
}

// LoadPresetFile reads and parses a preset file.
func LoadPresetFile(path string) (*PresetFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}
	var f PresetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse preset file: %w", err)
	}
	return &f, nil
}

// Preset resolves a named preset, overlaying its values on the defaults so
// partial presets stay usable.
func (f *PresetFile) Preset(name string) (*Settings, error) {
	node, ok := f.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found", name)
	}
	s := DefaultSettings()
	if err := node.Decode(s); err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	s.Preset = name
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return s, nil
}

// ActiveSettings resolves the preset named by the file's "active" key.
func (f *PresetFile) ActiveSettings() (*Settings, error) {
	if f.Active == "" {
		return nil, fmt.Errorf("preset file has no active preset")
	}
	return f.Preset(f.Active)
}

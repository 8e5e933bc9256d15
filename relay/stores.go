package relay

import (
	"context"
	"os"
	"strings"

	askshot "github.com/askshot/askshot-llm-go"
)

// SettingsStore resolves the active destination preset. It is read at the
// start of each request and never held across one.
type SettingsStore interface {
	Active(ctx context.Context) (*askshot.Settings, error)
}

// CredentialStore resolves the bearer token for a preset. Credentials are
// kept apart from Settings so they never travel with exported presets.
type CredentialStore interface {
	APIKey(ctx context.Context, preset string) (string, error)
}

// StaticSettings serves a fixed preset.
type StaticSettings struct {
	Settings *askshot.Settings
}

// Active returns a copy of the fixed preset.
func (s StaticSettings) Active(ctx context.Context) (*askshot.Settings, error) {
	if s.Settings == nil {
		return askshot.DefaultSettings(), nil
	}
	return s.Settings.Clone(), nil
}

// FileSettings serves the active preset from a YAML preset file. The file
// is re-read per request, so edits take effect on the next call.
type FileSettings struct {
	Path string
}

// Active loads the preset file and resolves its active preset.
func (s FileSettings) Active(ctx context.Context) (*askshot.Settings, error) {
	f, err := askshot.LoadPresetFile(s.Path)
	if err != nil {
		return nil, err
	}
	return f.ActiveSettings()
}

// StaticCredentials maps preset names to API keys.
type StaticCredentials map[string]string

// APIKey returns the key stored for the preset.
func (c StaticCredentials) APIKey(ctx context.Context, preset string) (string, error) {
	return c[preset], nil
}

// EnvCredentials reads API keys from the environment: first
// {PREFIX}_API_KEY_{PRESET}, then {PREFIX}_API_KEY as a shared fallback.
type EnvCredentials struct {
	// Prefix defaults to "ASKSHOT" when empty.
	Prefix string
}

// APIKey looks up the key for a preset.
func (c EnvCredentials) APIKey(ctx context.Context, preset string) (string, error) {
	prefix := c.Prefix
	if prefix == "" {
		prefix = "ASKSHOT"
	}
	if preset != "" {
		if key := os.Getenv(prefix + "_API_KEY_" + envName(preset)); key != "" {
			return key, nil
		}
	}
	return os.Getenv(prefix + "_API_KEY"), nil
}

// envName uppercases a preset name and replaces separators so it can form
// an environment variable name.
func envName(preset string) string {
	name := strings.ToUpper(preset)
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
}

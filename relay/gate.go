package relay

import (
	"context"
	"sync"

	askshot "github.com/askshot/askshot-llm-go"
)

// OriginGate confirms network access permission for a destination origin
// before any call is made. Implementations may ask the user interactively.
type OriginGate interface {
	EnsureOrigin(ctx context.Context, origin string) error
}

// AllowAll is an origin gate that grants everything.
type AllowAll struct{}

// EnsureOrigin always succeeds.
func (AllowAll) EnsureOrigin(ctx context.Context, origin string) error {
	return nil
}

// AllowlistGate grants origins from a fixed set, optionally asking for new
// ones through Prompt. A granted origin stays granted for the lifetime of
// the gate.
type AllowlistGate struct {
	// Prompt, when set, is asked once per unknown origin. Returning true
	// grants the origin permanently.
	Prompt func(origin string) bool

	mu      sync.Mutex
	granted map[string]bool
}

// NewAllowlistGate creates a gate pre-seeded with granted origins.
func NewAllowlistGate(origins ...string) *AllowlistGate {
	granted := make(map[string]bool, len(origins))
	for _, o := range origins {
		granted[o] = true
	}
	return &AllowlistGate{granted: granted}
}

// EnsureOrigin checks the grant set, consults Prompt for unknown origins,
// and fails with a permission error on denial.
func (g *AllowlistGate) EnsureOrigin(ctx context.Context, origin string) error {
	g.mu.Lock()
	ok := g.granted[origin]
	g.mu.Unlock()
	if ok {
		return nil
	}
	if g.Prompt != nil && g.Prompt(origin) {
		g.mu.Lock()
		g.granted[origin] = true
		g.mu.Unlock()
		return nil
	}
	return &askshot.PermissionError{Origin: origin}
}

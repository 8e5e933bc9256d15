package askshot

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHandoffTTL is how long an unconsumed handoff record survives.
const DefaultHandoffTTL = 60 * time.Second

type handoffRecord struct {
	history []Turn
	expires time.Time
}

// HandoffStore holds short-lived conversation snapshots being transferred
// between two UI surfaces. Each record is consumed at most once: Take is a
// single read-and-delete step, so two racing readers cannot both see it.
type HandoffStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]handoffRecord
}

// NewHandoffStore creates a store with the default expiry.
func NewHandoffStore() *HandoffStore {
	return &HandoffStore{
		ttl:     DefaultHandoffTTL,
		now:     time.Now,
		pending: make(map[string]handoffRecord),
	}
}

// Put stores a conversation snapshot and returns the session id the
// receiving surface uses to claim it. Expired leftovers are swept here so
// abandoned records cannot accumulate.
func (s *HandoffStore) Put(history []Turn) string {
	sid := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, rec := range s.pending {
		if now.After(rec.expires) {
			delete(s.pending, id)
		}
	}
	s.pending[sid] = handoffRecord{history: history, expires: now.Add(s.ttl)}
	return sid
}

// Take claims a stored snapshot. The second claim for the same session id,
// or a claim after expiry, reports not found.
func (s *HandoffStore) Take(sid string) ([]Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.pending[sid]
	if !ok {
		return nil, false
	}
	delete(s.pending, sid)
	if s.now().After(rec.expires) {
		return nil, false
	}
	return rec.history, true
}

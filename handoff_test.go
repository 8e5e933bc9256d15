package askshot

import (
	"testing"
	"time"
)

func TestHandoffStore_PutTake(t *testing.T) {
	s := NewHandoffStore()
	history := []Turn{UserTurn(TextBlock("what is this?"))}

	sid := s.Put(history)
	if sid == "" {
		t.Fatal("Put() returned an empty session id")
	}

	got, ok := s.Take(sid)
	if !ok {
		t.Fatal("Take() did not find the stored snapshot")
	}
	if len(got) != 1 || got[0].JoinedText() != "what is this?" {
		t.Errorf("Take() = %v, want the stored history", got)
	}
}

func TestHandoffStore_SecondTakeFails(t *testing.T) {
	s := NewHandoffStore()
	sid := s.Put([]Turn{UserTurn(TextBlock("once"))})

	if _, ok := s.Take(sid); !ok {
		t.Fatal("first Take() should succeed")
	}
	if _, ok := s.Take(sid); ok {
		t.Error("second Take() should report not found")
	}
}

func TestHandoffStore_UnknownSessionID(t *testing.T) {
	s := NewHandoffStore()
	if _, ok := s.Take("no-such-session"); ok {
		t.Error("Take() of an unknown session id should report not found")
	}
}

func TestHandoffStore_Expiry(t *testing.T) {
	now := time.Now()
	s := NewHandoffStore()
	s.now = func() time.Time { return now }

	sid := s.Put([]Turn{UserTurn(TextBlock("stale"))})

	now = now.Add(DefaultHandoffTTL + time.Second)
	if _, ok := s.Take(sid); ok {
		t.Error("Take() after expiry should report not found")
	}
}

func TestHandoffStore_PutSweepsExpired(t *testing.T) {
	now := time.Now()
	s := NewHandoffStore()
	s.now = func() time.Time { return now }

	s.Put([]Turn{UserTurn(TextBlock("abandoned"))})
	now = now.Add(DefaultHandoffTTL + time.Second)
	s.Put([]Turn{UserTurn(TextBlock("fresh"))})

	if len(s.pending) != 1 {
		t.Errorf("store holds %d records, want 1 after sweep", len(s.pending))
	}
}

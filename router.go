package askshot

import "sync"

// DeliverFunc receives stream events for one request. A non-nil error means
// the listening surface is gone; the router swallows it and never retries.
type DeliverFunc func(ev StreamEvent) error

// Router fans out delta and terminal events to the surfaces listening for a
// request id. Lookups are keyed by request id exclusively, so simultaneous
// requests never cross-deliver.
type Router struct {
	mu        sync.Mutex
	listeners map[string][]DeliverFunc
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{listeners: make(map[string][]DeliverFunc)}
}

// Listen associates a listener with a request id. Multiple listeners per id
// are allowed; each receives every event.
func (r *Router) Listen(requestID string, fn DeliverFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[requestID] = append(r.listeners[requestID], fn)
}

// Forget drops all listeners for a request id.
func (r *Router) Forget(requestID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, requestID)
}

// Deliver routes an event to the listeners registered for its request id.
// Missing or failing listeners are ignored. The terminal event releases the
// registration.
func (r *Router) Deliver(ev StreamEvent) {
	r.mu.Lock()
	targets := make([]DeliverFunc, len(r.listeners[ev.RequestID]))
	copy(targets, r.listeners[ev.RequestID])
	r.mu.Unlock()

	for _, fn := range targets {
		_ = fn(ev)
	}

	if ev.Type == EventTypeDone {
		r.Forget(ev.RequestID)
	}
}

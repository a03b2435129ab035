// internal/auth/bridge.go
//
// The bridge mirrors the service's current session into local state and
// publishes a change event on every sign-in, sign-out, and session restore.
// Subscribers hold a channel plus an unsubscribe handle for the lifetime of
// whatever view depends on auth state.

package auth

import "sync"

// EventType distinguishes session-change notifications.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is one session-change notification.
type Event struct {
	Type    EventType
	Session *Session // nil on sign-out
}

// Bridge holds the mirrored session and its subscribers.
type Bridge struct {
	mu      sync.Mutex
	current *Session
	nextID  int
	subs    map[int]chan Event
	closed  bool
}

func NewBridge() *Bridge {
	return &Bridge{subs: make(map[int]chan Event)}
}

// Current returns the mirrored session, or nil when signed out.
func (b *Bridge) Current() *Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Set mirrors a new session and notifies subscribers.
func (b *Bridge) Set(s *Session) {
	b.mu.Lock()
	b.current = s
	b.broadcast(Event{Type: EventSignedIn, Session: s})
	b.mu.Unlock()
}

// Clear drops the mirrored session and notifies subscribers.
func (b *Bridge) Clear() {
	b.mu.Lock()
	b.current = nil
	b.broadcast(Event{Type: EventSignedOut})
	b.mu.Unlock()
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; call it on teardown.
func (b *Bridge) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, 8)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Close tears down the bridge, closing every subscriber channel.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// broadcast delivers without blocking; slow subscribers drop events rather
// than stalling the auth path. Caller holds b.mu.
func (b *Bridge) broadcast(e Event) {
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

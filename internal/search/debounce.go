// internal/search/debounce.go
//
// Search input debouncing. Each client key gets at most one pending dispatch
// at a time: a newer input supersedes the previous one (last-input-wins) and
// nothing is dispatched until the input has been quiet for the full window.
// Inputs shorter than the minimum length cancel any pending dispatch and
// never reach the store.

package search

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	// Quiet is the debounce window between the last input and the dispatch.
	Quiet = 300 * time.Millisecond

	// MinQueryLen is the shortest trimmed input that triggers a query.
	MinQueryLen = 2
)

// Debouncer coalesces rapid inputs per client key.
type Debouncer struct {
	quiet  time.Duration
	minLen int

	mu      sync.Mutex
	pending map[string]*pending
}

type pending struct {
	superseded chan struct{}
}

// NewDebouncer builds a debouncer with the standard window and minimum.
func NewDebouncer() *Debouncer {
	return &Debouncer{quiet: Quiet, minLen: MinQueryLen, pending: make(map[string]*pending)}
}

// Submit registers an input for the key and blocks for the quiet window.
// It returns the trimmed query and true when the caller should dispatch, or
// false when the input was too short, superseded by a newer input, or the
// context ended first.
func (d *Debouncer) Submit(ctx context.Context, key, input string) (string, bool) {
	query := strings.TrimSpace(input)

	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		close(prev.superseded)
		delete(d.pending, key)
	}
	if len(query) < d.minLen {
		d.mu.Unlock()
		return query, false
	}
	p := &pending{superseded: make(chan struct{})}
	d.pending[key] = p
	d.mu.Unlock()

	t := time.NewTimer(d.quiet)
	defer t.Stop()
	select {
	case <-t.C:
	case <-p.superseded:
		return query, false
	case <-ctx.Done():
		d.drop(key, p)
		return query, false
	}

	// Confirm we are still the current input for this key.
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[key] != p {
		return query, false
	}
	delete(d.pending, key)
	return query, true
}

func (d *Debouncer) drop(key string, p *pending) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[key] == p {
		delete(d.pending, key)
	}
}

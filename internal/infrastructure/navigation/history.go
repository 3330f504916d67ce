// Package navigation keeps the navigable list of shareable document states
// a browser would keep in its session history.
package navigation

import (
	"net/url"
	"sync"

	"github.com/garyjia/invoice-wizard/internal/application/port"
)

// DefaultLimit bounds the number of kept entries
const DefaultLimit = 50

// History is an in-memory back/forward stack of encoded states
type History struct {
	mu      sync.RWMutex
	entries []url.Values
	cursor  int
	limit   int
}

// NewHistory creates a history holding initial as its only entry
func NewHistory(initial url.Values, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		entries: []url.Values{copyValues(initial)},
		limit:   limit,
	}
}

// Push appends an entry after the cursor, dropping any forward entries
func (h *History) Push(values url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.cursor+1], copyValues(values))
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries) - 1
}

// Replace overwrites the entry at the cursor
func (h *History) Replace(values url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.cursor] = copyValues(values)
}

// Current returns a copy of the entry at the cursor
func (h *History) Current() url.Values {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return copyValues(h.entries[h.cursor])
}

// Back moves the cursor one entry back. It returns false at the oldest entry.
func (h *History) Back() (url.Values, bool) {
	return h.move(-1)
}

// Forward moves the cursor one entry forward. It returns false at the newest entry.
func (h *History) Forward() (url.Values, bool) {
	return h.move(1)
}

func (h *History) move(delta int) (url.Values, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.cursor + delta
	if next < 0 || next >= len(h.entries) {
		return nil, false
	}
	h.cursor = next
	return copyValues(h.entries[next]), true
}

func copyValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Verify interface compliance
var _ port.History = (*History)(nil)

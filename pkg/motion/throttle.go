package motion

import (
	"sync"
	"time"
)

// ErrorThrottle bounds log volume during sustained failures: identical
// messages within the window are counted, and the count is reported with
// the next message that does get through.
type ErrorThrottle struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*throttleEntry
}

type throttleEntry struct {
	lastLogged time.Time
	suppressed int
}

// NewErrorThrottle creates a throttle with the given sliding window.
func NewErrorThrottle(window time.Duration) *ErrorThrottle {
	return &ErrorThrottle{
		window:  window,
		entries: make(map[string]*throttleEntry),
	}
}

// Allow reports whether a message with this key should be logged now.
// When it returns true, suppressed is the number of identical messages
// swallowed since the last logged one.
func (t *ErrorThrottle) Allow(key string, now time.Time) (suppressed int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, exists := t.entries[key]
	if !exists {
		t.entries[key] = &throttleEntry{lastLogged: now}
		return 0, true
	}

	if now.Sub(e.lastLogged) < t.window {
		e.suppressed++
		return 0, false
	}

	suppressed = e.suppressed
	e.suppressed = 0
	e.lastLogged = now
	return suppressed, true
}

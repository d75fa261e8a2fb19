package session

import (
	"sync"
	"time"
)

// Debouncer is a cancellable single-slot timer: each Trigger replaces the
// pending invocation, so a burst of triggers within the window collapses
// into one call with the last function.
type Debouncer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given settle window. A
// non-positive window makes Trigger invoke fn synchronously.
func NewDebouncer(d time.Duration) *Debouncer {
	return &Debouncer{d: d}
}

// Trigger schedules fn after the settle window, discarding any pending call.
func (db *Debouncer) Trigger(fn func()) {
	if db.d <= 0 {
		fn()
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, fn)
}

// Stop cancels any pending invocation.
func (db *Debouncer) Stop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}

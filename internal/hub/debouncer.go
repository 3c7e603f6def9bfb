package hub

import (
	"sync"
	"time"
)

const (
	debounceWindow  = 10 * time.Second
	debounceTrailBy = 11 * time.Second
)

// Debouncer coalesces a burst of change-feed ticks into at most one leading
// and one trailing "stats" broadcast per ~10s window, per spec.md §4.5.
// Grounded on original_source/src/util/tasks.rs's mongo_listen/debounce_task
// pair; last_update/debounced are guarded by their own mutex, independent
// of the Hub's sink-list mutex (spec.md §5: "No lock is ever acquired while
// another is held.").
type Debouncer struct {
	hub     *Hub
	window  time.Duration
	trailBy time.Duration

	mu         sync.Mutex
	lastUpdate time.Time
	debounced  bool
}

// NewDebouncer returns a Debouncer that broadcasts "stats" through hub,
// using the spec's 10s window and 11s trailing delay.
func NewDebouncer(hub *Hub) *Debouncer {
	return NewDebouncerWithWindow(hub, debounceWindow, debounceTrailBy)
}

// NewDebouncerWithWindow is NewDebouncer with an overridable window/trailing
// delay, for tests that can't afford to wait out the real 10s/11s spec
// constants.
func NewDebouncerWithWindow(hub *Hub, window, trailBy time.Duration) *Debouncer {
	return &Debouncer{hub: hub, window: window, trailBy: trailBy}
}

// Tick should be called once per change-feed event, with the current time.
func (d *Debouncer) Tick(now time.Time) {
	d.mu.Lock()

	if d.lastUpdate.IsZero() || now.Sub(d.lastUpdate) > d.window {
		d.lastUpdate = now
		d.debounced = false
		d.mu.Unlock()
		d.hub.Broadcast("stats")
		return
	}

	if d.debounced {
		d.mu.Unlock()
		return
	}

	d.debounced = true
	sleepFor := d.trailBy - now.Sub(d.lastUpdate)
	if sleepFor < 0 {
		sleepFor = 0
	}
	d.mu.Unlock()
	time.AfterFunc(sleepFor, d.fireTrailing)
}

func (d *Debouncer) fireTrailing() {
	d.mu.Lock()
	d.debounced = false
	d.mu.Unlock()
	d.hub.Broadcast("stats")
}

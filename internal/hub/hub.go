// Package hub implements H: the single-writer/many-reader fan-out of
// "stats" and "clock" events to every connected admin SSE stream. Grounded
// on the teacher's internal/api.Hub (a mutex-guarded map of sinks with a
// non-blocking broadcast loop), generalized from websocket connections to
// bounded string channels per spec.md §4.5, and on
// original_source/src/util/tasks.rs's sender-list/update_senders pair.
package hub

import (
	"sync"
)

// sinkBuffer is the depth of each admin client's outbound queue. A slow or
// wedged client fills this and starts dropping broadcasts rather than
// blocking the hub — see Broadcast.
const sinkBuffer = 8

// Sink is a single connected admin client's event queue.
type Sink struct {
	events chan string
}

// Events returns the channel an SSE handler should range over to stream
// events to its client.
func (s *Sink) Events() <-chan string {
	return s.events
}

// Hub is the fan-out broadcaster. The zero value is not usable; use New.
type Hub struct {
	mu    sync.Mutex
	sinks map[*Sink]struct{}
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{sinks: make(map[*Sink]struct{})}
}

// Join registers a new sink (spec.md §4.5: "On connect=true H appends the
// sink"). The returned Sink must be passed to Leave when the client
// disconnects.
func (h *Hub) Join() *Sink {
	s := &Sink{events: make(chan string, sinkBuffer)}
	h.mu.Lock()
	h.sinks[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Leave removes a sink by identity (spec.md §4.5: "On connect=false H
// removes it by sink identity").
func (h *Hub) Leave(s *Sink) {
	h.mu.Lock()
	delete(h.sinks, s)
	h.mu.Unlock()
}

// Broadcast enqueues event on every connected sink without blocking. A sink
// whose queue is full (the "receiver closed"/backed-up case spec.md §4.5
// describes) is collected and removed once the traversal finishes, so the
// membership map is never mutated mid-iteration.
func (h *Hub) Broadcast(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []*Sink
	for s := range h.sinks {
		select {
		case s.events <- event:
		default:
			dead = append(dead, s)
		}
	}
	for _, s := range dead {
		delete(h.sinks, s)
	}
}

// Len reports the current number of connected sinks, for stats/diagnostics.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks)
}

package vote

import (
	"sync"

	"github.com/hackjury/jury-engine/internal/store"
)

// judgeLocks serializes a single judge's writes end to end across a vote,
// per spec.md §4.3's ordering guarantee. Grounded on the teacher's
// internal/api.RateLimiter: a map of per-key mutexes guarded by one
// top-level mutex that is held only long enough to find-or-create the
// per-key entry, never across the actual work.
type judgeLocks struct {
	mu    sync.Mutex
	perID map[store.ObjectID]*sync.Mutex
}

func newJudgeLocks() *judgeLocks {
	return &judgeLocks{perID: make(map[store.ObjectID]*sync.Mutex)}
}

// lock acquires the per-judge mutex for id, creating it on first use, and
// returns a function that releases it.
func (l *judgeLocks) lock(id store.ObjectID) func() {
	l.mu.Lock()
	m, ok := l.perID[id]
	if !ok {
		m = &sync.Mutex{}
		l.perID[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

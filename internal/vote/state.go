package vote

import "github.com/hackjury/jury-engine/internal/store"

// state classifies a judge's (prev, next) pair into the three phases of
// spec.md §4.3's state machine.
type state int

const (
	stateBootstrap state = iota // prev = nil, next = nil
	stateFirst                  // prev = nil, next = some
	stateSteady                 // prev = some, next = some
)

func classify(j store.Judge) state {
	switch {
	case j.Prev == nil && j.Next == nil:
		return stateBootstrap
	case j.Prev == nil && j.Next != nil:
		return stateFirst
	default:
		return stateSteady
	}
}

// winnerLoser resolves which of a judge's prev/next project was preferred.
// currWinner = true means next won, per spec.md §4.3.
func winnerLoser(prev, next store.ObjectID, currWinner bool) (winner, loser store.ObjectID) {
	if currWinner {
		return next, prev
	}
	return prev, next
}

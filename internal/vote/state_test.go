package vote

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hackjury/jury-engine/internal/store"
)

func TestClassify(t *testing.T) {
	a := bson.NewObjectID()
	b := bson.NewObjectID()

	tests := []struct {
		name  string
		judge store.Judge
		want  state
	}{
		{"bootstrap", store.Judge{}, stateBootstrap},
		{"first", store.Judge{Next: &a}, stateFirst},
		{"steady", store.Judge{Prev: &a, Next: &b}, stateSteady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.judge); got != tt.want {
				t.Errorf("classify(%+v) = %v, want %v", tt.judge, got, tt.want)
			}
		})
	}
}

func TestWinnerLoser(t *testing.T) {
	prev := bson.NewObjectID()
	next := bson.NewObjectID()

	w, l := winnerLoser(prev, next, true)
	if w != next || l != prev {
		t.Errorf("currWinner=true: expected next to win, got winner=%v loser=%v", w, l)
	}

	w, l = winnerLoser(prev, next, false)
	if w != prev || l != next {
		t.Errorf("currWinner=false: expected prev to win, got winner=%v loser=%v", w, l)
	}
}

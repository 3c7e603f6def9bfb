package selector

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hackjury/jury-engine/internal/store"
)

func TestFilterCandidates_NoActiveProjects(t *testing.T) {
	got := FilterCandidates(nil, map[store.ObjectID]struct{}{})
	if len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestFilterCandidates_PrioritizedWins(t *testing.T) {
	a := store.Project{ID: bson.NewObjectID(), Active: true, Prioritized: true}
	b := store.Project{ID: bson.NewObjectID(), Active: true, Prioritized: false}

	got := FilterCandidates([]store.Project{a, b}, map[store.ObjectID]struct{}{})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only the prioritized project, got %+v", got)
	}
}

func TestFilterCandidates_BusyExcluded(t *testing.T) {
	a := store.Project{ID: bson.NewObjectID(), Active: true}
	b := store.Project{ID: bson.NewObjectID(), Active: true}

	busy := map[store.ObjectID]struct{}{a.ID: {}}
	got := FilterCandidates([]store.Project{a, b}, busy)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only the non-busy project, got %+v", got)
	}
}

func TestFilterCandidates_AllBusyReturnsEmpty(t *testing.T) {
	a := store.Project{ID: bson.NewObjectID(), Active: true}
	busy := map[store.ObjectID]struct{}{a.ID: {}}
	got := FilterCandidates([]store.Project{a}, busy)
	if len(got) != 0 {
		t.Fatalf("expected no candidates when the only project is busy, got %+v", got)
	}
}

func TestFilterCandidates_UnderSeenPreferred(t *testing.T) {
	fresh := store.Project{ID: bson.NewObjectID(), Active: true, Seen: 0}
	wellSeen := store.Project{ID: bson.NewObjectID(), Active: true, Seen: MinViews + 5}

	got := FilterCandidates([]store.Project{fresh, wellSeen}, map[store.ObjectID]struct{}{})
	if len(got) != 1 || got[0].ID != fresh.ID {
		t.Fatalf("expected only the under-seen project, got %+v", got)
	}
}

func TestFilterCandidates_AllWellSeenReturnsAll(t *testing.T) {
	a := store.Project{ID: bson.NewObjectID(), Active: true, Seen: MinViews + 1}
	b := store.Project{ID: bson.NewObjectID(), Active: true, Seen: MinViews + 2}

	got := FilterCandidates([]store.Project{a, b}, map[store.ObjectID]struct{}{})
	if len(got) != 2 {
		t.Fatalf("expected both well-seen projects retained, got %+v", got)
	}
}

func TestMaxInfoGain_PicksHighestEIG(t *testing.T) {
	close := store.Project{ID: bson.NewObjectID(), Mu: 0, SigmaSq: 1}
	far := store.Project{ID: bson.NewObjectID(), Mu: 5, SigmaSq: 1}

	got := maxInfoGain([]store.Project{close, far}, 10, 1, 0, 1)
	if got.ID != close.ID {
		t.Fatalf("expected the more informative (evenly matched) project to win, got %+v", got)
	}
}

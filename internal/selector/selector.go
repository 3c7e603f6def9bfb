// Package selector implements S: given a judge and the posterior store,
// choose the next project to show them. It is a prioritized filter cascade
// (active → prioritized → not-busy → under-seen) followed by ε-greedy
// max-expected-information-gain scoring, per spec.md §4.2. Grounded on
// original_source/src/util/judging_flow.rs (pick_next_project,
// find_preferred_items, max_info_gain).
package selector

import (
	"context"
	"math/rand/v2"

	"github.com/hackjury/jury-engine/internal/crowdbt"
	"github.com/hackjury/jury-engine/internal/store"
)

// MinViews is the design default below which a project is preferentially
// shown over already-well-seen ones (spec.md §4.2 step 4).
const MinViews = 3

// Selector chooses the next project for a judge.
type Selector struct {
	store *store.Store
	rng   *rand.Rand
}

// New returns a Selector backed by s, seeded from a cryptographically
// random source at construction.
func New(s *store.Store) *Selector {
	return &Selector{store: s, rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewWithRand returns a Selector using rng for shuffling and exploration,
// for deterministic tests.
func NewWithRand(s *store.Store, rng *rand.Rand) *Selector {
	return &Selector{store: s, rng: rng}
}

// Select returns the next project to show judge j, or nil if no eligible
// project exists (spec.md §4.2: "If the resulting list is empty, return
// None.").
func (sel *Selector) Select(ctx context.Context, j store.Judge) (*store.Project, error) {
	active, err := sel.store.FindAllActiveProjects(ctx)
	if err != nil {
		return nil, err
	}
	busy, err := sel.store.FindBusyProjectIDs(ctx)
	if err != nil {
		return nil, err
	}
	candidates := FilterCandidates(active, busy)
	if len(candidates) == 0 {
		return nil, nil
	}

	sel.rng.Shuffle(len(candidates), func(i, k int) {
		candidates[i], candidates[k] = candidates[k], candidates[i]
	})

	if sel.rng.Float64() < crowdbt.Epsilon {
		return &candidates[0], nil
	}

	prevMu, prevSigmaSq := crowdbt.MuPrior, crowdbt.SigmaSqPrior
	if j.Prev != nil {
		prev, err := sel.store.FindProjectByID(ctx, *j.Prev)
		if err != nil && err != store.ErrNotFound {
			return nil, err
		}
		if err == nil {
			prevMu, prevSigmaSq = prev.Mu, prev.SigmaSq
		}
	}

	return maxInfoGain(candidates, j.Alpha, j.Beta, prevMu, prevSigmaSq), nil
}

// FilterCandidates applies the cascade of spec.md §4.2 to a snapshot of
// active projects and the busy set. The prioritized and under-seen steps only
// narrow the set if doing so leaves something behind; the busy step always
// removes busy projects, even if none remain. It is expressed as a pipeline of filter+materialize
// steps rather than early-return branches (design note §9). It is pure —
// split out from Select so the cascade's boundary behaviors are testable
// without a live store.
func FilterCandidates(active []store.Project, busy map[store.ObjectID]struct{}) []store.Project {
	if len(active) == 0 {
		return nil
	}
	projects := active

	if anyMatch(projects, func(p store.Project) bool { return p.Prioritized }) {
		projects = filter(projects, func(p store.Project) bool { return p.Prioritized })
	}

	projects = filter(projects, func(p store.Project) bool {
		_, isBusy := busy[p.ID]
		return !isBusy
	})

	if anyMatch(projects, func(p store.Project) bool { return p.Seen < MinViews }) {
		projects = filter(projects, func(p store.Project) bool { return p.Seen < MinViews })
	}

	return projects
}

// maxInfoGain returns the candidate with the highest expected information
// gain for a judge with the given reliability, comparing against their
// previous project's posterior. Ties are broken by the caller's pre-shuffle
// order, per spec.md §4.2.
func maxInfoGain(candidates []store.Project, alpha, beta, prevMu, prevSigmaSq float64) *store.Project {
	best := 0
	bestEIG := -1.0
	for i, p := range candidates {
		eig, err := crowdbt.ExpectedInformationGain(alpha, beta, prevMu, prevSigmaSq, p.Mu, p.SigmaSq)
		if err != nil {
			// Numeric failure on this candidate: skip it rather than abort
			// the whole selection (spec.md §7 scopes Numeric errors to B;
			// the selector degrades by excluding the offending candidate).
			continue
		}
		if eig > bestEIG {
			bestEIG = eig
			best = i
		}
	}
	return &candidates[best]
}

func anyMatch(projects []store.Project, pred func(store.Project) bool) bool {
	for _, p := range projects {
		if pred(p) {
			return true
		}
	}
	return false
}

func filter(projects []store.Project, pred func(store.Project) bool) []store.Project {
	out := make([]store.Project, 0, len(projects))
	for _, p := range projects {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

// Package vote implements V: the transactional handler for a judge's
// pairwise decision. It reads P, calls B, writes P, calls S, and advances
// the judge's prev/next pointers, per spec.md §4.3. Grounded on the
// teacher's internal/shadow.Evaluator (a coordinator that reads state,
// calls a pure scoring engine, and writes the result back under a lock)
// and on original_source/src/api/judge.rs's vote handler.
package vote

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hackjury/jury-engine/internal/crowdbt"
	"github.com/hackjury/jury-engine/internal/selector"
	"github.com/hackjury/jury-engine/internal/store"
)

// ErrInvalidToken is returned when the token does not name any judge.
var ErrInvalidToken = errors.New("vote: invalid or expired token")

// ErrNumeric is returned when B reports non-finite inputs. Per spec.md
// §7's Numeric error taxonomy, V aborts the vote on this error and leaves
// P unchanged — no posterior write, no counter increment.
var ErrNumeric = errors.New("vote: non-finite crowd-bt update, vote aborted")

// Result is the payload returned to a judge after a vote: their ID, the
// project they just voted on (their prior `next`), and their new `next` —
// per spec.md §4.3's "Return payload".
type Result struct {
	JudgeID       store.ObjectID
	PrevProjectID *store.ObjectID
	NextProjectID *store.ObjectID
}

// Coordinator is V.
type Coordinator struct {
	store *store.Store
	sel   *selector.Selector
	locks *judgeLocks
}

func New(s *store.Store, sel *selector.Selector) *Coordinator {
	return &Coordinator{store: s, sel: sel, locks: newJudgeLocks()}
}

// Vote implements vote(judge_token, curr_winner) -> NextProject.
func (c *Coordinator) Vote(ctx context.Context, token string, currWinner bool) (Result, error) {
	judge, err := c.store.FindJudgeByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrInvalidToken
		}
		return Result{}, err
	}

	unlock := c.locks.lock(judge.ID)
	defer unlock()

	// Re-read under the lock: a concurrent vote by this same judge, serviced
	// by a different request, may have landed between the lookup above and
	// acquiring the lock.
	judge, err = c.store.FindJudgeByID(ctx, judge.ID)
	if err != nil {
		return Result{}, err
	}

	var result Result
	err = c.store.RunInTransaction(ctx, func(sessCtx context.Context) error {
		r, stepErr := c.step(sessCtx, judge, currWinner)
		if stepErr != nil {
			return stepErr
		}
		result = r
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (c *Coordinator) step(ctx context.Context, judge store.Judge, currWinner bool) (Result, error) {
	switch classify(judge) {
	case stateBootstrap:
		return c.bootstrap(ctx, judge)
	case stateFirst:
		return c.first(ctx, judge)
	default:
		return c.steady(ctx, judge, currWinner)
	}
}

// bootstrap: prev = nil, next = nil. No posterior change; just pick a
// first project and stash it in next.
func (c *Coordinator) bootstrap(ctx context.Context, judge store.Judge) (Result, error) {
	nextID, err := c.pickNext(ctx, judge)
	if err != nil {
		return Result{}, err
	}
	if err := c.store.SetJudgeNext(ctx, judge.ID, nil, nextID); err != nil {
		return Result{}, err
	}
	return Result{JudgeID: judge.ID, NextProjectID: nextID}, nil
}

// first: prev = nil, next = some. An ambiguous vote in this state is
// treated as advancing the bootstrap: prev <- next, next <- S(J). No
// posterior update, since there is no pair yet.
func (c *Coordinator) first(ctx context.Context, judge store.Judge) (Result, error) {
	prev := judge.Next
	advanced := judge
	advanced.Prev = prev

	nextID, err := c.pickNext(ctx, advanced)
	if err != nil {
		return Result{}, err
	}
	if err := c.store.SetJudgeNext(ctx, judge.ID, prev, nextID); err != nil {
		return Result{}, err
	}
	return Result{JudgeID: judge.ID, PrevProjectID: prev, NextProjectID: nextID}, nil
}

// steady: prev = some, next = some. The full Crowd-BT update, per
// spec.md §4.3's STEADY-state write list.
func (c *Coordinator) steady(ctx context.Context, judge store.Judge, currWinner bool) (Result, error) {
	winnerID, loserID := winnerLoser(*judge.Prev, *judge.Next, currWinner)

	winner, err := c.store.FindProjectByID(ctx, winnerID)
	if err != nil {
		return Result{}, fmt.Errorf("load winner project: %w", err)
	}
	loser, err := c.store.FindProjectByID(ctx, loserID)
	if err != nil {
		return Result{}, fmt.Errorf("load loser project: %w", err)
	}

	reliability, winnerPost, loserPost, err := crowdbt.Update(
		judge.Alpha, judge.Beta,
		winner.Mu, winner.SigmaSq,
		loser.Mu, loser.SigmaSq,
	)
	if err != nil {
		// Numeric policy (spec.md §4.1/§7): on non-finite inputs, B returns
		// the inputs unchanged and V aborts the vote here, before any write,
		// so P is genuinely left untouched rather than no-op-written.
		log.Printf("[vote] non-finite crowd-bt update for judge %s: %v", judge.ID.Hex(), err)
		return Result{}, fmt.Errorf("%w: %v", ErrNumeric, err)
	}

	if err := c.store.ApplyVoteOutcome(ctx, winnerID, loserID,
		winnerPost.Mu, winnerPost.SigmaSq, loserPost.Mu, loserPost.SigmaSq); err != nil {
		return Result{}, err
	}

	updated := judge
	updated.Alpha = reliability.Alpha
	updated.Beta = reliability.Beta
	updated.Prev = judge.Next

	nextID, err := c.pickNext(ctx, updated)
	if err != nil {
		return Result{}, err
	}

	if err := c.store.ApplyVoteJudgeState(ctx, judge.ID, reliability.Alpha, reliability.Beta, updated.Prev, nextID); err != nil {
		return Result{}, err
	}

	return Result{JudgeID: judge.ID, PrevProjectID: updated.Prev, NextProjectID: nextID}, nil
}

func (c *Coordinator) pickNext(ctx context.Context, judge store.Judge) (*store.ObjectID, error) {
	p, err := c.sel.Select(ctx, judge)
	if err != nil {
		return nil, fmt.Errorf("select next project: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	return &p.ID, nil
}

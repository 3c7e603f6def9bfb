package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FindProjectByID returns the project with the given ID, or ErrNotFound.
func (s *Store) FindProjectByID(ctx context.Context, id bson.ObjectID) (Project, error) {
	var p Project
	err := s.Projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return Project{}, translateNotFound(err)
	}
	return p, nil
}

// FindAllActiveProjects returns every project with active = true.
func (s *Store) FindAllActiveProjects(ctx context.Context) ([]Project, error) {
	cur, err := s.Projects.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FindAllProjects returns every project, active or not (used by admin
// stats aggregation).
func (s *Store) FindAllProjects(ctx context.Context) ([]Project, error) {
	cur, err := s.Projects.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// InsertProject assigns the project the next table location and creates it.
// Location assignment and the project insert are not wrapped in the same
// transaction as a vote (spec.md §3: location is issued at creation time,
// independent of the vote path), but must still be atomic with respect to
// other concurrent creations: nextLocation does a single
// findAndModify-style read-then-update under the Options document, per
// original_source/src/db/options.rs.
func (s *Store) InsertProject(ctx context.Context, p Project) (Project, error) {
	location, err := s.nextLocation(ctx)
	if err != nil {
		return Project{}, fmt.Errorf("allocate location: %w", err)
	}
	p.Location = location
	if p.LastActivity.IsZero() {
		p.LastActivity = time.Now()
	}
	if p.SigmaSq == 0 {
		p.SigmaSq = 1
	}

	res, err := s.Projects.InsertOne(ctx, p)
	if err != nil {
		return Project{}, err
	}
	p.ID = res.InsertedID.(bson.ObjectID)
	return p, nil
}

// DeleteProject removes a project by ID. Admin-only per spec.md §3 lifecycle.
func (s *Store) DeleteProject(ctx context.Context, id bson.ObjectID) error {
	_, err := s.Projects.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ApplyVoteOutcome writes the winner's and loser's updated posteriors and
// counters, per spec.md §4.3's STEADY-state write list. ctx should carry
// the vote coordinator's session when the deployment supports transactions.
func (s *Store) ApplyVoteOutcome(ctx context.Context, winnerID, loserID bson.ObjectID, winnerMu, winnerSigmaSq, loserMu, loserSigmaSq float64) error {
	now := time.Now()

	_, err := s.Projects.UpdateOne(ctx, bson.M{"_id": winnerID}, bson.M{
		"$set": bson.M{"mu": winnerMu, "sigma_sq": winnerSigmaSq, "last_activity": now},
		"$inc": bson.M{"seen": 1, "votes": 1},
	})
	if err != nil {
		return fmt.Errorf("update winner: %w", err)
	}

	_, err = s.Projects.UpdateOne(ctx, bson.M{"_id": loserID}, bson.M{
		"$set": bson.M{"mu": loserMu, "sigma_sq": loserSigmaSq, "last_activity": now},
		"$inc": bson.M{"seen": 1},
	})
	if err != nil {
		return fmt.Errorf("update loser: %w", err)
	}

	return nil
}

// FindBusyProjectIDs returns the distinct `next` IDs of all active judges:
// the busy set of spec.md §4.2 step 3.
func (s *Store) FindBusyProjectIDs(ctx context.Context) (map[bson.ObjectID]struct{}, error) {
	cur, err := s.Judges.Find(ctx, bson.M{"active": true, "next": bson.M{"$ne": nil}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	busy := make(map[bson.ObjectID]struct{})
	var judges []Judge
	if err := cur.All(ctx, &judges); err != nil {
		return nil, err
	}
	for _, j := range judges {
		if j.Next != nil {
			busy[*j.Next] = struct{}{}
		}
	}
	return busy, nil
}

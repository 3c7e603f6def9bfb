package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FindJudgeByID returns the judge with the given ID, or ErrNotFound.
func (s *Store) FindJudgeByID(ctx context.Context, id bson.ObjectID) (Judge, error) {
	var j Judge
	err := s.Judges.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if err != nil {
		return Judge{}, translateNotFound(err)
	}
	return j, nil
}

// FindJudgeByCode looks up a judge by its six-digit login code.
func (s *Store) FindJudgeByCode(ctx context.Context, code string) (Judge, error) {
	var j Judge
	err := s.Judges.FindOne(ctx, bson.M{"code": code}).Decode(&j)
	if err != nil {
		return Judge{}, translateNotFound(err)
	}
	return j, nil
}

// FindJudgeByToken looks up a judge by its session token.
func (s *Store) FindJudgeByToken(ctx context.Context, token string) (Judge, error) {
	var j Judge
	err := s.Judges.FindOne(ctx, bson.M{"token": token}).Decode(&j)
	if err != nil {
		return Judge{}, translateNotFound(err)
	}
	return j, nil
}

// FindAllActiveJudges returns every judge with active = true.
func (s *Store) FindAllActiveJudges(ctx context.Context) ([]Judge, error) {
	cur, err := s.Judges.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var judges []Judge
	if err := cur.All(ctx, &judges); err != nil {
		return nil, err
	}
	return judges, nil
}

// FindAllJudges returns every judge.
func (s *Store) FindAllJudges(ctx context.Context) ([]Judge, error) {
	cur, err := s.Judges.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var judges []Judge
	if err := cur.All(ctx, &judges); err != nil {
		return nil, err
	}
	return judges, nil
}

// InsertJudge creates a new judge document. Per spec.md §7 Conflict
// handling, the caller (internal/api) is responsible for retrying code
// generation on a uniqueness collision; this just does the write.
func (s *Store) InsertJudge(ctx context.Context, j Judge) (Judge, error) {
	if j.LastActivity.IsZero() {
		j.LastActivity = time.Now()
	}
	res, err := s.Judges.InsertOne(ctx, j)
	if err != nil {
		return Judge{}, err
	}
	j.ID = res.InsertedID.(bson.ObjectID)
	return j, nil
}

// DeleteJudge removes a judge by ID.
func (s *Store) DeleteJudge(ctx context.Context, id bson.ObjectID) error {
	_, err := s.Judges.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// UpdateJudgeToken rotates a judge's token on login, per spec.md §3's
// "token rotated on each login" lifecycle rule.
func (s *Store) UpdateJudgeToken(ctx context.Context, code, token string) error {
	_, err := s.Judges.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$set": bson.M{"token": token}})
	return err
}

// SetReadWelcome flips the one-shot welcome latch for the judge owning token.
func (s *Store) SetReadWelcome(ctx context.Context, token string) error {
	_, err := s.Judges.UpdateOne(ctx, bson.M{"token": token}, bson.M{"$set": bson.M{"read_welcome": true}})
	return err
}

// ApplyVoteJudgeState writes the judge's updated reliability, advances
// prev/next, and increments the votes counter, per spec.md §4.3's
// STEADY-state write list.
func (s *Store) ApplyVoteJudgeState(ctx context.Context, judgeID bson.ObjectID, alpha, beta float64, prev, next *bson.ObjectID) error {
	_, err := s.Judges.UpdateOne(ctx, bson.M{"_id": judgeID}, bson.M{
		"$set": bson.M{
			"alpha":         alpha,
			"beta":          beta,
			"prev":          prev,
			"next":          next,
			"last_activity": time.Now(),
		},
		"$inc": bson.M{"votes": 1},
	})
	if err != nil {
		return fmt.Errorf("update judge state: %w", err)
	}
	return nil
}

// SetJudgeNext sets a judge's `prev` and `next` pointers and last_activity,
// leaving reliability and counters alone. Used by the BOOTSTRAP and FIRST
// transitions of spec.md §4.3, which advance the pointers without a
// posterior update.
func (s *Store) SetJudgeNext(ctx context.Context, judgeID bson.ObjectID, prev, next *bson.ObjectID) error {
	_, err := s.Judges.UpdateOne(ctx, bson.M{"_id": judgeID}, bson.M{
		"$set": bson.M{"prev": prev, "next": next, "last_activity": time.Now()},
	})
	return err
}

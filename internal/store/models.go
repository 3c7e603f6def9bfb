// Package store is the posterior store (P in spec terms): the persistent
// per-project skill posterior and per-judge reliability posterior, backed
// by MongoDB. It mirrors the shape of the teacher's internal/db package
// (a thin struct wrapping a driver handle, one file per collection) with
// collections and field names taken from spec.md §3 and grounded on
// original_source/src/db/models.rs.
package store

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ObjectID re-exports the driver's document identity type so callers outside
// this package (internal/selector, internal/vote, internal/api) never need
// to import the driver directly just to hold or compare an ID.
type ObjectID = bson.ObjectID

// ObjectIDFromHex re-exports the driver's hex parser alongside ObjectID for
// the same reason.
func ObjectIDFromHex(hex string) (ObjectID, error) {
	return bson.ObjectIDFromHex(hex)
}

// Project is a single expo entry being judged.
type Project struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Location     int           `bson:"location"`
	Description  string        `bson:"description"`
	Links        []string      `bson:"links"`
	ChallengeTags []string     `bson:"challenge_tags"`
	Seen         int64         `bson:"seen"`
	Votes        int64         `bson:"votes"`
	Mu           float64       `bson:"mu"`
	SigmaSq      float64       `bson:"sigma_sq"`
	Active       bool          `bson:"active"`
	Prioritized  bool          `bson:"prioritized"`
	LastActivity time.Time     `bson:"last_activity"`
}

// NewProject returns a Project with the default priors from spec.md §3.
func NewProject(name, description string, location int) Project {
	return Project{
		Name:         name,
		Location:     location,
		Description:  description,
		Mu:           0,
		SigmaSq:      1,
		Active:       true,
		LastActivity: time.Now(),
	}
}

// Judge is a human expo judge.
type Judge struct {
	ID           bson.ObjectID  `bson:"_id,omitempty"`
	Code         string         `bson:"code"`
	Token        string         `bson:"token"`
	Name         string         `bson:"name"`
	Email        string         `bson:"email"`
	Notes        string         `bson:"notes"`
	Active       bool           `bson:"active"`
	ReadWelcome  bool           `bson:"read_welcome"`
	Prev         *bson.ObjectID `bson:"prev,omitempty"`
	Next         *bson.ObjectID `bson:"next,omitempty"`
	Votes        int64          `bson:"votes"`
	Alpha        float64        `bson:"alpha"`
	Beta         float64        `bson:"beta"`
	LastActivity time.Time      `bson:"last_activity"`
}

// NewJudge returns a Judge with the reliability priors from spec.md §3.
func NewJudge(code, name, email, notes string) Judge {
	return Judge{
		Code:         code,
		Name:         name,
		Email:        email,
		Notes:        notes,
		Active:       true,
		Alpha:        10,
		Beta:         1,
		LastActivity: time.Now(),
	}
}

// Options is the singleton table-numbering counter.
type Options struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	NextTableNum int           `bson:"next_table_num"`
}

package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrNotFound is the store's NotFound error kind (spec.md §7): the
// referenced project, judge, or options document does not exist.
var ErrNotFound = errors.New("store: not found")

func translateNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

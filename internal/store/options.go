package store

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GetOptions returns the singleton Options document, creating it on first
// read (spec.md §3: "Options: created on first write").
func (s *Store) GetOptions(ctx context.Context) (Options, error) {
	var o Options
	err := s.Options.FindOne(ctx, bson.M{}).Decode(&o)
	if err == nil {
		return o, nil
	}
	if err != mongo.ErrNoDocuments {
		return Options{}, err
	}

	o = Options{NextTableNum: 1}
	res, err := s.Options.InsertOne(ctx, o)
	if err != nil {
		return Options{}, err
	}
	o.ID = res.InsertedID.(bson.ObjectID)
	return o, nil
}

// nextLocation returns the next unused table location and advances the
// counter past it, atomically via findOneAndUpdate. Locations are issued in
// insertion order starting at 1, per spec.md §3's invariant.
func (s *Store) nextLocation(ctx context.Context) (int, error) {
	if _, err := s.GetOptions(ctx); err != nil {
		return 0, err
	}

	after := options.After
	var o Options
	err := s.Options.FindOneAndUpdate(
		ctx,
		bson.M{},
		bson.M{"$inc": bson.M{"next_table_num": 1}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&o)
	if err != nil {
		return 0, err
	}

	// next_table_num now holds the value *after* this allocation; the
	// location just issued is one less.
	return o.NextTableNum - 1, nil
}

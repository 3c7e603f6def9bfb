package store

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store wraps the MongoDB handles for the three collections spec.md §3/§6
// names: projects, judges, options.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	Projects *mongo.Collection
	Judges   *mongo.Collection
	Options  *mongo.Collection
}

// Connect dials the document store at uri and returns a Store bound to
// dbName. Mirrors the teacher's db.Connect(connStr): ping once so startup
// fails fast on an unreachable cluster rather than lazily on first use.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	db := client.Database(dbName)
	log.Println("Successfully connected to MongoDB for the judging engine")

	return &Store{
		client:   client,
		db:       db,
		Projects: db.Collection("projects"),
		Judges:   db.Collection("judges"),
		Options:  db.Collection("options"),
	}, nil
}

// Close gracefully disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Database exposes the underlying *mongo.Database, for components (the
// change-feed listener's $changeStream) that need driver access beyond a
// single collection.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Client exposes the underlying *mongo.Client, needed to start a session
// for the vote coordinator's multi-document transaction.
func (s *Store) Client() *mongo.Client {
	return s.client
}

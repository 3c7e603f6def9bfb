// Package changefeed implements L: a background subscriber on the document
// store's change feed that ticks H's debouncer on every event, discarding
// the payload itself. Grounded on the teacher's internal/mempool.Poller
// (a ctx.Done()-aware background loop owned by main, logging and returning
// on unrecoverable error) and on original_source/src/util/tasks.rs's
// mongo_listen, which opens a whole-database change stream and calls
// debounce_task on every event.
package changefeed

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/hackjury/jury-engine/internal/hub"
)

// Listener opens a change stream covering the whole database and feeds
// every event into a Debouncer.
type Listener struct {
	db        *mongo.Database
	debouncer *hub.Debouncer
}

func New(db *mongo.Database, debouncer *hub.Debouncer) *Listener {
	return &Listener{db: db, debouncer: debouncer}
}

// Run opens the change stream and ticks the debouncer for every event it
// sees, until the stream ends, errors, or ctx is canceled. Per spec.md
// §4.6, a stream error or end is logged and Run returns; it does not retry
// itself — a supervisor (cmd/jury/main.go's errgroup) decides whether to
// restart it.
func (l *Listener) Run(ctx context.Context) error {
	stream, err := l.db.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		log.Printf("[changefeed] failed to open change stream: %v", err)
		return err
	}
	defer stream.Close(ctx)

	log.Println("[changefeed] watching database for changes")

	for stream.Next(ctx) {
		l.debouncer.Tick(time.Now())
	}

	if err := stream.Err(); err != nil {
		log.Printf("[changefeed] change stream error: %v", err)
		return err
	}

	log.Println("[changefeed] change stream closed")
	return nil
}

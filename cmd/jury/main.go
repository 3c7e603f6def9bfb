package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/KimMachineGun/automemlimit/memlimit"
	"golang.org/x/sync/errgroup"
	_ "go.uber.org/automaxprocs"

	"github.com/hackjury/jury-engine/internal/api"
	"github.com/hackjury/jury-engine/internal/changefeed"
	"github.com/hackjury/jury-engine/internal/clock"
	"github.com/hackjury/jury-engine/internal/config"
	"github.com/hackjury/jury-engine/internal/hub"
	"github.com/hackjury/jury-engine/internal/selector"
	"github.com/hackjury/jury-engine/internal/store"
	"github.com/hackjury/jury-engine/internal/vote"
)

func main() {
	log.Println("Starting Hack Jury judging engine...")

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: unable to connect to MongoDB: %v", err)
	}
	defer s.Close(context.Background())

	sel := selector.New(s)
	eventClock := clock.New()
	h := hub.New()
	debouncer := hub.NewDebouncer(h)
	coordinator := vote.New(s, sel)
	listener := changefeed.New(s.Database(), debouncer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := listener.Run(gctx); err != nil {
			log.Printf("Warning: change-feed listener exited: %v", err)
		}
		// The listener's own error is non-fatal to the server: live voting
		// still works, admin clients simply stop getting change-feed-driven
		// "stats" pushes (each vote still broadcasts "stats" directly) until
		// the process is restarted.
		return nil
	})

	r := api.SetupRouter(s, sel, coordinator, eventClock, h, cfg)

	g.Go(func() error {
		log.Printf("Judging engine listening on :%s\n", cfg.Port)
		if err := r.Run(":" + cfg.Port); err != nil {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

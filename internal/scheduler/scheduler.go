// Package scheduler wires up the cron job that periodically re-ranks
// the job feed for every user with an active job profile, so stored
// match scores track freshly ingested jobs and freshness decay without
// waiting for the user to trigger a rank themselves.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"jobmate/matching-service/internal/matching"
)

// Scheduler wraps robfig/cron and manages the re-rank loop.
type Scheduler struct {
	cron *cron.Cron
	svc  *matching.Service
	spec string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(svc *matching.Service, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		svc:  svc,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one
// re-rank immediately so stored matches are fresh after a deploy.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRank(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runRank(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runRank re-ranks every active profile with default options. Per-user
// failures are logged and skipped so one bad profile cannot stall the
// whole cycle.
func (s *Scheduler) runRank(ctx context.Context) {
	log.Println("[scheduler] Re-rank cycle started")

	userIDs, err := s.svc.LoadActiveUserIDs(ctx)
	if err != nil {
		log.Printf("[scheduler] LoadActiveUserIDs error: %v", err)
		return
	}

	if len(userIDs) == 0 {
		log.Println("[scheduler] No active job profiles — nothing to rank")
		return
	}

	log.Printf("[scheduler] Re-ranking %d profile(s)", len(userIDs))
	for _, userID := range userIDs {
		matches, err := s.svc.RankAndStore(ctx, userID, matching.RankOptions{})
		if err != nil {
			if errors.Is(err, matching.ErrProfileNotFound) {
				// Profile deactivated between the list query and the run.
				continue
			}
			log.Printf("[scheduler] Re-rank error for user %s: %v", userID, err)
			continue
		}
		log.Printf("[scheduler] User %s — %d match(es) stored", userID, len(matches))
	}

	log.Println("[scheduler] Re-rank cycle complete")
}

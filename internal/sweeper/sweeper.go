// Package sweeper runs the recurring liveness sweep that evicts inactive
// participants and fans their departure notices out to connected viewers.
package sweeper

import (
	"context"
	"log"
	"time"

	"batepapo-service/internal/models"
	"batepapo-service/internal/observability"
)

// PresenceSweeper is the slice of the presence registry the sweeper drives.
type PresenceSweeper interface {
	SweepExpired(ctx context.Context) ([]models.Participant, []models.Message, error)
}

// Broadcaster pushes departure notices to live feed connections.
type Broadcaster interface {
	BroadcastMessage(msg models.Message)
}

// Sweeper triggers eviction cycles on a fixed interval, independent of
// request traffic.
type Sweeper struct {
	presence PresenceSweeper
	hub      Broadcaster
	interval time.Duration
}

// New constructs a Sweeper.
func New(presence PresenceSweeper, hub Broadcaster, interval time.Duration) *Sweeper {
	return &Sweeper{presence: presence, hub: hub, interval: interval}
}

// Run loops until ctx is cancelled. Cycle failures are logged and absorbed;
// the next tick is the retry mechanism.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("sweeper started interval=%s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	evicted, notices, err := s.presence.SweepExpired(ctx)

	if s.hub != nil {
		for _, notice := range notices {
			s.hub.BroadcastMessage(notice)
		}
	}

	if err != nil {
		log.Printf("sweep cycle finished with errors: %v", err)
	}
	if len(evicted) > 0 {
		log.Printf("sweep evicted %d participant(s)", len(evicted))
	}
	observability.ObserveSweep(time.Since(start), err != nil)
}

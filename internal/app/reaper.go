package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper is what the reaper drives; satisfied by *Coordinator.
type Sweeper interface {
	SweepIdle(threshold time.Duration) int
}

// Reaper periodically deletes rooms left empty past the idle threshold.
// It is a safety net behind the immediate-leave and grace-period paths:
// a lost grace timer only slows cleanup down, it never leaks a room.
type Reaper struct {
	sweeper   Sweeper
	interval  time.Duration
	threshold time.Duration
}

func NewReaper(sweeper Sweeper, interval, threshold time.Duration) *Reaper {
	return &Reaper{sweeper: sweeper, interval: interval, threshold: threshold}
}

// Run blocks until ctx is canceled. Call it in its own goroutine.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.reaper").Msg("reaper stopped")
			return
		case <-ticker.C:
			if n := r.sweeper.SweepIdle(r.threshold); n > 0 {
				log.Info().Str("module", "app.reaper").Int("reaped", n).Msg("sweep complete")
			}
		}
	}
}

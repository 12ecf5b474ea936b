package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) SweepIdle(threshold time.Duration) int {
	c.calls.Add(1)
	return 0
}

func TestReaperTicksUntilCanceled(t *testing.T) {
	sweeper := &countingSweeper{}
	reaper := NewReaper(sweeper, 10*time.Millisecond, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop on ctx cancel")
	}
}

func TestReaperReclaimsAbandonedRoom(t *testing.T) {
	coord, store := newTestCoordinator(time.Hour)
	defer coord.Close()

	code, err := coord.Create()
	require.NoError(t, err)
	_, ok := store.Get(code)
	require.True(t, ok)

	reaper := NewReaper(coord, 10*time.Millisecond, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reaper.Run(ctx)

	// created but never joined: reaped once past the idle threshold,
	// even though no grace timer was ever armed for it
	assert.Eventually(t, func() bool {
		_, ok := store.Get(code)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

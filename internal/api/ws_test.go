package api

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strut-data/gait.report/internal/gait"
	"github.com/strut-data/gait.report/internal/timeutil"
)

// advanceUntilPush steps the mock clock forward until the push loop delivers
// a message, returning the message and how many steps it took.
func advanceUntilPush(t *testing.T, clock *timeutil.MockClock, pushes <-chan interface{}, step time.Duration, maxSteps int) (interface{}, int) {
	t.Helper()
	for i := 1; i <= maxSteps; i++ {
		clock.Advance(step)
		select {
		case v := <-pushes:
			return v, i
		case <-time.After(20 * time.Millisecond):
		}
	}
	t.Fatalf("no push after %d advances of %v", maxSteps, step)
	return nil, 0
}

func TestPushClassificationsFollowsIntervalUpdates(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	cfg := gait.DefaultConfig()
	cfg.ClassifyPushInterval = 600 * time.Millisecond
	sessions := gait.NewSessionManager(cfg, clock)
	server := NewServer(sessions, clock)

	// Unbuffered so each cycle blocks until the test consumes its push,
	// keeping the loop and the clock in lockstep.
	pushes := make(chan interface{})
	done := make(chan struct{})
	defer close(done)
	go server.pushClassifications(done, sessions.Default(), func(v interface{}) error {
		select {
		case pushes <- v:
			return nil
		case <-done:
			return errors.New("closed")
		}
	})

	// First push arrives at the initial 600ms cadence.
	msg, steps := advanceUntilPush(t, clock, pushes, 100*time.Millisecond, 20)
	require.GreaterOrEqual(t, steps, 6)
	pushed, ok := msg.(wsClassification)
	require.True(t, ok)
	assert.Equal(t, "classification", pushed.Type)

	// Shrink the interval the way a POST /api/params does.
	sessions.UpdateConfig(func(c *gait.Config) {
		c.ClassifyPushInterval = 100 * time.Millisecond
	})

	// The cycle already in flight may still run at the old interval.
	advanceUntilPush(t, clock, pushes, 100*time.Millisecond, 20)

	// Every cycle after that must use the updated interval: a push has to
	// land within 500ms, which the old 600ms cadence could never deliver.
	_, steps = advanceUntilPush(t, clock, pushes, 100*time.Millisecond, 5)
	assert.LessOrEqual(t, steps, 5)
}

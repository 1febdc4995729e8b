package engine

import (
	"context"
	"time"
)

// Clock supplies wall-clock time and the wait between ticks
type Clock interface {
	Now() (time.Time, error)
	// Wait blocks for d, returning early when wake fires or ctx is done
	Wait(ctx context.Context, d time.Duration, wake <-chan struct{})
}

// SystemClock is the real clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() (time.Time, error) {
	return time.Now(), nil
}

// Wait sleeps for d unless interrupted
func (SystemClock) Wait(ctx context.Context, d time.Duration, wake <-chan struct{}) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-wake:
	case <-timer.C:
	}
}

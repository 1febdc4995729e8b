//go:build !windows

package control

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_ForwardsSignals(t *testing.T) {
	q := NewQueue(4)
	stop := Notify(context.Background(), q)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case <-q.Wake():
	case <-time.After(2 * time.Second):
		t.Fatal("signal was not forwarded")
	}
	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, EventToggle, e)
}

func TestEventFor(t *testing.T) {
	assert.Equal(t, EventStop, eventFor(syscall.SIGINT))
	assert.Equal(t, EventStop, eventFor(syscall.SIGTERM))
	assert.Equal(t, EventToggle, eventFor(syscall.SIGUSR1))
}

package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PollOrder(t *testing.T) {
	q := NewQueue(4)
	assert.True(t, q.Post(EventToggle))
	assert.True(t, q.Post(EventStop))

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, EventToggle, e)

	e, ok = q.Poll()
	require.True(t, ok)
	assert.Equal(t, EventStop, e)

	_, ok = q.Poll()
	assert.False(t, ok, "empty queue must not block or return an event")
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Post(EventStop))
	assert.True(t, q.Post(EventStop))
	assert.False(t, q.Post(EventToggle))
}

func TestQueue_WakeCoalesces(t *testing.T) {
	q := NewQueue(8)
	q.Post(EventToggle)
	q.Post(EventToggle)
	q.Post(EventToggle)

	select {
	case <-q.Wake():
	default:
		t.Fatal("expected a wake signal")
	}
	select {
	case <-q.Wake():
		t.Fatal("wake signals should coalesce")
	default:
	}
}

func TestQueue_ClosedRejectsPost(t *testing.T) {
	q := NewQueue(4)
	q.Post(EventToggle)
	q.Close()
	q.Close()

	assert.False(t, q.Post(EventStop))
	e, ok := q.Poll()
	require.True(t, ok, "pending events survive close")
	assert.Equal(t, EventToggle, e)
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "stop", EventStop.String())
	assert.Equal(t, "toggle", EventToggle.String())
	assert.Equal(t, "unknown", Event(0).String())
}

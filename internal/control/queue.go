// Package control delivers externally triggered control events (stop,
// toggle) to the transition engine without ever touching its state.
package control

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Event is a control request
type Event int

const (
	// EventStop asks the engine to fade out and exit. A second stop aborts the fade.
	EventStop Event = iota + 1
	// EventToggle disables an enabled engine or re-enables a disabled one
	EventToggle
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventStop:
		return "stop"
	case EventToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// Source is polled by the engine once per tick
type Source interface {
	// Poll returns the next pending event without blocking
	Poll() (Event, bool)
	// Wake is signalled whenever an event is posted, so waits between ticks
	// can end early
	Wake() <-chan struct{}
}

// DefaultQueueSize bounds the number of undelivered events
const DefaultQueueSize = 16

// Queue is a bounded single-consumer event queue. Post may be called from
// any goroutine and never blocks.
type Queue struct {
	events chan Event
	wake   chan struct{}

	closing   chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding up to size pending events
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		events:  make(chan Event, size),
		wake:    make(chan struct{}, 1),
		closing: make(chan struct{}),
	}
}

// Post records an event. Returns false if the queue is full or closed.
func (q *Queue) Post(e Event) bool {
	select {
	case <-q.closing:
		log.Warn().Str("event", e.String()).Msg("Control queue closed, dropping event")
		return false
	case q.events <- e:
	default:
		log.Warn().Str("event", e.String()).Msg("Control queue full, dropping event")
		return false
	}

	// Coalesce wakeups, one pending signal is enough
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Poll implements Source
func (q *Queue) Poll() (Event, bool) {
	select {
	case e := <-q.events:
		return e, true
	default:
		return 0, false
	}
}

// Wake implements Source
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// Close stops accepting events. Pending events can still be polled.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closing)
	})
}

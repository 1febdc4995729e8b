package control

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
)

// Notify forwards OS signals to q until ctx is done: interrupt and terminate
// become EventStop, the toggle signal (SIGUSR1 where available) becomes
// EventToggle. The returned function stops forwarding.
func Notify(ctx context.Context, q *Queue) (stop func()) {
	sigChan := make(chan os.Signal, 4)
	signal.Notify(sigChan, append(stopSignals(), toggleSignals()...)...)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigChan:
				e := eventFor(sig)
				log.Debug().Str("signal", sig.String()).Str("event", e.String()).Msg("Received control signal")
				q.Post(e)
			}
		}
	}()

	return func() {
		signal.Stop(sigChan)
		cancel()
		<-done
	}
}

func eventFor(sig os.Signal) Event {
	for _, s := range toggleSignals() {
		if sig == s {
			return EventToggle
		}
	}
	return EventStop
}

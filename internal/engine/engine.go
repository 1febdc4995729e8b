// Package engine runs the transition loop that keeps the display color
// temperature in step with the sun.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/shiftd/internal/colorramp"
	"github.com/dokzlo13/shiftd/internal/colortemp"
	"github.com/dokzlo13/shiftd/internal/control"
	"github.com/dokzlo13/shiftd/internal/geo"
)

// NeutralTemperature is the reference the engine fades from and to
const NeutralTemperature = colortemp.NeutralTemperature

// Default transition timings
const (
	DefaultStartupFade = 10 * time.Second
	DefaultToggleFade  = 2 * time.Second
	DefaultFastTick    = 100 * time.Millisecond
	DefaultSlowTick    = 5 * time.Second
)

// ErrClock is returned when the system time cannot be read
var ErrClock = errors.New("unable to read system time")

// Display is the exclusively owned output the engine writes to.
// *gamma.Session implements it.
type Display interface {
	Apply(ctx context.Context, temp int, gamma colorramp.Gamma) error
	Restore()
	Release(restore bool)
}

// Recorder receives engine history entries. May be nil.
type Recorder interface {
	Record(kind string, payload map[string]any)
}

// History entry kinds
const (
	RecordStart        = "start"
	RecordDisable      = "disable"
	RecordEnable       = "enable"
	RecordStop         = "stop"
	RecordForceStop    = "force_stop"
	RecordFadeComplete = "fade_complete"
	RecordRestore      = "restore"
	RecordPeriod       = "period"
	RecordExit         = "exit"
	RecordApply        = "apply"
)

// Config holds the engine inputs fixed at startup
type Config struct {
	Location   geo.Location
	Gamma      colorramp.Gamma
	Transition bool // fade between states instead of jumping
	Verbose    bool

	StartupFade time.Duration
	ToggleFade  time.Duration
	FastTick    time.Duration // tick interval while a fade is active
	SlowTick    time.Duration // tick interval otherwise
}

// withDefaults fills zero durations
func (c Config) withDefaults() Config {
	if c.StartupFade <= 0 {
		c.StartupFade = DefaultStartupFade
	}
	if c.ToggleFade <= 0 {
		c.ToggleFade = DefaultToggleFade
	}
	if c.FastTick <= 0 {
		c.FastTick = DefaultFastTick
	}
	if c.SlowTick <= 0 {
		c.SlowTick = DefaultSlowTick
	}
	return c
}

// Deps are the collaborators the engine drives
type Deps struct {
	Solar    geo.Provider
	Model    colortemp.Model
	Display  Display
	Events   control.Source
	Clock    Clock
	Recorder Recorder
}

// State is the externally observable engine state
type State int

const (
	StateSteady State = iota
	StateShortTransition
	StateDisabled
	StateTerminating
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateSteady:
		return "steady"
	case StateShortTransition:
		return "short_transition"
	case StateDisabled:
		return "disabled"
	case StateTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Engine is the transition state machine. All state is owned by the
// goroutine calling Run; control events only reach it through Deps.Events.
type Engine struct {
	cfg  Config
	deps Deps

	// Weight of the neutral temperature: 0 applies the computed target,
	// 1 applies NeutralTemperature
	alpha float64

	fade     *fade
	fadeDone bool
	disabled bool
	done     bool

	lastPeriod colortemp.Period
	lastTemp   int
}

// New creates an engine. The engine takes ownership of deps.Display and
// releases it when Run returns.
func New(cfg Config, deps Deps) *Engine {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Solar == nil {
		deps.Solar = geo.Builtin{}
	}
	return &Engine{
		cfg:        cfg.withDefaults(),
		deps:       deps,
		lastPeriod: -1,
	}
}

// State returns the current state
func (e *Engine) State() State {
	switch {
	case e.done && e.fade == nil:
		return StateTerminating
	case e.fade != nil:
		return StateShortTransition
	case e.disabled:
		return StateDisabled
	default:
		return StateSteady
	}
}

// Run adjusts the display until a stop event completes or ctx is done.
// On every return path the saved ramps are restored and the display is
// released exactly once.
func (e *Engine) Run(ctx context.Context) error {
	defer e.deps.Display.Release(true)

	now, err := e.now()
	if err != nil {
		return err
	}

	log.Info().
		Str("location", e.cfg.Location.String()).
		Bool("transition", e.cfg.Transition).
		Msg("Transition engine started")
	e.record(RecordStart, map[string]any{"lat": e.cfg.Location.Latitude, "lon": e.cfg.Location.Longitude})

	// Fade in from neutral rather than jumping to the computed temperature
	e.startFade(TowardTarget, now, e.cfg.StartupFade)

	for {
		if ctx.Err() != nil {
			log.Warn().Msg("Context cancelled, stopping transition engine")
			e.record(RecordForceStop, nil)
			return nil
		}

		now, err := e.now()
		if err != nil {
			return err
		}

		e.drainEvents(now)

		exit, err := e.tick(ctx, now)
		if err != nil {
			return err
		}
		if exit {
			break
		}

		e.deps.Clock.Wait(ctx, e.interval(), e.wake())
	}

	log.Info().Msg("Transition engine stopped")
	e.record(RecordExit, nil)
	return nil
}

func (e *Engine) now() (time.Time, error) {
	now, err := e.deps.Clock.Now()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrClock, err)
	}
	return now, nil
}

func (e *Engine) wake() <-chan struct{} {
	if e.deps.Events == nil {
		return nil
	}
	return e.deps.Events.Wake()
}

// interval returns the wait before the next tick
func (e *Engine) interval() time.Duration {
	if e.fade != nil {
		return e.cfg.FastTick
	}
	return e.cfg.SlowTick
}

// drainEvents handles every event posted since the previous tick
func (e *Engine) drainEvents(now time.Time) {
	if e.deps.Events == nil {
		return
	}
	for {
		ev, ok := e.deps.Events.Poll()
		if !ok {
			return
		}
		e.handleEvent(ev, now)
	}
}

func (e *Engine) handleEvent(ev control.Event, now time.Time) {
	switch ev {
	case control.EventToggle:
		if !e.disabled {
			log.Info().Msg("Disabling color adjustment")
			e.disabled = true
			e.alpha = 1
			e.startFade(TowardNeutral, now, e.cfg.ToggleFade)
			e.record(RecordDisable, nil)
		} else {
			log.Info().Msg("Enabling color adjustment")
			e.disabled = false
			e.alpha = 0
			e.startFade(TowardTarget, now, e.cfg.ToggleFade)
			e.record(RecordEnable, nil)
		}

	case control.EventStop:
		if e.done {
			// Second stop: abandon the fade-out and exit right away
			log.Warn().Msg("Second stop received, aborting transition")
			e.fade = nil
			e.record(RecordForceStop, nil)
			return
		}
		log.Info().Msg("Stopping")
		if !e.disabled {
			e.alpha = 1
			e.startFade(TowardNeutral, now, e.cfg.ToggleFade)
		}
		e.done = true
		e.record(RecordStop, nil)

	default:
		log.Warn().Int("event", int(ev)).Msg("Ignoring unknown control event")
	}
}

// startFade begins a short transition. With transitions disabled the
// transition completes immediately.
func (e *Engine) startFade(dir Direction, now time.Time, d time.Duration) {
	if !e.cfg.Transition {
		e.fade = nil
		e.fadeDone = true
		return
	}
	e.fade = &fade{dir: dir, start: now, duration: d}
	log.Debug().Str("direction", dir.String()).Dur("duration", d).Msg("Short transition started")
}

// tick performs one iteration. Returns true when the loop should end.
func (e *Engine) tick(ctx context.Context, now time.Time) (bool, error) {
	elevation := e.deps.Solar.Elevation(now, e.cfg.Location)
	target := e.deps.Model.Evaluate(elevation)

	if e.fade != nil {
		finished := e.fade.finished(now)
		e.alpha = e.fade.alpha(now)
		if finished {
			e.fade = nil
			e.fadeDone = true
		}
	}

	if e.fadeDone {
		e.fadeDone = false
		e.record(RecordFadeComplete, map[string]any{"disabled": e.disabled})
		if e.disabled {
			e.deps.Display.Restore()
			e.record(RecordRestore, nil)
		}
	}

	temp := Blend(e.alpha, target.Temperature)

	if e.done && e.fade == nil {
		return true, nil
	}

	e.logTick(elevation, target, temp)

	if !e.disabled || e.fade != nil {
		if err := e.deps.Display.Apply(ctx, temp, e.cfg.Gamma); err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			return false, err
		}
		if e.fade == nil && temp != e.lastTemp {
			e.record(RecordApply, map[string]any{"temperature": temp})
		}
		e.lastTemp = temp
	}

	return false, nil
}

func (e *Engine) logTick(elevation float64, target colortemp.Target, temp int) {
	if target.Period != e.lastPeriod {
		e.record(RecordPeriod, map[string]any{"period": target.Period.String(), "elevation": elevation})
		e.lastPeriod = target.Period
	}

	ev := log.Debug()
	if e.cfg.Verbose {
		ev = log.Info()
	}
	ev.Float64("elevation", elevation).
		Str("period", target.Period.String()).
		Float64("day_fraction", target.DayFraction).
		Int("temperature", temp).
		Str("state", e.State().String()).
		Msg("Color temperature")
}

func (e *Engine) record(kind string, payload map[string]any) {
	if e.deps.Recorder != nil {
		e.deps.Recorder.Record(kind, payload)
	}
}

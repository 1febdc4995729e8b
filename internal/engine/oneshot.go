package engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/shiftd/internal/colortemp"
)

// OneShot computes the temperature for the current instant, applies it once
// and releases the display. The adjustment is left in place on success; on
// failure the saved ramps are restored before release.
func OneShot(ctx context.Context, cfg Config, deps Deps) (err error) {
	defer func() {
		deps.Display.Release(err != nil)
	}()

	e := New(cfg, deps)
	now, err := e.now()
	if err != nil {
		return err
	}

	elevation := e.deps.Solar.Elevation(now, cfg.Location)
	target := deps.Model.Evaluate(elevation)
	logOneShot(cfg.Verbose, elevation, target)

	if err := deps.Display.Apply(ctx, target.Temperature, cfg.Gamma); err != nil {
		return err
	}

	if deps.Recorder != nil {
		deps.Recorder.Record(RecordApply, map[string]any{"temperature": target.Temperature, "one_shot": true})
	}
	return nil
}

func logOneShot(verbose bool, elevation float64, target colortemp.Target) {
	ev := log.Debug()
	if verbose {
		ev = log.Info()
	}
	ev.Float64("elevation", elevation).
		Str("period", target.Period.String()).
		Float64("day_fraction", target.DayFraction).
		Int("temperature", target.Temperature).
		Msg("Color temperature")
}

// Package colortemp maps solar elevation to a target color temperature.
package colortemp

import (
	"fmt"
	"math"

	"github.com/dokzlo13/shiftd/internal/geo"
)

// Temperature bounds and defaults, in Kelvin. MaxTemperature is exclusive.
const (
	MinTemperature     = 1000
	MaxTemperature     = 10000
	NeutralTemperature = 6500

	DefaultDayTemperature   = 5500
	DefaultNightTemperature = 3700
)

// Elevation band in which day and night temperatures are blended (degrees).
// Transition happens during twilight and while the sun is less than
// TransitionHigh above the horizon.
const (
	TransitionLow  = geo.CivilTwilightElevation
	TransitionHigh = 3.0
)

// Period is the part of the day an elevation falls into
type Period int

const (
	PeriodNight Period = iota
	PeriodTransition
	PeriodDay
)

// String returns a human-readable name for the period.
func (p Period) String() string {
	switch p {
	case PeriodNight:
		return "Night"
	case PeriodTransition:
		return "Transition"
	case PeriodDay:
		return "Daytime"
	default:
		return "unknown"
	}
}

// Target is the outcome of evaluating the model at one elevation
type Target struct {
	Temperature int
	Period      Period
	// DayFraction is 0 at night, 1 during the day and in between while transitioning
	DayFraction float64
}

// Model evaluates the target temperature for a solar elevation
type Model interface {
	Evaluate(elevation float64) Target
}

// Static is the elevation-threshold model with fixed day and night temperatures.
type Static struct {
	Day   int
	Night int
	Low   float64
	High  float64
}

// NewStatic creates a model with the default elevation thresholds
func NewStatic(day, night int) *Static {
	return &Static{Day: day, Night: night, Low: TransitionLow, High: TransitionHigh}
}

// Evaluate implements Model
func (s *Static) Evaluate(elevation float64) Target {
	return CalculateWithThresholds(elevation, s.Day, s.Night, s.Low, s.High)
}

// Validate checks temperature bounds and threshold ordering
func (s *Static) Validate() error {
	if err := ValidateTemperature(s.Day); err != nil {
		return err
	}
	if err := ValidateTemperature(s.Night); err != nil {
		return err
	}
	if s.Low >= s.High {
		return fmt.Errorf("transition low elevation (%.2f) must be below high elevation (%.2f)", s.Low, s.High)
	}
	return nil
}

// ValidateTemperature checks that temp lies in [MinTemperature, MaxTemperature)
func ValidateTemperature(temp int) error {
	if temp < MinTemperature || temp >= MaxTemperature {
		return fmt.Errorf("temperature must be between %dK and %dK", MinTemperature, MaxTemperature)
	}
	return nil
}

// Calculate returns the target temperature for an elevation using the
// default thresholds.
func Calculate(elevation float64, day, night int) Target {
	return CalculateWithThresholds(elevation, day, night, TransitionLow, TransitionHigh)
}

// CalculateWithThresholds returns the target temperature for an elevation.
// Below low the night temperature applies, at or above high the day
// temperature, and in between the two are linearly blended.
func CalculateWithThresholds(elevation float64, day, night int, low, high float64) Target {
	switch {
	case elevation < low:
		return Target{Temperature: night, Period: PeriodNight, DayFraction: 0}
	case elevation >= high:
		return Target{Temperature: day, Period: PeriodDay, DayFraction: 1}
	default:
		a := DayFraction(elevation, low, high)
		temp := (1.0-a)*float64(night) + a*float64(day)
		return Target{Temperature: int(math.Round(temp)), Period: PeriodTransition, DayFraction: a}
	}
}

// DayFraction returns (low - elevation) / (low - high), clamped to [0, 1].
func DayFraction(elevation, low, high float64) float64 {
	a := (low - elevation) / (low - high)
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

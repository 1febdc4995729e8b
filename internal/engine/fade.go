package engine

import (
	"math"
	"time"
)

// Direction of a short transition
type Direction int

const (
	// TowardTarget fades from neutral to the computed temperature
	TowardTarget Direction = iota
	// TowardNeutral fades from the computed temperature to neutral
	TowardNeutral
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case TowardTarget:
		return "toward_target"
	case TowardNeutral:
		return "toward_neutral"
	default:
		return "unknown"
	}
}

// fade is an in-flight short transition
type fade struct {
	dir      Direction
	start    time.Time
	duration time.Duration
}

// finished reports whether now lies past the end of the fade
func (f *fade) finished(now time.Time) bool {
	return now.After(f.start.Add(f.duration))
}

// alpha returns the neutral weight of the fade at now
func (f *fade) alpha(now time.Time) float64 {
	return FadeAlpha(now.Sub(f.start), f.duration, f.dir)
}

// FadeAlpha returns how much of the neutral temperature is mixed in after
// elapsed time of a fade. Progress is clamped to [0, 1], so the result is
// too: fading toward the target goes 1 -> 0, toward neutral 0 -> 1.
func FadeAlpha(elapsed, duration time.Duration, dir Direction) float64 {
	progress := 1.0
	if duration > 0 {
		progress = clamp01(float64(elapsed) / float64(duration))
	}
	if dir == TowardTarget {
		return 1 - progress
	}
	return progress
}

// Blend mixes the neutral temperature into target with weight alpha
func Blend(alpha float64, target int) int {
	alpha = clamp01(alpha)
	return int(math.Round(alpha*NeutralTemperature + (1-alpha)*float64(target)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

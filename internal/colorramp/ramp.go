// Package colorramp generates gamma ramps that tint a display toward a
// black body color temperature.
package colorramp

import (
	"errors"
	"fmt"
	"math"
)

// Table range in Kelvin
const (
	TableMin  = 1000
	TableMax  = 10000
	TableStep = 100
)

// Bounds for per-channel gamma correction
const (
	MinGamma     = 0.1
	MaxGamma     = 10.0
	DefaultGamma = 1.0
)

// ErrRampSize is returned when the channel slices differ in length or are empty
var ErrRampSize = errors.New("gamma ramp channels must be non-empty and of equal length")

// Gamma holds per-channel gamma correction in red, green, blue order
type Gamma [3]float64

// UniformGamma returns the same correction for all channels
func UniformGamma(g float64) Gamma {
	return Gamma{g, g, g}
}

// Validate checks every channel against MinGamma and MaxGamma
func (g Gamma) Validate() error {
	for _, v := range g {
		if math.IsNaN(v) || v < MinGamma || v > MaxGamma {
			return fmt.Errorf("gamma value must be between %.1f and %.1f", MinGamma, MaxGamma)
		}
	}
	return nil
}

// Ramp is one lookup table per channel
type Ramp struct {
	Red   []uint16
	Green []uint16
	Blue  []uint16
}

// New allocates a ramp of the given size and fills it for temp
func New(size, temp int, gamma Gamma) (*Ramp, error) {
	r := &Ramp{
		Red:   make([]uint16, size),
		Green: make([]uint16, size),
		Blue:  make([]uint16, size),
	}
	if err := Fill(r.Red, r.Green, r.Blue, temp, gamma); err != nil {
		return nil, err
	}
	return r, nil
}

// WhitePoint returns the interpolated black body color for temp. Values
// outside the table are clamped to its ends.
func WhitePoint(temp int) [3]float64 {
	if temp < TableMin {
		temp = TableMin
	}
	if temp > TableMax {
		temp = TableMax
	}

	idx := (temp - TableMin) / TableStep
	frac := float64((temp-TableMin)%TableStep) / TableStep

	lo, hi := blackbody[idx], blackbody[idx+1]
	if frac == 0 {
		return lo
	}

	var wp [3]float64
	for c := range wp {
		wp[c] = (1-frac)*lo[c] + frac*hi[c]
	}
	return wp
}

// Fill writes ramps for temp into r, g and b. Each channel is a linear ramp
// from 0 to the white point value, shaped by output = input^(1/gamma).
func Fill(r, g, b []uint16, temp int, gamma Gamma) error {
	n := len(r)
	if n == 0 || len(g) != n || len(b) != n {
		return ErrRampSize
	}

	wp := WhitePoint(temp)
	channels := [3][]uint16{r, g, b}
	for c, ch := range channels {
		fillChannel(ch, wp[c], gamma[c])
	}
	return nil
}

func fillChannel(ch []uint16, white, gamma float64) {
	n := len(ch)
	if n == 1 {
		ch[0] = scale(1, white)
		return
	}

	last := float64(n - 1)
	for i := range ch {
		x := float64(i) / last
		if gamma != 1 {
			x = math.Pow(x, 1/gamma)
		}
		ch[i] = scale(x, white)
	}
}

func scale(x, white float64) uint16 {
	return uint16(x * white * math.MaxUint16)
}

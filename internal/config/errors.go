package config

import (
	"fmt"
	"math"
	"strconv"
)

// ArgumentError reports a malformed or conflicting option
type ArgumentError struct {
	Arg    string // option or config key
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Arg, e.Reason)
	}
	return fmt.Sprintf("malformed %s argument %q: %s", e.Arg, e.Value, e.Reason)
}

// RangeError reports a well-formed value outside its allowed range
type RangeError struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
	Unit  string
	// MaxExclusive marks Max itself as out of range
	MaxExclusive bool
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %s%s and %s%s, got %s%s",
		e.Name, num(e.Min), e.Unit, num(e.Max), e.Unit, num(e.Value), e.Unit)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func checkRange(name string, v, lo, hi float64, unit string, hiExclusive bool) error {
	if v < lo || v > hi || (hiExclusive && v == hi) || math.IsNaN(v) {
		return &RangeError{Name: name, Value: v, Min: lo, Max: hi, Unit: unit, MaxExclusive: hiExclusive}
	}
	return nil
}

package geo

import (
	"fmt"
	"strings"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Provider computes solar elevation for a location
type Provider interface {
	Name() string
	Elevation(t time.Time, loc Location) float64
}

// Provider names accepted by NewProvider
const (
	ProviderBuiltin = "builtin"
	ProviderSunCalc = "suncalc"
)

// Builtin uses the package's own low-precision solar position algorithm
type Builtin struct{}

// Name returns the provider name
func (Builtin) Name() string { return ProviderBuiltin }

// Elevation returns the solar elevation in degrees
func (Builtin) Elevation(t time.Time, loc Location) float64 {
	return Elevation(t, loc.Latitude, loc.Longitude)
}

// SunCalc delegates to the suncalc library
type SunCalc struct{}

// Name returns the provider name
func (SunCalc) Name() string { return ProviderSunCalc }

// Elevation returns the solar elevation in degrees
func (SunCalc) Elevation(t time.Time, loc Location) float64 {
	pos := suncalc.GetPosition(t, loc.Latitude, loc.Longitude)
	return pos.Altitude / rad
}

// NewProvider returns the provider registered under name.
// An empty name selects the builtin provider.
func NewProvider(name string) (Provider, error) {
	switch strings.ToLower(name) {
	case "", ProviderBuiltin:
		return Builtin{}, nil
	case ProviderSunCalc:
		return SunCalc{}, nil
	default:
		return nil, fmt.Errorf("unknown solar provider %q", name)
	}
}

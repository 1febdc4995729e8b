package config

import (
	"github.com/dokzlo13/shiftd/internal/colorramp"
	"github.com/dokzlo13/shiftd/internal/colortemp"
	"github.com/dokzlo13/shiftd/internal/gamma"
	"github.com/dokzlo13/shiftd/internal/geo"
)

// Validate checks every setting. It returns an *ArgumentError for missing,
// malformed or conflicting options and a *RangeError for out of range values.
func (c *Config) Validate() error {
	if c.Location.Lat == nil || c.Location.Lon == nil {
		return &ArgumentError{Arg: "location", Reason: "latitude and longitude must be set"}
	}
	if err := checkRange("latitude", *c.Location.Lat, geo.MinLatitude, geo.MaxLatitude, "", false); err != nil {
		return err
	}
	if err := checkRange("longitude", *c.Location.Lon, geo.MinLongitude, geo.MaxLongitude, "", false); err != nil {
		return err
	}

	if err := checkRange("day temperature", float64(c.Temperature.Day),
		colortemp.MinTemperature, colortemp.MaxTemperature, "K", true); err != nil {
		return err
	}
	if err := checkRange("night temperature", float64(c.Temperature.Night),
		colortemp.MinTemperature, colortemp.MaxTemperature, "K", true); err != nil {
		return err
	}

	g, err := c.GammaValues()
	if err != nil {
		return err
	}
	for _, v := range g {
		if err := checkRange("gamma", v, colorramp.MinGamma, colorramp.MaxGamma, "", false); err != nil {
			return err
		}
	}

	if c.Elevation.Low >= c.Elevation.High {
		return &ArgumentError{Arg: "elevation", Reason: "low must be below high"}
	}

	t := c.Transition
	if t.Startup < 0 || t.Toggle < 0 || t.FastTick <= 0 || t.SlowTick <= 0 {
		return &ArgumentError{Arg: "transition", Reason: "durations must be positive"}
	}

	method, err := c.MethodValue()
	if err != nil {
		return err
	}
	if c.Method.CRTC > -1 && method != gamma.MethodRandR {
		return &ArgumentError{Arg: "crtc", Reason: "CRTC can only be selected with the RANDR method"}
	}
	if c.Method.Screen < -1 || c.Method.CRTC < -1 {
		return &ArgumentError{Arg: "method", Reason: "screen and crtc must be -1 or a valid index"}
	}
	if c.Method.RateLimitRPS < 0 {
		return &ArgumentError{Arg: "method.rate_limit_rps", Reason: "must not be negative"}
	}

	if _, err := geo.NewProvider(c.Solar.Provider); err != nil {
		return &ArgumentError{Arg: "solar.provider", Value: c.Solar.Provider, Reason: err.Error()}
	}

	return nil
}

// MethodValue parses the configured method name
func (c *Config) MethodValue() (gamma.Method, error) {
	m, err := gamma.ParseMethod(c.Method.Name)
	if err != nil {
		return m, &ArgumentError{Arg: "method", Value: c.Method.Name, Reason: err.Error()}
	}
	return m, nil
}

// LocationValue returns the validated location
func (c *Config) LocationValue() geo.Location {
	var loc geo.Location
	if c.Location.Lat != nil {
		loc.Latitude = *c.Location.Lat
	}
	if c.Location.Lon != nil {
		loc.Longitude = *c.Location.Lon
	}
	return loc
}

package config

import (
	"strconv"
	"strings"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

// ParseLocation parses "LAT:LON" in degrees
func ParseLocation(s string) (lat, lon float64, err error) {
	latStr, lonStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, &ArgumentError{Arg: "location", Value: s, Reason: "expected LAT:LON"}
	}
	if lat, err = parseFloat(latStr); err != nil {
		return 0, 0, &ArgumentError{Arg: "location", Value: s, Reason: "latitude is not a number"}
	}
	if lon, err = parseFloat(lonStr); err != nil {
		return 0, 0, &ArgumentError{Arg: "location", Value: s, Reason: "longitude is not a number"}
	}
	return lat, lon, nil
}

// ParseTemperatures parses "DAY:NIGHT" in Kelvin
func ParseTemperatures(s string) (day, night int, err error) {
	dayStr, nightStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, &ArgumentError{Arg: "temperature", Value: s, Reason: "expected DAY:NIGHT"}
	}
	if day, err = strconv.Atoi(strings.TrimSpace(dayStr)); err != nil {
		return 0, 0, &ArgumentError{Arg: "temperature", Value: s, Reason: "day temperature is not an integer"}
	}
	if night, err = strconv.Atoi(strings.TrimSpace(nightStr)); err != nil {
		return 0, 0, &ArgumentError{Arg: "temperature", Value: s, Reason: "night temperature is not an integer"}
	}
	return day, night, nil
}

// ParseGamma parses a single value applied to all channels, or "R:G:B"
// read strictly as red, green, blue.
func ParseGamma(s string) (colorramp.Gamma, error) {
	parts := strings.Split(s, ":")

	var g colorramp.Gamma
	switch len(parts) {
	case 1:
		v, err := parseFloat(parts[0])
		if err != nil {
			return g, &ArgumentError{Arg: "gamma", Value: s, Reason: "not a number"}
		}
		return colorramp.UniformGamma(v), nil
	case 3:
		for i, p := range parts {
			v, err := parseFloat(p)
			if err != nil {
				return g, &ArgumentError{Arg: "gamma", Value: s, Reason: "channel " + strconv.Itoa(i+1) + " is not a number"}
			}
			g[i] = v
		}
		return g, nil
	default:
		return g, &ArgumentError{Arg: "gamma", Value: s, Reason: "expected R:G:B or a single value"}
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

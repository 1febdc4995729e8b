// Package geo computes the position of the sun for an observer on Earth.
package geo

import (
	"fmt"
	"math"
	"time"
)

// Bounds for observer coordinates, in degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Elevation angles of twilight boundaries, in degrees.
const (
	CivilTwilightElevation        = -6.0
	NauticalTwilightElevation     = -12.0
	AstronomicalTwilightElevation = -18.0
)

const (
	rad = math.Pi / 180.0

	julianUnixEpoch = 2440587.5
	julianJ2000     = 2451545.0

	// Obliquity of the ecliptic at J2000
	obliquity = 23.4397 * rad
)

// Location represents an observer position
type Location struct {
	Latitude  float64
	Longitude float64
}

// Validate checks that the coordinates are within range
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < MinLatitude || l.Latitude > MaxLatitude {
		return fmt.Errorf("latitude must be between %.1f and %.1f", MinLatitude, MaxLatitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < MinLongitude || l.Longitude > MaxLongitude {
		return fmt.Errorf("longitude must be between %.1f and %.1f", MinLongitude, MaxLongitude)
	}
	return nil
}

// String formats the location as "lat, lon"
func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}

// Elevation returns the angle of the sun above the horizon in degrees for
// the given instant and coordinates. Negative values mean the sun is below
// the horizon.
func Elevation(t time.Time, lat, lon float64) float64 {
	d := daysSinceJ2000(t)

	dec, ra := equatorial(d)
	h := hourAngle(d, lon, ra)

	latRad := lat * rad
	sinElev := math.Sin(latRad)*math.Sin(dec) + math.Cos(latRad)*math.Cos(dec)*math.Cos(h)

	// Rounding can push the product just outside [-1, 1] at the poles
	sinElev = math.Max(-1, math.Min(1, sinElev))

	return math.Asin(sinElev) / rad
}

// declination returns the solar declination in degrees for the given instant
func declination(t time.Time) float64 {
	dec, _ := equatorial(daysSinceJ2000(t))
	return dec / rad
}

// toJulianDay converts an instant to a fractional Julian day
func toJulianDay(t time.Time) float64 {
	return float64(t.UnixNano())/float64(24*time.Hour) + julianUnixEpoch
}

// daysSinceJ2000 returns the fractional number of days since the J2000 epoch
func daysSinceJ2000(t time.Time) float64 {
	return toJulianDay(t) - julianJ2000
}

// eclipticLongitude returns the sun's ecliptic longitude (radians) d days after J2000
func eclipticLongitude(d float64) float64 {
	// Solar mean anomaly
	m := (357.5291 + 0.98560028*d) * rad

	// Equation of center
	c := (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m)) * rad

	// Perihelion of the Earth
	p := 102.9372 * rad

	return m + c + p + math.Pi
}

// equatorial returns declination and right ascension (radians) d days after J2000
func equatorial(d float64) (dec, ra float64) {
	l := eclipticLongitude(d)
	dec = math.Asin(math.Sin(l) * math.Sin(obliquity))
	ra = math.Atan2(math.Sin(l)*math.Cos(obliquity), math.Cos(l))
	return dec, ra
}

// hourAngle returns the local hour angle (radians) of a body with right
// ascension ra for an observer at longitude lon (degrees, east positive)
func hourAngle(d, lon, ra float64) float64 {
	sidereal := (280.16+360.9856235*d)*rad + lon*rad
	return sidereal - ra
}

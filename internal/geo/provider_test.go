package geo

import (
	"math"
	"testing"
	"time"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", ProviderBuiltin, false},
		{"builtin", ProviderBuiltin, false},
		{"SunCalc", ProviderSunCalc, false},
		{"nasa", "", true},
	}

	for _, tt := range tests {
		p, err := NewProvider(tt.name)
		if (err != nil) != tt.wantErr {
			t.Fatalf("NewProvider(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err == nil && p.Name() != tt.want {
			t.Errorf("NewProvider(%q).Name() = %q, want %q", tt.name, p.Name(), tt.want)
		}
	}
}

func TestBuiltinAgreesWithSunCalc(t *testing.T) {
	start := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)
	locations := []Location{copenhagen, {Latitude: -33.9, Longitude: 151.2}, {Latitude: 0, Longitude: -78.5}}

	for _, loc := range locations {
		for h := 0; h < 24*365; h += 13 {
			ts := start.Add(time.Duration(h) * time.Hour)
			a := Builtin{}.Elevation(ts, loc)
			b := SunCalc{}.Elevation(ts, loc)
			if math.Abs(a-b) > 0.1 {
				t.Fatalf("elevation at %s %s: builtin %.3f, suncalc %.3f", loc, ts.Format(time.RFC3339), a, b)
			}
		}
	}
}

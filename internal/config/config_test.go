package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dokzlo13/shiftd/internal/colorramp"
	"github.com/dokzlo13/shiftd/internal/gamma"
)

func validConfig() *Config {
	cfg := Default()
	cfg.SetLocation(55.7, 12.6)
	return cfg
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shiftd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Temperature.Day != 5500 || cfg.Temperature.Night != 3700 {
		t.Errorf("temperatures = %d:%d, want 5500:3700", cfg.Temperature.Day, cfg.Temperature.Night)
	}
	g, err := cfg.GammaValues()
	if err != nil {
		t.Fatalf("GammaValues() error = %v", err)
	}
	if g != colorramp.UniformGamma(1) {
		t.Errorf("gamma = %v, want 1:1:1", g)
	}
	if !cfg.Transition.Enabled {
		t.Error("transitions should be enabled by default")
	}
	if cfg.Method.Screen != -1 || cfg.Method.CRTC != -1 {
		t.Errorf("screen/crtc = %d/%d, want -1/-1", cfg.Method.Screen, cfg.Method.CRTC)
	}

	var argErr *ArgumentError
	if err := cfg.Validate(); !errors.As(err, &argErr) {
		t.Errorf("Validate() without location = %v, want ArgumentError", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("SHIFTD_TEST_LAT", "48.85")

	path := writeConfig(t, `
location:
  lat: ${SHIFTD_TEST_LAT}
  lon: ${SHIFTD_TEST_LON:2.35}
temperature:
  day: 6000
gamma: "0.8:0.9:1.0"
transition:
  enabled: false
  toggle: 500ms
method:
  name: RandR
  crtc: 1
solar:
  provider: suncalc
script: hook.lua
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	loc := cfg.LocationValue()
	if loc.Latitude != 48.85 || loc.Longitude != 2.35 {
		t.Errorf("location = %v, want 48.85:2.35", loc)
	}
	if cfg.Temperature.Day != 6000 {
		t.Errorf("day = %d, want 6000", cfg.Temperature.Day)
	}
	if cfg.Temperature.Night != 3700 {
		t.Errorf("night = %d, want default 3700", cfg.Temperature.Night)
	}
	if g, _ := cfg.GammaValues(); g != (colorramp.Gamma{0.8, 0.9, 1.0}) {
		t.Errorf("gamma = %v, want strict R:G:B order", g)
	}
	if cfg.Transition.Enabled {
		t.Error("transition.enabled = true, want false")
	}
	if got := cfg.Transition.Toggle.Duration(); got != 500*time.Millisecond {
		t.Errorf("toggle = %v, want 500ms", got)
	}
	if got := cfg.Transition.Startup.Duration(); got != 10*time.Second {
		t.Errorf("startup = %v, want default 10s", got)
	}
	if m, _ := cfg.MethodValue(); m != gamma.MethodRandR {
		t.Errorf("method = %v, want randr", m)
	}
	if cfg.Dir() != filepath.Dir(path) {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), filepath.Dir(path))
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
	if _, err := Load(writeConfig(t, "transition:\n  toggle: soon\n")); err == nil {
		t.Error("Load(bad duration) should fail")
	}
	if _, err := Load(writeConfig(t, "location: [1, 2\n")); err == nil {
		t.Error("Load(bad yaml) should fail")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Dir() != "" {
		t.Errorf("Dir() = %q, want empty", cfg.Dir())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantRange bool
		wantArg   bool
	}{
		{"valid", func(*Config) {}, false, false},
		{"lat_max", func(c *Config) { c.SetLocation(90, 0) }, false, false},
		{"lat_over", func(c *Config) { c.SetLocation(90.1, 0) }, true, false},
		{"lon_under", func(c *Config) { c.SetLocation(0, -180.5) }, true, false},
		{"lon_min", func(c *Config) { c.SetLocation(0, -180) }, false, false},
		{"missing_lon", func(c *Config) { c.Location.Lon = nil }, false, true},
		{"temp_min", func(c *Config) { c.Temperature.Night = 1000 }, false, false},
		{"temp_low", func(c *Config) { c.Temperature.Night = 999 }, true, false},
		{"temp_max_exclusive", func(c *Config) { c.Temperature.Day = 10000 }, true, false},
		{"temp_inverted_allowed", func(c *Config) { c.Temperature.Day, c.Temperature.Night = 3000, 6000 }, false, false},
		{"gamma_low", func(c *Config) { c.Gamma = "0.05" }, true, false},
		{"gamma_high_channel", func(c *Config) { c.Gamma = "1:1:10.5" }, true, false},
		{"gamma_bounds", func(c *Config) { c.Gamma = "0.1:10:1" }, false, false},
		{"gamma_malformed", func(c *Config) { c.Gamma = "1:1" }, false, true},
		{"elevation_inverted", func(c *Config) { c.Elevation.Low, c.Elevation.High = 3, -6 }, false, true},
		{"unknown_method", func(c *Config) { c.Method.Name = "wayland" }, false, true},
		{"crtc_without_randr", func(c *Config) { c.Method.CRTC = 0 }, false, true},
		{"crtc_with_vidmode", func(c *Config) { c.Method.Name = "vidmode"; c.Method.CRTC = 1 }, false, true},
		{"crtc_with_randr", func(c *Config) { c.Method.Name = "RANDR"; c.Method.CRTC = 1 }, false, false},
		{"bad_screen", func(c *Config) { c.Method.Screen = -2 }, false, true},
		{"negative_rate", func(c *Config) { c.Method.RateLimitRPS = -1 }, false, true},
		{"unknown_provider", func(c *Config) { c.Solar.Provider = "moon" }, false, true},
		{"zero_tick", func(c *Config) { c.Transition.FastTick = 0 }, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			var rangeErr *RangeError
			var argErr *ArgumentError
			switch {
			case tt.wantRange:
				if !errors.As(err, &rangeErr) {
					t.Errorf("Validate() = %v, want RangeError", err)
				}
			case tt.wantArg:
				if !errors.As(err, &argErr) {
					t.Errorf("Validate() = %v, want ArgumentError", err)
				}
			default:
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
			}
		})
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in       string
		lat, lon float64
		wantErr  bool
	}{
		{"55.7:12.6", 55.7, 12.6, false},
		{"-33.9:151.2", -33.9, 151.2, false},
		{" 1 : 2 ", 1, 2, false},
		{"55.7", 0, 0, true},
		{"north:12", 0, 0, true},
		{"55:east", 0, 0, true},
		{"1:2:3", 0, 0, true},
	}

	for _, tt := range tests {
		lat, lon, err := ParseLocation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLocation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Errorf("ParseLocation(%q) error type = %T, want *ArgumentError", tt.in, err)
			}
			continue
		}
		if lat != tt.lat || lon != tt.lon {
			t.Errorf("ParseLocation(%q) = %v:%v, want %v:%v", tt.in, lat, lon, tt.lat, tt.lon)
		}
	}
}

func TestParseTemperatures(t *testing.T) {
	tests := []struct {
		in         string
		day, night int
		wantErr    bool
	}{
		{"5500:3700", 5500, 3700, false},
		{"6500:6500", 6500, 6500, false},
		{"5500", 0, 0, true},
		{"warm:3700", 0, 0, true},
		{"5500:3700.5", 0, 0, true},
	}

	for _, tt := range tests {
		day, night, err := ParseTemperatures(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTemperatures(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (day != tt.day || night != tt.night) {
			t.Errorf("ParseTemperatures(%q) = %d:%d, want %d:%d", tt.in, day, night, tt.day, tt.night)
		}
	}
}

func TestParseGamma(t *testing.T) {
	tests := []struct {
		in      string
		want    colorramp.Gamma
		wantErr bool
	}{
		{"0.8", colorramp.Gamma{0.8, 0.8, 0.8}, false},
		{"0.6:0.7:0.8", colorramp.Gamma{0.6, 0.7, 0.8}, false},
		{"1:2", colorramp.Gamma{}, true},
		{"1:2:3:4", colorramp.Gamma{}, true},
		{"a:1:1", colorramp.Gamma{}, true},
		{"", colorramp.Gamma{}, true},
	}

	for _, tt := range tests {
		got, err := ParseGamma(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGamma(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseGamma(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	err := &RangeError{Name: "day temperature", Value: 12000, Min: 1000, Max: 10000, Unit: "K", MaxExclusive: true}
	if got, want := err.Error(), "day temperature must be between 1000K and 10000K, got 12000K"; got != want {
		t.Errorf("RangeError = %q, want %q", got, want)
	}

	arg := &ArgumentError{Arg: "location", Value: "55", Reason: "expected LAT:LON"}
	if got, want := arg.Error(), `malformed location argument "55": expected LAT:LON`; got != want {
		t.Errorf("ArgumentError = %q, want %q", got, want)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SHIFTD_TEST_SET", "value")

	tests := []struct {
		in, want string
	}{
		{"${SHIFTD_TEST_SET}", "value"},
		{"${SHIFTD_TEST_UNSET:fallback}", "fallback"},
		{"${SHIFTD_TEST_UNSET}", ""},
		{"a ${SHIFTD_TEST_SET} b", "a value b"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := expandEnvVars(tt.in); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

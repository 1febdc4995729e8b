package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/shiftd/internal/colorramp"
	"github.com/dokzlo13/shiftd/internal/colortemp"
	"github.com/dokzlo13/shiftd/internal/engine"
	"github.com/dokzlo13/shiftd/internal/gamma"
	"github.com/dokzlo13/shiftd/internal/geo"
	"github.com/dokzlo13/shiftd/internal/ledger"
)

// Config represents the application configuration
type Config struct {
	Location    LocationConfig    `yaml:"location"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Gamma       string            `yaml:"gamma"` // "R:G:B" or a single value for all channels
	Elevation   ElevationConfig   `yaml:"elevation"`
	Transition  TransitionConfig  `yaml:"transition"`
	Method      MethodConfig      `yaml:"method"`
	Solar       SolarConfig       `yaml:"solar"`
	History     HistoryConfig     `yaml:"history"`
	Script      string            `yaml:"script"` // optional Lua temperature hook
	Log         LogConfig         `yaml:"log"`
	Verbose     bool              `yaml:"verbose"`

	// OneShot is only settable from the command line
	OneShot bool `yaml:"-"`

	path string
}

// LocationConfig is the observer position in degrees. Both must be set.
type LocationConfig struct {
	Lat *float64 `yaml:"lat"`
	Lon *float64 `yaml:"lon"`
}

// TemperatureConfig holds the day and night targets in Kelvin
type TemperatureConfig struct {
	Day   int `yaml:"day"`
	Night int `yaml:"night"`
}

// ElevationConfig is the solar elevation band (degrees) over which day and
// night temperatures are blended
type ElevationConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// TransitionConfig controls short transitions and tick cadence
type TransitionConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Startup  Duration `yaml:"startup"`   // fade in from neutral on start
	Toggle   Duration `yaml:"toggle"`    // fade on enable/disable and stop
	FastTick Duration `yaml:"fast_tick"` // tick interval during a fade
	SlowTick Duration `yaml:"slow_tick"`
}

// MethodConfig selects and addresses the gamma adjustment method
type MethodConfig struct {
	Name         string  `yaml:"name"`    // empty or "auto" probes all methods
	Display      string  `yaml:"display"` // X display, empty uses $DISPLAY
	Screen       int     `yaml:"screen"`  // -1 is the default screen
	CRTC         int     `yaml:"crtc"`    // -1 is all CRTCs, randr only
	RateLimitRPS float64 `yaml:"rate_limit_rps"`
}

// SolarConfig selects the elevation provider
type SolarConfig struct {
	Provider string `yaml:"provider"`
}

// HistoryConfig controls the in-memory session history
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
	JSON   bool   `yaml:"json"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Temperature: TemperatureConfig{
			Day:   colortemp.DefaultDayTemperature,
			Night: colortemp.DefaultNightTemperature,
		},
		Elevation: ElevationConfig{
			Low:  colortemp.TransitionLow,
			High: colortemp.TransitionHigh,
		},
		Transition: TransitionConfig{
			Enabled:  true,
			Startup:  Duration(engine.DefaultStartupFade),
			Toggle:   Duration(engine.DefaultToggleFade),
			FastTick: Duration(engine.DefaultFastTick),
			SlowTick: Duration(engine.DefaultSlowTick),
		},
		Method: MethodConfig{
			Screen:       -1,
			CRTC:         -1,
			RateLimitRPS: gamma.DefaultRateLimitRPS,
		},
		Solar:   SolarConfig{Provider: geo.ProviderBuiltin},
		History: HistoryConfig{Enabled: true, MaxEntries: ledger.DefaultMaxEntries},
		Log:     LogConfig{Level: "info", Colors: true},
	}
}

// Load reads and parses the configuration file. Keys missing from the file
// keep their Default values. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	// Zero durations fall back to defaults
	def := Default().Transition
	if cfg.Transition.Startup == 0 {
		cfg.Transition.Startup = def.Startup
	}
	if cfg.Transition.Toggle == 0 {
		cfg.Transition.Toggle = def.Toggle
	}
	if cfg.Transition.FastTick == 0 {
		cfg.Transition.FastTick = def.FastTick
	}
	if cfg.Transition.SlowTick == 0 {
		cfg.Transition.SlowTick = def.SlowTick
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Dir returns the directory of the loaded file, used to resolve relative
// script paths. Empty when no file was loaded.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// SetLocation sets both coordinates
func (c *Config) SetLocation(lat, lon float64) {
	c.Location.Lat = &lat
	c.Location.Lon = &lon
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := strings.TrimSpace(parts[1])
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// GammaValues parses the gamma setting, defaulting to 1.0 on all channels
func (c *Config) GammaValues() (colorramp.Gamma, error) {
	if strings.TrimSpace(c.Gamma) == "" {
		return colorramp.UniformGamma(colorramp.DefaultGamma), nil
	}
	return ParseGamma(c.Gamma)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/dokzlo13/shiftd/internal/app"
	"github.com/dokzlo13/shiftd/internal/config"
)

// flags holds the raw command line values; only flags that were set
// override the config file
type flags struct {
	set *pflag.FlagSet

	configPath   string
	location     string
	temperature  string
	gamma        string
	method       string
	screen       int
	crtc         int
	oneShot      bool
	noTransition bool
	verbose      bool
	logLevel     string
	logJSON      bool
}

func newFlags() *flags {
	f := &flags{set: pflag.NewFlagSet("shiftd", pflag.ContinueOnError)}
	fs := f.set

	fs.StringVar(&f.configPath, "config", "", "Path to YAML configuration file")
	fs.StringVarP(&f.location, "location", "l", "", "Your current location as LAT:LON")
	fs.StringVarP(&f.temperature, "temperature", "t", "", "Color temperature at daytime and night as DAY:NIGHT")
	fs.StringVarP(&f.gamma, "gamma", "g", "", "Additional gamma correction as R:G:B or a single value")
	fs.StringVarP(&f.method, "method", "m", "", "Method to set color temperature (RANDR, VidMode, WinGDI, dummy)")
	fs.IntVarP(&f.screen, "screen", "s", -1, "X screen to apply adjustments to")
	fs.IntVarP(&f.crtc, "crtc", "c", -1, "CRTC to apply adjustments to (RANDR only)")
	fs.BoolVarP(&f.oneShot, "one-shot", "o", false, "One shot mode (do not continuously adjust color temperature)")
	fs.BoolVarP(&f.noTransition, "no-transition", "r", false, "Disable temperature transitions")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log period and temperature on every update")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.logJSON, "log-json", false, "Log JSON instead of console output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shiftd -l LAT:LON [options]\n\n")
		fmt.Fprintf(os.Stderr, "Set color temperature of display according to time of day.\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nDefault values:\n\n  Daytime temperature: %dK\n  Night temperature: %dK\n",
			config.Default().Temperature.Day, config.Default().Temperature.Night)
	}
	return f
}

// loadConfig parses args, loads the optional config file and applies the
// flags on top of it
func loadConfig(args []string) (*config.Config, error) {
	f := newFlags()
	if err := f.set.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	changed := f.set.Changed
	if changed("location") {
		lat, lon, err := config.ParseLocation(f.location)
		if err != nil {
			return nil, err
		}
		cfg.SetLocation(lat, lon)
	}
	if changed("temperature") {
		day, night, err := config.ParseTemperatures(f.temperature)
		if err != nil {
			return nil, err
		}
		cfg.Temperature.Day, cfg.Temperature.Night = day, night
	}
	if changed("gamma") {
		cfg.Gamma = f.gamma
	}
	if changed("method") {
		cfg.Method.Name = f.method
	}
	if changed("screen") {
		cfg.Method.Screen = f.screen
	}
	if changed("crtc") {
		cfg.Method.CRTC = f.crtc
	}
	if changed("no-transition") {
		cfg.Transition.Enabled = !f.noTransition
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-json") {
		cfg.Log.JSON = f.logJSON
	}
	cfg.OneShot = f.oneShot

	return cfg, nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}

	if err != nil {
		setupLogging("info", false, true)
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	setupLogging(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Colors)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	loc := cfg.LocationValue()
	g, _ := cfg.GammaValues()
	log.Info().
		Str("location", loc.String()).
		Floats64("gamma", g[:]).
		Bool("one_shot", cfg.OneShot).
		Msg("Starting shiftd")

	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Adjustment failed")
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

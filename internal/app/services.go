package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/shiftd/internal/colortemp"
	"github.com/dokzlo13/shiftd/internal/config"
	"github.com/dokzlo13/shiftd/internal/control"
	"github.com/dokzlo13/shiftd/internal/db"
	"github.com/dokzlo13/shiftd/internal/engine"
	"github.com/dokzlo13/shiftd/internal/gamma"
	"github.com/dokzlo13/shiftd/internal/geo"
	"github.com/dokzlo13/shiftd/internal/ledger"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// History (optional)
	DB     *db.DB
	Ledger *ledger.Ledger

	// Temperature pipeline
	Solar geo.Provider
	Model colortemp.Model
	Lua   *LuaService

	// Display and control
	Display *gamma.Session
	Events  *control.Queue
}

// NewServices creates all services. The gamma session is opened last so a
// failure earlier never touches the display.
func NewServices(cfg *config.Config, registry *gamma.Registry) (*Services, error) {
	s := &Services{cfg: cfg}

	if cfg.History.Enabled {
		database, err := db.OpenMemory()
		if err != nil {
			return nil, err
		}
		s.DB = database
		s.Ledger = ledger.New(database.DB)
		s.Ledger.SetMaxEntries(cfg.History.MaxEntries)
		log.Debug().
			Str("session", s.Ledger.SessionID()).
			Int("max_entries", cfg.History.MaxEntries).
			Msg("Session history enabled")
	}

	solar, err := geo.NewProvider(cfg.Solar.Provider)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Solar = solar

	builtin := &colortemp.Static{
		Day:   cfg.Temperature.Day,
		Night: cfg.Temperature.Night,
		Low:   cfg.Elevation.Low,
		High:  cfg.Elevation.High,
	}
	s.Model = builtin

	if cfg.Script != "" {
		s.Lua, err = NewLuaService(cfg, solar, builtin)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to load Lua script: %w", err)
		}
		s.Model = s.Lua.Model
	}

	method, err := cfg.MethodValue()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Display, err = gamma.Open(registry, method, gamma.OpenOptions{
		Display: cfg.Method.Display,
		Screen:  cfg.Method.Screen,
		CRTC:    cfg.Method.CRTC,
	}, cfg.Method.RateLimitRPS)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Events = control.NewQueue(control.DefaultQueueSize)

	log.Debug().
		Str("solar", solar.Name()).
		Str("method", s.Display.Method().String()).
		Bool("history", s.Ledger != nil).
		Bool("script", s.Lua != nil).
		Msg("Services initialized")

	return s, nil
}

// EngineConfig builds the engine configuration
func (s *Services) EngineConfig() (engine.Config, error) {
	g, err := s.cfg.GammaValues()
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Location:    s.cfg.LocationValue(),
		Gamma:       g,
		Transition:  s.cfg.Transition.Enabled,
		Verbose:     s.cfg.Verbose,
		StartupFade: s.cfg.Transition.Startup.Duration(),
		ToggleFade:  s.cfg.Transition.Toggle.Duration(),
		FastTick:    s.cfg.Transition.FastTick.Duration(),
		SlowTick:    s.cfg.Transition.SlowTick.Duration(),
	}, nil
}

// EngineDeps builds the engine collaborators. The display is handed over
// to the engine, which releases it.
func (s *Services) EngineDeps() engine.Deps {
	deps := engine.Deps{
		Solar:   s.Solar,
		Model:   s.Model,
		Display: s.Display,
		Events:  s.Events,
	}
	// Avoid a typed nil interface when history is disabled
	if s.Ledger != nil {
		deps.Recorder = s.Ledger
	}
	return deps
}

// Close releases everything except the display, which the engine owns once
// it runs. Safe to call on a partially built container.
func (s *Services) Close() {
	if s.Events != nil {
		s.Events.Close()
	}
	if s.Lua != nil {
		s.Lua.Stop()
	}
	if s.Ledger != nil {
		s.Ledger.LogSummary()
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close history database")
		}
	}
}

// Package app wires configuration, the temperature pipeline, the gamma
// session and control events into a running transition engine.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/shiftd/internal/config"
	"github.com/dokzlo13/shiftd/internal/control"
	"github.com/dokzlo13/shiftd/internal/engine"
	"github.com/dokzlo13/shiftd/internal/gamma"
)

// App is the main application container that manages all services and their lifecycle.
type App struct {
	cfg      *config.Config
	services *Services
}

// New creates a new App with every service initialized, including the
// gamma session. cfg must already be validated.
func New(cfg *config.Config) (*App, error) {
	return NewWithRegistry(cfg, gamma.DefaultRegistry())
}

// NewWithRegistry is New with a custom set of gamma methods
func NewWithRegistry(cfg *config.Config, registry *gamma.Registry) (*App, error) {
	services, err := NewServices(cfg, registry)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		services: services,
	}, nil
}

// Run adjusts the display until a stop signal arrives, or applies a single
// adjustment in one-shot mode. Cancelling ctx forces an immediate stop.
func (a *App) Run(ctx context.Context) error {
	defer a.services.Close()

	cfg, err := a.services.EngineConfig()
	if err != nil {
		a.services.Display.Release(true)
		return err
	}
	deps := a.services.EngineDeps()

	if a.cfg.OneShot {
		log.Info().Msg("Applying one-shot adjustment")
		return engine.OneShot(ctx, cfg, deps)
	}

	stop := control.Notify(ctx, a.services.Events)
	defer stop()

	log.Info().
		Str("method", a.services.Display.Method().String()).
		Int("day", a.cfg.Temperature.Day).
		Int("night", a.cfg.Temperature.Night).
		Msg("shiftd started")

	return engine.New(cfg, deps).Run(ctx)
}

// post delivers a control event as if it came from a signal
func (a *App) post(ev control.Event) bool {
	return a.services.Events.Post(ev)
}

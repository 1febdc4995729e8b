package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/shiftd/internal/colortemp"
	"github.com/dokzlo13/shiftd/internal/config"
	"github.com/dokzlo13/shiftd/internal/geo"
	luart "github.com/dokzlo13/shiftd/internal/lua"
)

// LuaService wraps the Lua runtime hosting the temperature hook.
type LuaService struct {
	Runtime *luart.Runtime
	Model   *luart.Model
}

// NewLuaService loads cfg.Script and binds its temperature hook on top of
// the builtin model.
func NewLuaService(cfg *config.Config, solar geo.Provider, builtin *colortemp.Static) (*LuaService, error) {
	runtime := luart.NewRuntime(cfg.LocationValue(), solar, builtin)

	if err := runtime.LoadScript(cfg.Script, cfg.Dir()); err != nil {
		runtime.Close()
		return nil, err
	}

	model, err := luart.NewModel(runtime, builtin)
	if err != nil {
		runtime.Close()
		return nil, err
	}

	log.Info().Str("script", cfg.Script).Msg("Using scripted temperature model")
	return &LuaService{Runtime: runtime, Model: model}, nil
}

// Stop closes the Lua VM, logging how often the hook had to be bypassed.
func (s *LuaService) Stop() {
	if n := s.Model.Failures(); n > 0 {
		log.Warn().Int("failures", n).Msg("Lua temperature hook fell back to the builtin model")
	}
	s.Runtime.Close()
}

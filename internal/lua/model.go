package lua

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/shiftd/internal/colortemp"
)

// HookName is the global function a script defines to override the
// temperature model: temperature(elevation, day, night) -> kelvin
const HookName = "temperature"

// Model is a colortemp.Model backed by a Lua hook. The builtin model
// supplies the period label and is used whenever the hook misbehaves.
type Model struct {
	rt       *Runtime
	fallback *colortemp.Static

	// failures is only touched by the engine goroutine
	failures int
}

// NewModel wraps rt. The script must already be loaded and define the hook.
func NewModel(rt *Runtime, fallback *colortemp.Static) (*Model, error) {
	if !rt.HasFunction(HookName) {
		return nil, fmt.Errorf("script does not define %s(elevation, day, night)", HookName)
	}
	return &Model{rt: rt, fallback: fallback}, nil
}

// Evaluate calls the hook. Errors, non-numeric results and temperatures
// outside the supported range fall back to the builtin model.
func (m *Model) Evaluate(elevation float64) colortemp.Target {
	target := m.fallback.Evaluate(elevation)

	ret, err := m.rt.Call(HookName,
		lua.LNumber(elevation),
		lua.LNumber(m.fallback.Day),
		lua.LNumber(m.fallback.Night),
	)
	if err != nil {
		m.fail(err, elevation)
		return target
	}

	n, ok := ret.(lua.LNumber)
	if !ok {
		m.fail(fmt.Errorf("%s returned %s, want number", HookName, ret.Type()), elevation)
		return target
	}

	temp := int(math.Round(float64(n)))
	if err := colortemp.ValidateTemperature(temp); err != nil {
		m.fail(err, elevation)
		return target
	}

	target.Temperature = temp
	return target
}

// Failures returns how many evaluations fell back to the builtin model
func (m *Model) Failures() int {
	return m.failures
}

func (m *Model) fail(err error, elevation float64) {
	m.failures++
	log.Warn().Err(err).
		Float64("elevation", elevation).
		Int("failures", m.failures).
		Msg("Lua temperature hook failed, using builtin model")
}

package modules

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/shiftd/internal/colortemp"
	"github.com/dokzlo13/shiftd/internal/geo"
)

// SolarModule provides the observer's location, the sun's elevation and the
// configured elevation band to Lua
type SolarModule struct {
	location geo.Location
	provider geo.Provider
	builtin  *colortemp.Static
	now      func() time.Time
}

// NewSolarModule creates a solar module bound to one location. builtin
// supplies the transition thresholds; nil uses the defaults.
func NewSolarModule(loc geo.Location, provider geo.Provider, builtin *colortemp.Static) *SolarModule {
	if builtin == nil {
		builtin = colortemp.NewStatic(colortemp.DefaultDayTemperature, colortemp.DefaultNightTemperature)
	}
	return &SolarModule{location: loc, provider: provider, builtin: builtin, now: time.Now}
}

// Loader is the module loader for Lua
func (m *SolarModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "elevation", L.NewFunction(m.elevation))
	L.SetField(mod, "location", L.NewFunction(m.locationFn))
	L.SetField(mod, "period", L.NewFunction(m.period))
	L.SetField(mod, "interpolate", L.NewFunction(m.interpolate))
	L.SetField(mod, "low", lua.LNumber(m.builtin.Low))
	L.SetField(mod, "high", lua.LNumber(m.builtin.High))

	L.Push(mod)
	return 1
}

// elevation(unix?) -> degrees above the horizon, now when unix is omitted
func (m *SolarModule) elevation(L *lua.LState) int {
	t := m.now()
	if L.GetTop() >= 1 {
		t = time.Unix(int64(L.CheckNumber(1)), 0)
	}
	L.Push(lua.LNumber(m.provider.Elevation(t, m.location)))
	return 1
}

// location() -> lat, lon
func (m *SolarModule) locationFn(L *lua.LState) int {
	L.Push(lua.LNumber(m.location.Latitude))
	L.Push(lua.LNumber(m.location.Longitude))
	return 2
}

// period(elevation) -> "Night" | "Transition" | "Daytime"
func (m *SolarModule) period(L *lua.LState) int {
	elevation := float64(L.CheckNumber(1))
	L.Push(lua.LString(m.builtin.Evaluate(elevation).Period.String()))
	return 1
}

// interpolate(elevation, day, night) -> kelvin, day_fraction
// The builtin linear blend, for scripts that only want to tweak it.
func (m *SolarModule) interpolate(L *lua.LState) int {
	elevation := float64(L.CheckNumber(1))
	day := int(L.CheckNumber(2))
	night := int(L.CheckNumber(3))

	target := colortemp.CalculateWithThresholds(elevation, day, night, m.builtin.Low, m.builtin.High)
	L.Push(lua.LNumber(target.Temperature))
	L.Push(lua.LNumber(target.DayFraction))
	return 2
}

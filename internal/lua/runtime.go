package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/shiftd/internal/colortemp"
	"github.com/dokzlo13/shiftd/internal/geo"
	"github.com/dokzlo13/shiftd/internal/lua/modules"
)

// ErrRuntimeClosed is returned when the Lua runtime is closed
var ErrRuntimeClosed = fmt.Errorf("lua runtime closed")

// Runtime owns a Lua VM. gopher-lua states are not goroutine safe, so every
// call into the VM holds mu.
type Runtime struct {
	L        *lua.LState
	location geo.Location
	solar    geo.Provider
	builtin  *colortemp.Static

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewRuntime creates a Lua runtime with the log and solar modules preloaded.
// builtin is the model scripts build on; its thresholds are exposed through
// the solar module. nil uses the defaults.
func NewRuntime(loc geo.Location, solar geo.Provider, builtin *colortemp.Static) *Runtime {
	if solar == nil {
		solar = geo.Builtin{}
	}

	r := &Runtime{
		L:        lua.NewState(),
		location: loc,
		solar:    solar,
		builtin:  builtin,
	}
	r.registerModules()
	return r
}

func (r *Runtime) registerModules() {
	r.L.PreloadModule("log", modules.NewLogModule().Loader)
	r.L.PreloadModule("solar", modules.NewSolarModule(r.location, r.solar, r.builtin).Loader)
}

// LoadScript executes a Lua file. Relative paths that do not exist are
// resolved against baseDir (usually the config file's directory).
func (r *Runtime) LoadScript(path, baseDir string) error {
	if !filepath.IsAbs(path) && baseDir != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = filepath.Join(baseDir, path)
		}
	}

	log.Info().Str("path", path).Msg("Loading Lua script")

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}

	log.Info().Msg("Lua script loaded successfully")
	return nil
}

// loadString executes a chunk of Lua source
func (r *Runtime) loadString(src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("failed to execute Lua chunk: %w", err)
	}
	return nil
}

// Call invokes the global function name with args and returns its first
// result. Lua errors are recovered and returned.
func (r *Runtime) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return lua.LNil, ErrRuntimeClosed
	}

	fn, ok := r.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("lua function %q is not defined", name)
	}

	if err := r.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, fmt.Errorf("lua function %q failed: %w", name, err)
	}
	ret := r.L.Get(-1)
	r.L.Pop(1)
	return ret, nil
}

// HasFunction reports whether a global function called name exists
func (r *Runtime) HasFunction(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	_, ok := r.L.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Close shuts the VM down. Safe to call more than once.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.closed = true
		r.L.Close()
	})
}

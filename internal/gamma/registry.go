package gamma

import (
	"github.com/rs/zerolog/log"
)

// Registry maps methods to their openers and knows the probe order
type Registry struct {
	openers map[Method]Opener
	probe   []Method
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{openers: make(map[Method]Opener)}
}

// DefaultRegistry returns the native methods in probe order
// RANDR, VidMode, WinGDI. The dummy method is only used when requested.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(MethodRandR, openRandR, true)
	r.Register(MethodVidMode, openVidMode, true)
	r.Register(MethodWinGDI, openWinGDI, true)
	r.Register(MethodDummy, openDummy, false)
	return r
}

// Register adds a method. Probed methods are tried in registration order.
func (r *Registry) Register(m Method, opener Opener, probe bool) {
	r.openers[m] = opener
	if probe {
		r.probe = append(r.probe, m)
	}
}

// Open initializes the requested method. With MethodAuto every probed method
// is tried in order and the first that initializes wins; otherwise a failure
// of the requested method is returned as is.
func (r *Registry) Open(m Method, opts OpenOptions) (Method, Backend, error) {
	if m != MethodAuto {
		opener, ok := r.openers[m]
		if !ok {
			return m, nil, &InitError{Method: m, Err: ErrUnavailable}
		}
		b, err := opener(opts)
		if err != nil {
			return m, nil, &InitError{Method: m, Err: err}
		}
		log.Info().Str("method", m.String()).Msg("Gamma method initialized")
		return m, b, nil
	}

	for _, candidate := range r.probe {
		b, err := r.openers[candidate](opts)
		if err != nil {
			log.Warn().Err(err).Str("method", candidate.String()).Msg("Initialization failed, trying other method")
			continue
		}
		log.Info().Str("method", candidate.String()).Msg("Gamma method initialized")
		return candidate, b, nil
	}

	return MethodAuto, nil, &InitError{Method: MethodAuto, Err: ErrNoMethod}
}

package gamma

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

// DefaultRateLimitRPS caps ramp updates per second
const DefaultRateLimitRPS = 20.0

// Session exclusively owns an opened backend. Release runs restore and free
// at most once, so it can be deferred on every exit path.
type Session struct {
	method  Method
	backend Backend
	limiter *rate.Limiter

	mu       sync.Mutex
	released bool
	once     sync.Once
}

// NewSession wraps an opened backend. rateLimitRPS <= 0 disables limiting.
func NewSession(method Method, backend Backend, rateLimitRPS float64) *Session {
	s := &Session{method: method, backend: backend}
	if rateLimitRPS > 0 {
		burst := int(rateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rateLimitRPS), burst)
	}
	return s
}

// Open initializes a method from the registry and wraps it in a session
func Open(r *Registry, m Method, opts OpenOptions, rateLimitRPS float64) (*Session, error) {
	method, backend, err := r.Open(m, opts)
	if err != nil {
		return nil, err
	}
	return NewSession(method, backend, rateLimitRPS), nil
}

// Method returns the method backing the session
func (s *Session) Method() Method {
	return s.method
}

// Apply sets the display to temp. Waits for the rate limiter first.
func (s *Session) Apply(ctx context.Context, temp int, gamma colorramp.Gamma) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}

	if err := s.backend.SetTemperature(temp, gamma); err != nil {
		return &IOError{Method: s.method, Err: err}
	}
	return nil
}

// Restore reapplies the ramps saved at open time. Failures are logged.
func (s *Session) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.restoreLocked()
}

func (s *Session) restoreLocked() {
	if err := s.backend.Restore(); err != nil {
		log.Error().Err(err).Str("method", s.method.String()).Msg("Failed to restore gamma ramps")
	}
}

// Release frees the backend, restoring saved ramps first when restore is
// set. Only the first call has an effect.
func (s *Session) Release(restore bool) {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if restore {
			s.restoreLocked()
		}
		if err := s.backend.Free(); err != nil {
			log.Error().Err(err).Str("method", s.method.String()).Msg("Failed to free gamma method")
		}
		s.released = true
		log.Debug().Str("method", s.method.String()).Bool("restored", restore).Msg("Gamma session released")
	})
}

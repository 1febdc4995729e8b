// Package gamma applies color temperature ramps through native display APIs.
//
// Each adjustment method (RandR, VidMode, WinGDI) implements Backend. The
// rest of the program only sees the interface and a Session that owns the
// opened backend.
package gamma

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

// Backend is an initialized adjustment method bound to a display.
// Opening a backend saves the current ramps so Restore can reapply them.
type Backend interface {
	// SetTemperature generates and applies ramps for temp with the given gamma
	SetTemperature(temp int, gamma colorramp.Gamma) error
	// Restore reapplies the ramps saved when the backend was opened
	Restore() error
	// Free releases native resources. The backend must not be used afterwards.
	Free() error
}

// OpenOptions selects the display a backend binds to
type OpenOptions struct {
	Display string // X display name, empty uses $DISPLAY
	Screen  int    // -1 selects the default screen
	CRTC    int    // -1 selects all CRTCs (RandR only)
}

// DefaultOpenOptions returns options selecting the default screen and all CRTCs
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{Screen: -1, CRTC: -1}
}

// Opener initializes a backend
type Opener func(opts OpenOptions) (Backend, error)

// Method names an adjustment method
type Method string

const (
	MethodAuto    Method = ""
	MethodRandR   Method = "randr"
	MethodVidMode Method = "vidmode"
	MethodWinGDI  Method = "wingdi"
	MethodDummy   Method = "dummy"
)

// String returns the display name of the method
func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodRandR:
		return "RANDR"
	case MethodVidMode:
		return "VidMode"
	case MethodWinGDI:
		return "WinGDI"
	case MethodDummy:
		return "Dummy"
	default:
		return string(m)
	}
}

// ParseMethod parses a method name case-insensitively. Empty and "auto"
// select probing.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodAuto, "auto":
		return MethodAuto, nil
	case MethodRandR, MethodVidMode, MethodWinGDI, MethodDummy:
		return m, nil
	default:
		return "", fmt.Errorf("unknown method %q", s)
	}
}

var (
	// ErrNoMethod is returned when probing finds no working method
	ErrNoMethod = errors.New("no more methods to try")
	// ErrUnavailable is returned by methods not supported on this platform
	ErrUnavailable = errors.New("method not available on this platform")
	// ErrReleased is returned when a released session is used
	ErrReleased = errors.New("gamma session released")
)

// InitError reports a failed backend initialization
type InitError struct {
	Method Method
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialization of %s failed: %v", e.Method, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// IOError reports a failed ramp update on an initialized backend
type IOError struct {
	Method Method
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("temperature adjustment with %s failed: %v", e.Method, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// savedRamps holds ramps read from the display at open time
type savedRamps struct {
	red, green, blue []uint16
}

func (s savedRamps) size() int {
	return len(s.red)
}

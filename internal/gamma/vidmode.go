package gamma

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xf86vidmode"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

// vidmodeBackend adjusts the whole X screen through XF86VidMode
type vidmodeBackend struct {
	conn   *xgb.Conn
	screen uint16
	saved  savedRamps
}

func openVidMode(opts OpenOptions) (Backend, error) {
	conn, err := xgb.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	b, err := initVidMode(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func initVidMode(conn *xgb.Conn, opts OpenOptions) (*vidmodeBackend, error) {
	if err := xf86vidmode.Init(conn); err != nil {
		return nil, fmt.Errorf("VidMode extension unavailable: %w", err)
	}

	if _, err := xf86vidmode.QueryVersion(conn).Reply(); err != nil {
		return nil, fmt.Errorf("X request failed: XF86VidModeQueryVersion: %w", err)
	}

	screen := opts.Screen
	if screen < 0 {
		screen = conn.DefaultScreen
	}

	size, err := xf86vidmode.GetGammaRampSize(conn, uint16(screen)).Reply()
	if err != nil {
		return nil, fmt.Errorf("X request failed: XF86VidModeGetGammaRampSize: %w", err)
	}
	if size.Size == 0 {
		return nil, fmt.Errorf("gamma ramp size too small: %d", size.Size)
	}

	// Save current ramps so they can be restored at exit
	ramps, err := xf86vidmode.GetGammaRamp(conn, uint16(screen), size.Size).Reply()
	if err != nil {
		return nil, fmt.Errorf("X request failed: XF86VidModeGetGammaRamp: %w", err)
	}

	return &vidmodeBackend{
		conn:   conn,
		screen: uint16(screen),
		saved:  savedRamps{red: ramps.Red, green: ramps.Green, blue: ramps.Blue},
	}, nil
}

func (b *vidmodeBackend) SetTemperature(temp int, gamma colorramp.Gamma) error {
	ramp, err := colorramp.New(b.saved.size(), temp, gamma)
	if err != nil {
		return err
	}
	return b.setRamps(ramp.Red, ramp.Green, ramp.Blue)
}

func (b *vidmodeBackend) Restore() error {
	return b.setRamps(b.saved.red, b.saved.green, b.saved.blue)
}

func (b *vidmodeBackend) Free() error {
	b.conn.Close()
	return nil
}

func (b *vidmodeBackend) setRamps(r, g, bl []uint16) error {
	err := xf86vidmode.SetGammaRampChecked(b.conn, b.screen, uint16(len(r)), r, g, bl).Check()
	if err != nil {
		return fmt.Errorf("X request failed: XF86VidModeSetGammaRamp: %w", err)
	}
	return nil
}

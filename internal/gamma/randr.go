package gamma

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

// Minimum RandR version providing per-CRTC gamma
const (
	randrMajor = 1
	randrMinor = 3
)

type randrCRTC struct {
	id    randr.Crtc
	saved savedRamps
}

// randrBackend adjusts every selected CRTC of one X screen
type randrBackend struct {
	conn  *xgb.Conn
	crtcs []randrCRTC
}

func openRandR(opts OpenOptions) (Backend, error) {
	conn, err := xgb.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	b, err := initRandR(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func initRandR(conn *xgb.Conn, opts OpenOptions) (*randrBackend, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("RANDR extension unavailable: %w", err)
	}

	ver, err := randr.QueryVersion(conn, randrMajor, randrMinor).Reply()
	if err != nil {
		return nil, fmt.Errorf("X request failed: RANDRQueryVersion: %w", err)
	}
	if ver.MajorVersion != randrMajor || ver.MinorVersion < randrMinor {
		return nil, fmt.Errorf("unsupported RANDR version (%d.%d)", ver.MajorVersion, ver.MinorVersion)
	}

	setup := xproto.Setup(conn)
	screen := opts.Screen
	if screen < 0 {
		screen = conn.DefaultScreen
	}
	if screen >= len(setup.Roots) {
		return nil, fmt.Errorf("screen %d does not exist", screen)
	}
	root := setup.Roots[screen].Root

	res, err := randr.GetScreenResourcesCurrent(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("X request failed: RANDRGetScreenResourcesCurrent: %w", err)
	}

	ids := res.Crtcs
	if opts.CRTC >= 0 {
		if opts.CRTC >= len(ids) {
			return nil, fmt.Errorf("CRTC %d does not exist, valid CRTCs are [0-%d]", opts.CRTC, len(ids)-1)
		}
		ids = ids[opts.CRTC : opts.CRTC+1]
	}

	b := &randrBackend{conn: conn}
	for _, id := range ids {
		size, err := randr.GetCrtcGammaSize(conn, id).Reply()
		if err != nil {
			return nil, fmt.Errorf("X request failed: RANDRGetCrtcGammaSize: %w", err)
		}
		if size.Size == 0 {
			return nil, fmt.Errorf("gamma ramp size too small: %d", size.Size)
		}

		ramps, err := randr.GetCrtcGamma(conn, id).Reply()
		if err != nil {
			return nil, fmt.Errorf("X request failed: RANDRGetCrtcGamma: %w", err)
		}

		b.crtcs = append(b.crtcs, randrCRTC{
			id:    id,
			saved: savedRamps{red: ramps.Red, green: ramps.Green, blue: ramps.Blue},
		})
	}

	return b, nil
}

func (b *randrBackend) SetTemperature(temp int, gamma colorramp.Gamma) error {
	for _, c := range b.crtcs {
		ramp, err := colorramp.New(c.saved.size(), temp, gamma)
		if err != nil {
			return err
		}
		if err := b.setRamps(c.id, ramp.Red, ramp.Green, ramp.Blue); err != nil {
			return err
		}
	}
	return nil
}

func (b *randrBackend) Restore() error {
	var firstErr error
	for _, c := range b.crtcs {
		if err := b.setRamps(c.id, c.saved.red, c.saved.green, c.saved.blue); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (b *randrBackend) Free() error {
	b.conn.Close()
	b.crtcs = nil
	return nil
}

func (b *randrBackend) setRamps(id randr.Crtc, r, g, bl []uint16) error {
	err := randr.SetCrtcGammaChecked(b.conn, id, uint16(len(r)), r, g, bl).Check()
	if err != nil {
		return fmt.Errorf("X request failed: RANDRSetCrtcGamma: %w", err)
	}
	return nil
}

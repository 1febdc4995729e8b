//go:build windows

package gamma

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

// GDI gamma ramps always hold 256 entries per channel
const wingdiRampSize = 256

// GetDeviceCaps index and capability bit
const (
	colorMgmtCaps = 121
	cmGammaRamp   = 2
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procGetDeviceCaps      = gdi32.NewProc("GetDeviceCaps")
	procGetDeviceGammaRamp = gdi32.NewProc("GetDeviceGammaRamp")
	procSetDeviceGammaRamp = gdi32.NewProc("SetDeviceGammaRamp")
)

type wingdiRamp [3][wingdiRampSize]uint16

type wingdiBackend struct {
	hdc   uintptr
	saved wingdiRamp
}

func openWinGDI(_ OpenOptions) (Backend, error) {
	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return nil, errors.New("unable to open device context")
	}

	caps, _, _ := procGetDeviceCaps.Call(hdc, colorMgmtCaps)
	if caps&cmGammaRamp == 0 {
		procReleaseDC.Call(0, hdc)
		return nil, errors.New("display device does not support gamma ramps")
	}

	b := &wingdiBackend{hdc: hdc}
	ok, _, err := procGetDeviceGammaRamp.Call(hdc, uintptr(unsafe.Pointer(&b.saved)))
	if ok == 0 {
		procReleaseDC.Call(0, hdc)
		return nil, fmt.Errorf("unable to save current gamma ramp: %w", err)
	}
	return b, nil
}

func (b *wingdiBackend) SetTemperature(temp int, gamma colorramp.Gamma) error {
	var ramp wingdiRamp
	if err := colorramp.Fill(ramp[0][:], ramp[1][:], ramp[2][:], temp, gamma); err != nil {
		return err
	}
	return b.set(&ramp)
}

func (b *wingdiBackend) Restore() error {
	return b.set(&b.saved)
}

func (b *wingdiBackend) Free() error {
	procReleaseDC.Call(0, b.hdc)
	b.hdc = 0
	return nil
}

func (b *wingdiBackend) set(ramp *wingdiRamp) error {
	ok, _, err := procSetDeviceGammaRamp.Call(b.hdc, uintptr(unsafe.Pointer(ramp)))
	if ok == 0 {
		return fmt.Errorf("unable to set gamma ramps: %w", err)
	}
	return nil
}

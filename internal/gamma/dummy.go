package gamma

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

// DummyRampSize is the ramp length generated by the dummy method
const DummyRampSize = 256

// dummyBackend computes ramps but only logs them. Useful without a display.
type dummyBackend struct {
	size int
}

func openDummy(_ OpenOptions) (Backend, error) {
	log.Warn().Msg("Using dummy method, the display will not be changed")
	return &dummyBackend{size: DummyRampSize}, nil
}

func (b *dummyBackend) SetTemperature(temp int, gamma colorramp.Gamma) error {
	ramp, err := colorramp.New(b.size, temp, gamma)
	if err != nil {
		return err
	}
	last := b.size - 1
	log.Info().
		Int("temperature", temp).
		Uint16("red", ramp.Red[last]).
		Uint16("green", ramp.Green[last]).
		Uint16("blue", ramp.Blue[last]).
		Msg("Dummy gamma ramp")
	return nil
}

func (b *dummyBackend) Restore() error {
	log.Info().Msg("Dummy gamma ramp restored")
	return nil
}

func (b *dummyBackend) Free() error {
	return nil
}

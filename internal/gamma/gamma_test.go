package gamma

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/shiftd/internal/colorramp"
)

type recordingBackend struct {
	calls    []string
	temps    []int
	setErr   error
	freed    int
	restored int
}

func (b *recordingBackend) SetTemperature(temp int, _ colorramp.Gamma) error {
	b.calls = append(b.calls, "set")
	b.temps = append(b.temps, temp)
	return b.setErr
}

func (b *recordingBackend) Restore() error {
	b.calls = append(b.calls, "restore")
	b.restored++
	return nil
}

func (b *recordingBackend) Free() error {
	b.calls = append(b.calls, "free")
	b.freed++
	return nil
}

func openerFor(b Backend, err error, opened *[]Method, m Method) Opener {
	return func(OpenOptions) (Backend, error) {
		*opened = append(*opened, m)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodAuto, false},
		{"auto", MethodAuto, false},
		{"randr", MethodRandR, false},
		{"RANDR", MethodRandR, false},
		{"VidMode", MethodVidMode, false},
		{"WinGDI", MethodWinGDI, false},
		{"dummy", MethodDummy, false},
		{"wayland", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRegistry_ProbeUsesFirstWorkingMethod(t *testing.T) {
	var opened []Method
	vidmode := &recordingBackend{}

	r := NewRegistry()
	r.Register(MethodRandR, openerFor(nil, errors.New("no randr"), &opened, MethodRandR), true)
	r.Register(MethodVidMode, openerFor(vidmode, nil, &opened, MethodVidMode), true)
	r.Register(MethodWinGDI, openerFor(&recordingBackend{}, nil, &opened, MethodWinGDI), true)

	m, b, err := r.Open(MethodAuto, DefaultOpenOptions())
	require.NoError(t, err)
	assert.Equal(t, MethodVidMode, m)
	assert.Same(t, vidmode, b)
	assert.Equal(t, []Method{MethodRandR, MethodVidMode}, opened)
}

func TestRegistry_ProbeAllFail(t *testing.T) {
	var opened []Method
	r := NewRegistry()
	r.Register(MethodRandR, openerFor(nil, errors.New("no randr"), &opened, MethodRandR), true)
	r.Register(MethodVidMode, openerFor(nil, errors.New("no vidmode"), &opened, MethodVidMode), true)
	r.Register(MethodDummy, openerFor(&recordingBackend{}, nil, &opened, MethodDummy), false)

	_, _, err := r.Open(MethodAuto, DefaultOpenOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMethod)
	assert.Equal(t, []Method{MethodRandR, MethodVidMode}, opened, "dummy must not be probed")
}

func TestRegistry_ExplicitMethodFailureIsFatal(t *testing.T) {
	var opened []Method
	cause := errors.New("no randr")
	r := NewRegistry()
	r.Register(MethodRandR, openerFor(nil, cause, &opened, MethodRandR), true)
	r.Register(MethodVidMode, openerFor(&recordingBackend{}, nil, &opened, MethodVidMode), true)

	_, _, err := r.Open(MethodRandR, DefaultOpenOptions())
	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, MethodRandR, initErr.Method)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []Method{MethodRandR}, opened, "no fallback for explicit method")
}

func TestRegistry_UnregisteredMethod(t *testing.T) {
	_, _, err := NewRegistry().Open(MethodWinGDI, DefaultOpenOptions())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSession_ReleaseRestoresThenFreesOnce(t *testing.T) {
	b := &recordingBackend{}
	s := NewSession(MethodDummy, b, 0)

	require.NoError(t, s.Apply(context.Background(), 4000, colorramp.UniformGamma(1)))
	s.Release(true)
	s.Release(true)
	s.Release(false)

	assert.Equal(t, []string{"set", "restore", "free"}, b.calls)
	assert.ErrorIs(t, s.Apply(context.Background(), 4000, colorramp.UniformGamma(1)), ErrReleased)

	s.Restore()
	assert.Equal(t, 1, b.restored, "restore after release is a no-op")
}

func TestSession_ReleaseWithoutRestore(t *testing.T) {
	b := &recordingBackend{}
	s := NewSession(MethodDummy, b, 0)
	s.Release(false)
	assert.Equal(t, []string{"free"}, b.calls)
}

func TestSession_ApplyWrapsIOError(t *testing.T) {
	cause := errors.New("X request failed")
	s := NewSession(MethodVidMode, &recordingBackend{setErr: cause}, 0)

	err := s.Apply(context.Background(), 3700, colorramp.UniformGamma(1))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, MethodVidMode, ioErr.Method)
	assert.ErrorIs(t, err, cause)
}

func TestSession_ApplyHonoursCancelledContext(t *testing.T) {
	b := &recordingBackend{}
	s := NewSession(MethodDummy, b, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The first token is available immediately, the second must wait and sees the cancellation
	_ = s.Apply(context.Background(), 5000, colorramp.UniformGamma(1))
	err := s.Apply(ctx, 5000, colorramp.UniformGamma(1))
	assert.Error(t, err)
	assert.Len(t, b.temps, 1)
}

func TestDummyBackend(t *testing.T) {
	b, err := openDummy(DefaultOpenOptions())
	require.NoError(t, err)
	assert.NoError(t, b.SetTemperature(3700, colorramp.UniformGamma(1)))
	assert.NoError(t, b.Restore())
	assert.NoError(t, b.Free())
}

//go:build !windows

package gamma

func openWinGDI(_ OpenOptions) (Backend, error) {
	return nil, ErrUnavailable
}

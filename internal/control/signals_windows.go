//go:build windows

package control

import (
	"os"
	"syscall"
)

func stopSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

// No user signals on Windows
func toggleSignals() []os.Signal {
	return nil
}

//go:build !windows

package control

import (
	"os"
	"syscall"
)

func stopSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}

func toggleSignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1}
}

//go:build unix

package trigger

import (
	"os"
	"syscall"
)

var saveSignals = []os.Signal{syscall.SIGUSR1}

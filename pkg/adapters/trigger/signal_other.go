//go:build !unix

package trigger

import "os"

var saveSignals []os.Signal

//go:build unix

package trigger

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/user/replayclip/pkg/ports"
)

func TestSignal_SIGUSR1(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := NewSignal().Events(ctx)

	// Give the goroutine a moment to register before signalling.
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Kind != ports.TriggerSave {
			t.Errorf("kind = %v, want save", ev.Kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event for SIGUSR1")
	}
}

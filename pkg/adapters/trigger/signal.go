package trigger

import (
	"context"
	"os"
	"os/signal"

	"github.com/user/replayclip/pkg/ports"
)

// Signal turns an OS signal into save events.
type Signal struct {
	sigs []os.Signal
}

// NewSignal creates a trigger emitting a save event for each platform save
// signal (SIGUSR1 on unix). On platforms without one the channel only closes
// with ctx.
func NewSignal() *Signal {
	return &Signal{sigs: saveSignals}
}

func (s *Signal) Events(ctx context.Context) <-chan ports.TriggerEvent {
	out := make(chan ports.TriggerEvent)
	if len(s.sigs) == 0 {
		go func() {
			<-ctx.Done()
			close(out)
		}()
		return out
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, s.sigs...)
	go func() {
		defer close(out)
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				select {
				case out <- ports.TriggerEvent{Kind: ports.TriggerSave}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

var _ ports.Trigger = (*Signal)(nil)

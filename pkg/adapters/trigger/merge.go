package trigger

import (
	"context"
	"sync"

	"github.com/user/replayclip/pkg/ports"
)

// Merged fans in several triggers.
type Merged struct {
	triggers []ports.Trigger
}

// Merge combines triggers into one. Its channel closes once every input has
// closed or ctx ends.
func Merge(triggers ...ports.Trigger) *Merged {
	return &Merged{triggers: triggers}
}

func (m *Merged) Events(ctx context.Context) <-chan ports.TriggerEvent {
	out := make(chan ports.TriggerEvent)
	var wg sync.WaitGroup
	for _, t := range m.triggers {
		wg.Add(1)
		go func(in <-chan ports.TriggerEvent) {
			defer wg.Done()
			for ev := range in {
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}(t.Events(ctx))
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

var _ ports.Trigger = (*Merged)(nil)

package replay

import (
	"context"

	"github.com/user/replayclip/pkg/frame"
)

// Ingest pushes every handle received on frames until the channel closes or
// ctx is done. It returns the number of frames pushed. Handles still queued
// when ctx ends are released.
func (b *Buffer) Ingest(ctx context.Context, frames <-chan frame.Handle) int {
	n := 0
	for {
		select {
		case <-ctx.Done():
			drain(frames)
			return n
		case h, ok := <-frames:
			if !ok {
				return n
			}
			b.Push(h)
			n++
		}
	}
}

func drain(frames <-chan frame.Handle) {
	for {
		select {
		case h, ok := <-frames:
			if !ok {
				return
			}
			if h != nil {
				h.Release()
			}
		default:
			return
		}
	}
}

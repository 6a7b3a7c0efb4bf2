// Package ports defines interfaces for external collaborators: capture
// sessions, the clip encoder, the filesystem and logging.
package ports

import (
	"context"

	"github.com/user/replayclip/pkg/frame"
)

// FrameSource abstracts a platform capture session.
type FrameSource interface {
	// Name identifies the source in logs and reports.
	Name() string

	// Start begins capturing. Frames are delivered on the returned channel,
	// which is closed when capture ends. Ownership of every delivered handle
	// passes to the receiver.
	Start(ctx context.Context) (<-chan frame.Handle, error)

	// Stop ends the capture session. It is safe to call when not started.
	Stop() error

	// Size returns the current output dimensions.
	Size() (width, height int)
}

// CaptureStats reports delivery counters of a FrameSource.
type CaptureStats struct {
	Delivered uint64
	Dropped   uint64
	Failed    uint64
}

// StatsProvider is implemented by sources that count their deliveries.
type StatsProvider interface {
	Stats() CaptureStats
}

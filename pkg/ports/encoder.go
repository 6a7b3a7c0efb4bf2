package ports

import (
	"context"
	"errors"
	"fmt"
)

// ClipEncoder turns a numbered still-image sequence into a video file.
// Implementations typically drive an external process.
type ClipEncoder interface {
	// Encode blocks until the output file is written or encoding fails.
	Encode(ctx context.Context, req ClipRequest) error
}

// ClipRequest describes one encoder invocation.
type ClipRequest struct {
	InputPattern string  // printf-style path, e.g. /tmp/ReplayFrames-x/frame_%04d.png
	StartNumber  int     // number of the first image in the sequence
	FrameCount   int     // number of images in the sequence
	FPS          float64 // input frame rate
	Output       string  // destination container path
}

// ErrEncoderTimeout is returned when the encoder exceeded its time budget
// and was terminated.
var ErrEncoderTimeout = errors.New("encoder timed out")

// EncoderExitError reports an encoder process that exited with a non-zero status.
// Stderr holds the diagnostic text the process wrote.
type EncoderExitError struct {
	ExitCode int
	Stderr   string
}

func (e *EncoderExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("encoder exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("encoder exited with status %d: %s", e.ExitCode, e.Stderr)
}

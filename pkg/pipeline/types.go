package pipeline

import (
	"time"

	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/ports"
)

// =============================================================================
// Materialize Stage Types
// =============================================================================

// MaterializeInput lists the frames to write as numbered stills.
type MaterializeInput struct {
	Records []*frame.Record // Oldest first; the caller holds a reference to each
	Dir     string          // Existing, empty scratch directory
}

// MaterializeResult describes the written image sequence.
type MaterializeResult struct {
	Pattern     string // printf-style path, e.g. <dir>/frame_%04d.png
	StartNumber int
	Count       int
	Width       int // Even dimensions shared by every still
	Height      int
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput describes an image sequence to turn into a clip.
type EncodeInput struct {
	Pattern     string
	StartNumber int
	Count       int
	FPS         float64
	Output      string
}

// EncodeResult describes the produced clip.
type EncodeResult struct {
	Output   string
	FileSize int64
	Info     *ports.VideoInfo // nil when the container was not probed
	Elapsed  time.Duration
}

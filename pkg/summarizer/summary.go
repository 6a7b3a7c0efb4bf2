package summarizer

import "time"

// Summary contains everything known about one exported clip.
type Summary struct {
	GeneratedAt time.Time

	Capture CaptureInfo
	Clip    ClipInfo
	Encoder EncoderInfo

	// Container reports what the written file contains. Nil when the file
	// could not be probed.
	Container *ContainerInfo
}

// CaptureInfo describes where the frames came from.
type CaptureInfo struct {
	Source  string
	Process string // empty when capture is not gated on a process
	Window  time.Duration
}

// ClipInfo describes the exported frames.
type ClipInfo struct {
	Path     string
	Frames   int
	Span     time.Duration
	FPS      float64
	Width    int
	Height   int
	FileSize int64
	Elapsed  time.Duration
}

// EncoderInfo contains the encoder settings.
type EncoderInfo struct {
	Codec       string
	PixelFormat string
	Preset      string
	CRF         int
}

// ContainerInfo is the probed video track.
type ContainerInfo struct {
	Codec    string
	Frames   int
	Duration time.Duration
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithCapture sets capture information.
func (b *Builder) WithCapture(source, process string, window time.Duration) *Builder {
	b.summary.Capture = CaptureInfo{
		Source:  source,
		Process: process,
		Window:  window,
	}
	return b
}

// WithClip sets clip information.
func (b *Builder) WithClip(clip ClipInfo) *Builder {
	b.summary.Clip = clip
	return b
}

// WithEncoder sets encoder settings.
func (b *Builder) WithEncoder(enc EncoderInfo) *Builder {
	b.summary.Encoder = enc
	return b
}

// WithContainer sets probed container details.
func (b *Builder) WithContainer(codec string, frames int, duration time.Duration) *Builder {
	b.summary.Container = &ContainerInfo{
		Codec:    codec,
		Frames:   frames,
		Duration: duration,
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

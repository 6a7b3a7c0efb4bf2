package ports

import "time"

// VideoProber inspects an encoded video file.
type VideoProber interface {
	// Probe reads container metadata of the file at path.
	Probe(path string) (VideoInfo, error)
}

// VideoInfo describes the first video track of a container.
type VideoInfo struct {
	Codec    string
	Width    int
	Height   int
	Frames   int
	Duration time.Duration
}

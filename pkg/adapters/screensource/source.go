// Package screensource captures the desktop with vova616/screenshot.
package screensource

import (
	"context"
	"fmt"
	"image"

	"github.com/vova616/screenshot"

	"github.com/user/replayclip/pkg/adapters/pollsource"
	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/ports"
)

// Name identifies the screen source in logs and reports.
const Name = "screen"

// Options configures desktop capture.
type Options struct {
	Region image.Rectangle // empty captures the whole screen
	FPS    float64
	Queue  int
	Logger ports.Logger
}

// Grab captures region, or the whole screen when region is empty.
func Grab(region image.Rectangle) (*image.RGBA, error) {
	if region.Empty() {
		return screenshot.CaptureScreen()
	}
	return screenshot.CaptureRect(region)
}

// ParseRegion parses "x,y,w,h". An empty string yields the empty rectangle.
func ParseRegion(s string) (image.Rectangle, error) {
	if s == "" {
		return image.Rectangle{}, nil
	}
	var x, y, w, h int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return image.Rectangle{}, fmt.Errorf("parse region %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("parse region %q: width and height must be positive", s)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// New creates a polling desktop source.
func New(opts Options) *pollsource.Source {
	region := opts.Region
	grab := func(ctx context.Context) (frame.Handle, error) {
		img, err := Grab(region)
		if err != nil {
			return nil, fmt.Errorf("capture screen: %w", err)
		}
		// Each capture allocates a fresh image, so it can be handed over as is.
		return frame.FromImage(img, nil), nil
	}
	size := func() (int, int) {
		if !region.Empty() {
			return region.Dx(), region.Dy()
		}
		r, err := screenshot.ScreenRect()
		if err != nil {
			return 0, 0
		}
		return r.Dx(), r.Dy()
	}
	return pollsource.New(Name, grab, size, pollsource.Options{
		FPS:    opts.FPS,
		Queue:  opts.Queue,
		Logger: opts.Logger,
	})
}

// Package materialize implements the stage that writes buffered frames to a
// scratch directory as a numbered PNG sequence.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/user/replayclip/pkg/pipeline"
	"github.com/user/replayclip/pkg/ports"
)

// FrameError reports the frame that could not be written.
type FrameError struct {
	Index int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// Stage writes frames as frame_%0Nd.png numbered from zero.
type Stage struct {
	stills     ports.StillEncoder
	fs         ports.FileSystem
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a materialize stage. numWorkers <= 0 uses one worker per CPU.
func NewStage(stills ports.StillEncoder, fs ports.FileSystem, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		stills:     stills,
		fs:         fs,
		logger:     logger.WithComponent("materialize"),
		numWorkers: numWorkers,
	}
}

var _ pipeline.MaterializeStage = (*Stage)(nil)

// Execute writes every record. On failure it returns a *FrameError for the
// lowest failing index; stills already written are left for the caller to
// remove with the scratch directory.
func (s *Stage) Execute(ctx context.Context, input pipeline.MaterializeInput) (pipeline.MaterializeResult, error) {
	count := len(input.Records)
	if count == 0 {
		return pipeline.MaterializeResult{}, fmt.Errorf("no frames to materialize")
	}

	first, err := input.Records[0].Image()
	if err != nil {
		return pipeline.MaterializeResult{}, &FrameError{Index: 0, Err: err}
	}
	width, height := evenSize(first.Bounds())
	if width < 2 || height < 2 {
		return pipeline.MaterializeResult{}, &FrameError{
			Index: 0,
			Err:   fmt.Errorf("frame too small: %dx%d", first.Bounds().Dx(), first.Bounds().Dy()),
		}
	}

	digits := pipeline.SequenceWidth(count)
	s.logger.Debug("Writing %d frames at %dx%d with %d workers", count, width, height, s.numWorkers)

	var (
		mu       sync.Mutex
		failed   *FrameError
		canceled bool
	)
	// skip reports whether index i can no longer change the outcome.
	skip := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return canceled || (failed != nil && i > failed.Index)
	}
	fail := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if failed == nil || i < failed.Index {
			failed = &FrameError{Index: i, Err: err}
		}
	}

	p := pool.New().WithMaxGoroutines(s.numWorkers).WithContext(ctx)
	for i, rec := range input.Records {
		i, rec := i, rec
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				mu.Lock()
				canceled = true
				mu.Unlock()
				return ctx.Err()
			}
			if skip(i) {
				return nil
			}
			img := first
			if i > 0 {
				var err error
				if img, err = rec.Image(); err != nil {
					fail(i, err)
					return nil
				}
			}
			if err := s.writeFrame(input.Dir, i, digits, img, width, height); err != nil {
				fail(i, err)
			}
			return nil
		})
	}
	werr := p.Wait()

	if failed != nil {
		s.logger.Debug("Frame %d failed: %v", failed.Index, failed.Err)
		return pipeline.MaterializeResult{}, failed
	}
	if werr != nil {
		if err := ctx.Err(); err != nil {
			return pipeline.MaterializeResult{}, err
		}
		return pipeline.MaterializeResult{}, werr
	}

	return pipeline.MaterializeResult{
		Pattern:     pipeline.FramePattern(input.Dir, digits),
		StartNumber: 0,
		Count:       count,
		Width:       width,
		Height:      height,
	}, nil
}

func (s *Stage) writeFrame(dir string, index, digits int, img image.Image, width, height int) error {
	img = s.normalize(img, width, height)
	data, err := s.stills.EncodeStill(img)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, pipeline.FrameName(index, digits))
	if err := s.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// normalize fits img to width x height. An odd trailing row or column is
// cropped; any other size difference is rescaled.
func (s *Stage) normalize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	dx, dy := b.Dx(), b.Dy()
	if dx == width && dy == height {
		return img
	}
	if dx-width <= 1 && dy-height <= 1 && dx >= width && dy >= height {
		if sub, ok := img.(interface {
			SubImage(r image.Rectangle) image.Image
		}); ok {
			return sub.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Min.Y+height))
		}
	}
	return s.stills.Fit(img, width, height)
}

// evenSize rounds the rectangle's dimensions down to even numbers.
func evenSize(r image.Rectangle) (int, int) {
	return r.Dx() &^ 1, r.Dy() &^ 1
}

// IsFrameError reports whether err carries a *FrameError and returns it.
func IsFrameError(err error) (*FrameError, bool) {
	var fe *FrameError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

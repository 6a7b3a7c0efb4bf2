// Package export drains a replay buffer snapshot into a video file: stills
// are written to a scratch directory, an external encoder turns them into a
// clip, and the scratch directory is removed.
package export

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/replayclip/pkg/pipeline"
	"github.com/user/replayclip/pkg/ports"
	"github.com/user/replayclip/pkg/replay"
	"github.com/user/replayclip/pkg/stages/encode"
	"github.com/user/replayclip/pkg/stages/materialize"
)

// ScratchPrefix names per-export scratch directories.
const ScratchPrefix = "ReplayFrames-"

// Frame rate bounds.
const (
	DefaultFPS = 60.0
	MinFPS     = 1.0
	MaxFPS     = 120.0
)

// Source provides snapshots to export.
type Source interface {
	Snapshot() *replay.Snapshot
}

// Options configures an Exporter.
type Options struct {
	ScratchRoot    string  // default os.TempDir()
	FPS            float64 // fixed input rate; default DefaultFPS
	AutoFPS        bool    // derive the rate from each snapshot instead
	EncodeAttempts int     // tries per export when the encoder times out; default 1
}

// Result describes a finished export.
type Result struct {
	Path       string
	Frames     int
	Span       time.Duration
	FPS        float64
	Width      int
	Height     int
	Size       int64
	Info       *ports.VideoInfo // set when the container was probed
	Elapsed    time.Duration
	CleanupErr error // non-nil *Error of kind ScratchCleanupFailed
}

// Exporter runs the export pipeline. It keeps no state across calls, so
// concurrent exports to different destinations are independent.
type Exporter struct {
	materialize pipeline.MaterializeStage
	encode      pipeline.EncodeStage
	fs          ports.FileSystem
	logger      ports.Logger
	opts        Options
	newID       func() string
	now         func() time.Time
}

// New creates an Exporter from its two stages.
func New(
	materialize pipeline.MaterializeStage,
	encode pipeline.EncodeStage,
	fs ports.FileSystem,
	logger ports.Logger,
	opts Options,
) *Exporter {
	if opts.ScratchRoot == "" {
		opts.ScratchRoot = os.TempDir()
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.EncodeAttempts <= 0 {
		opts.EncodeAttempts = 1
	}
	return &Exporter{
		materialize: materialize,
		encode:      encode,
		fs:          fs,
		logger:      logger.WithComponent("export"),
		opts:        opts,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Export writes the current contents of src to destination.
//
// The buffer behind src is never modified. On any failure after the scratch
// directory was created, the directory is removed before returning.
func (e *Exporter) Export(ctx context.Context, src Source, destination string) (Result, error) {
	started := e.now()

	snap := src.Snapshot()
	defer snap.Release()

	if snap.Len() == 0 {
		return Result{}, &Error{Kind: NothingToExport}
	}

	result := Result{
		Path:   destination,
		Frames: snap.Len(),
		Span:   snap.Span(),
		FPS:    e.frameRate(snap.Len(), snap.Span()),
	}
	e.logger.Info("Exporting %d frames (%s) to %s", result.Frames, result.Span.Round(time.Millisecond), destination)

	dir, err := e.createScratch()
	if err != nil {
		return Result{}, err
	}

	mres, err := e.materialize.Execute(ctx, pipeline.MaterializeInput{
		Records: snap.Records(),
		Dir:     dir,
	})
	// Stills hold everything the encoder needs; let eviction reclaim frames.
	snap.Release()
	if err != nil {
		e.discardScratch(dir)
		return Result{}, e.materializeError(ctx, err)
	}
	result.Width, result.Height = mres.Width, mres.Height

	eres, err := e.runEncoder(ctx, pipeline.EncodeInput{
		Pattern:     mres.Pattern,
		StartNumber: mres.StartNumber,
		Count:       mres.Count,
		FPS:         result.FPS,
		Output:      destination,
	})
	if err != nil {
		e.discardScratch(dir)
		return Result{}, e.encodeError(ctx, err)
	}

	if cerr := e.fs.RemoveAll(dir); cerr != nil {
		result.CleanupErr = &Error{Kind: ScratchCleanupFailed, Err: cerr}
		e.logger.Warn("Could not remove scratch directory %s: %v", dir, cerr)
	}

	result.Size = eres.FileSize
	result.Info = eres.Info
	result.Elapsed = e.now().Sub(started)
	e.logger.Info("Saved %s (%d frames, %s)", destination, result.Frames, humanBytes(result.Size))
	return result, nil
}

// EncodeSequence encodes stills already present in dir, such as a scratch
// directory left behind by an interrupted run. The directory is kept.
func (e *Exporter) EncodeSequence(ctx context.Context, dir, destination string) (Result, error) {
	started := e.now()

	names, err := e.fs.ReadDir(dir)
	if err != nil {
		return Result{}, &Error{Kind: NothingToExport, Err: err}
	}
	seq, err := pipeline.DetectSequence(names)
	if err != nil {
		return Result{}, &Error{Kind: NothingToExport, Err: fmt.Errorf("%s: %w", dir, err)}
	}

	fps := e.opts.FPS
	e.logger.Info("Encoding %d stills from %s to %s", seq.Count, dir, destination)
	eres, err := e.runEncoder(ctx, pipeline.EncodeInput{
		Pattern:     pipeline.FramePattern(dir, seq.Width),
		StartNumber: seq.StartNumber,
		Count:       seq.Count,
		FPS:         fps,
		Output:      destination,
	})
	if err != nil {
		return Result{}, e.encodeError(ctx, err)
	}

	return Result{
		Path:    destination,
		Frames:  seq.Count,
		Span:    time.Duration(float64(seq.Count) / fps * float64(time.Second)),
		FPS:     fps,
		Size:    eres.FileSize,
		Info:    eres.Info,
		Elapsed: e.now().Sub(started),
	}, nil
}

// runEncoder encodes into a hidden sibling of input.Output and renames it
// into place once the encoder succeeds. A failed encode therefore leaves an
// existing clip at the destination untouched.
func (e *Exporter) runEncoder(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	dest := input.Output
	if dir := filepath.Dir(dest); dir != "." {
		if err := e.fs.MkdirAll(dir); err != nil {
			return pipeline.EncodeResult{}, fmt.Errorf("create output directory: %w", err)
		}
	}
	input.Output = PartialPath(dest)

	res, err := e.encodeWithRetry(ctx, input)
	if err == nil {
		err = e.fs.Rename(input.Output, dest)
	}
	if err != nil {
		e.removePartial(input.Output)
		return res, err
	}
	res.Output = dest
	return res, nil
}

// PartialPath is where a clip bound for dest is encoded. The extension is
// kept since ffmpeg picks the container from it.
func PartialPath(dest string) string {
	dir, name := filepath.Split(dest)
	ext := filepath.Ext(name)
	return filepath.Join(dir, "."+strings.TrimSuffix(name, ext)+".partial"+ext)
}

func (e *Exporter) encodeWithRetry(ctx context.Context, input pipeline.EncodeInput) (res pipeline.EncodeResult, err error) {
	for attempt := 1; attempt <= e.opts.EncodeAttempts; attempt++ {
		res, err = e.encode.Execute(ctx, input)
		if err == nil || !errors.Is(err, ports.ErrEncoderTimeout) || ctx.Err() != nil {
			return res, err
		}
		if attempt < e.opts.EncodeAttempts {
			e.logger.Warn("Encoder timed out, retrying (%d/%d)", attempt+1, e.opts.EncodeAttempts)
		}
	}
	return res, err
}

func (e *Exporter) removePartial(path string) {
	if ok, _ := e.fs.Exists(path); !ok {
		return
	}
	if err := e.fs.Remove(path); err != nil {
		e.logger.Warn("Could not remove partial clip %s: %v", path, err)
		return
	}
	e.logger.Debug("Removed partial clip %s", path)
}

// frameRate returns the input rate for a snapshot of n frames spanning span.
func (e *Exporter) frameRate(n int, span time.Duration) float64 {
	if !e.opts.AutoFPS || n < 2 || span <= 0 {
		return e.opts.FPS
	}
	fps := float64(n-1) / span.Seconds()
	fps = math.Round(fps*100) / 100
	return math.Min(math.Max(fps, MinFPS), MaxFPS)
}

func (e *Exporter) materializeError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &Error{Kind: Canceled, Err: ctx.Err()}
	}
	if fe, ok := materialize.IsFrameError(err); ok {
		return &Error{Kind: FrameEncodeFailed, Index: fe.Index, Err: fe.Err}
	}
	return &Error{Kind: FrameEncodeFailed, Err: err}
}

func (e *Exporter) encodeError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &Error{Kind: Canceled, Err: ctx.Err()}
	}
	if errors.Is(err, ports.ErrEncoderTimeout) {
		return &Error{Kind: EncoderTimedOut, ExitCode: -1, Err: err}
	}
	var exitErr *ports.EncoderExitError
	if errors.As(err, &exitErr) {
		return &Error{
			Kind:        EncoderFailed,
			ExitCode:    exitErr.ExitCode,
			Diagnostics: exitErr.Stderr,
			Err:         err,
		}
	}
	if errors.Is(err, encode.ErrNoOutput) {
		return &Error{Kind: EncoderFailed, ExitCode: 0, Diagnostics: err.Error(), Err: err}
	}
	return &Error{Kind: EncoderFailed, ExitCode: -1, Diagnostics: err.Error(), Err: err}
}

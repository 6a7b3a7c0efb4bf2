// Package orchestrator runs capture sessions, feeds the replay buffer and
// turns user triggers into exports.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/user/replayclip/pkg/export"
	"github.com/user/replayclip/pkg/ports"
	"github.com/user/replayclip/pkg/replay"
	"github.com/user/replayclip/pkg/summarizer"
)

// DefaultFilename names clips. The part before the extension is a time
// layout; the extension is kept as written.
const DefaultFilename = "replay_20060102_150405.mp4"

// maxNameSuffix bounds the -N suffixes tried for a clip name already taken.
const maxNameSuffix = 99

var (
	// ErrExportInProgress is returned when an export to the same destination
	// is still running.
	ErrExportInProgress = errors.New("export already in progress")
	// ErrCooldown is returned when a trigger arrives too soon after the previous one.
	ErrCooldown = errors.New("export requested during cooldown")
	// ErrNoFreeName is returned when every suffixed clip name for the
	// current second is taken.
	ErrNoFreeName = errors.New("no free clip name")
)

// Config contains all configuration for the orchestrator.
type Config struct {
	Window          time.Duration
	Process         string        // capture only while this process runs; empty: always
	MonitorInterval time.Duration // default 1s
	OutputDir       string
	Filename        string // time layout plus extension, default DefaultFilename
	Cooldown        time.Duration
	Report          bool // write a markdown report next to each clip
	Encoder         summarizer.EncoderInfo
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Window:          30 * time.Second,
		MonitorInterval: time.Second,
		OutputDir:       ".",
		Filename:        DefaultFilename,
		Cooldown:        2 * time.Second,
	}
}

// Exporter writes the contents of a snapshot source to a file.
type Exporter interface {
	Export(ctx context.Context, src export.Source, destination string) (export.Result, error)
}

// ReportWriter writes the report for a clip and returns its path.
type ReportWriter interface {
	WriteFor(clipPath string, summary *summarizer.Summary) (string, error)
}

// Outcome is the result of a triggered export.
type Outcome struct {
	Destination string
	Result      export.Result
	Err         error
}

// Orchestrator coordinates the capture source, the buffer and exports.
type Orchestrator struct {
	cfg      Config
	buffer   *replay.Buffer
	source   ports.FrameSource
	finder   ports.ProcessFinder
	exporter Exporter
	reports  ReportWriter
	logger   ports.Logger
	now      func() time.Time
	exists   func(path string) bool

	mu          sync.Mutex
	session     *session
	starting    bool
	stopGen     int // bumped by stopCapture; a start that straddles it is undone
	lastTrigger time.Time
	inflight    map[string]struct{}

	exports sync.WaitGroup
	results chan Outcome
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
	frames int
}

// New creates a new Orchestrator. finder may be nil when cfg.Process is
// empty; reports may be nil to disable clip reports.
func New(
	cfg Config,
	buffer *replay.Buffer,
	source ports.FrameSource,
	finder ports.ProcessFinder,
	exporter Exporter,
	reports ReportWriter,
	logger ports.Logger,
) *Orchestrator {
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = time.Second
	}
	if cfg.Filename == "" {
		cfg.Filename = DefaultFilename
	}
	return &Orchestrator{
		cfg:      cfg,
		buffer:   buffer,
		source:   source,
		finder:   finder,
		exporter: exporter,
		reports:  reports,
		logger:   logger.WithComponent("orchestrator"),
		now:      time.Now,
		exists:   fileExists,
		inflight: make(map[string]struct{}),
		results:  make(chan Outcome, 16),
	}
}

// Results delivers the outcome of every export started by TriggerExport.
// Outcomes are dropped, with a warning, when nobody reads them.
func (o *Orchestrator) Results() <-chan Outcome {
	return o.results
}

// Run monitors the target process, keeps a capture session alive while it
// runs, and handles events until ctx ends or a quit event arrives. events may
// be nil. Call Shutdown afterwards.
func (o *Orchestrator) Run(ctx context.Context, events <-chan ports.TriggerEvent) error {
	if o.cfg.Process != "" && o.finder == nil {
		return fmt.Errorf("monitor %s: no process finder", o.cfg.Process)
	}
	if o.cfg.Process == "" {
		o.logger.Info("Capturing from %s", o.source.Name())
	} else {
		o.logger.Info("Waiting for %s", o.cfg.Process)
	}

	o.tick(ctx)
	ticker := time.NewTicker(o.cfg.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			o.tick(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if o.HandleEvent(ctx, ev) {
				return nil
			}
		}
	}
}

// tick runs one monitor step.
func (o *Orchestrator) tick(ctx context.Context) {
	o.reapSession()

	want := true
	if o.cfg.Process != "" {
		running, err := o.finder.Running(o.cfg.Process)
		if err != nil {
			o.logger.Warn("Process check failed: %v", err)
			return
		}
		want = running
	}

	capturing := o.Capturing()
	switch {
	case want && !capturing:
		if o.cfg.Process != "" {
			o.logger.Info("%s detected, starting capture", o.cfg.Process)
		}
		o.startCapture(ctx)
	case !want && capturing:
		o.logger.Info("%s exited, stopping capture", o.cfg.Process)
		o.stopCapture()
		o.buffer.Clear()
	}

	st := o.Status()
	o.logger.Debug("%s", st.String())
}

// Capturing reports whether a capture session is active.
func (o *Orchestrator) Capturing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session != nil
}

// startCapture starts the source without holding o.mu, since a browser
// source may take seconds to launch.
func (o *Orchestrator) startCapture(ctx context.Context) {
	o.mu.Lock()
	if o.session != nil || o.starting {
		o.mu.Unlock()
		return
	}
	o.starting = true
	gen := o.stopGen
	o.mu.Unlock()

	sctx, cancel := context.WithCancel(ctx)
	frames, err := o.source.Start(sctx)

	o.mu.Lock()
	o.starting = false
	if err != nil {
		o.mu.Unlock()
		cancel()
		o.logger.Error("Capture failed to start: %v", err)
		return
	}
	if gen != o.stopGen {
		o.mu.Unlock()
		cancel()
		_ = o.source.Stop()
		o.logger.Debug("Capture stopped while starting")
		return
	}
	s := &session{cancel: cancel, done: make(chan struct{})}
	o.session = s
	o.mu.Unlock()

	go func() {
		defer close(s.done)
		s.frames = o.buffer.Ingest(sctx, frames)
	}()
	o.logger.Info("Capture started: %s", o.source.Name())
}

// stopCapture ends the session and waits for ingestion to finish.
func (o *Orchestrator) stopCapture() {
	o.mu.Lock()
	s := o.session
	o.session = nil
	o.stopGen++
	o.mu.Unlock()
	if s == nil {
		return
	}

	if err := o.source.Stop(); err != nil {
		o.logger.Warn("Capture stop failed: %v", err)
	}
	s.cancel()
	<-s.done
	o.logger.Info("Capture stopped after %d frames", s.frames)
}

// reapSession forgets a session whose source ended on its own, so the next
// tick starts a new one.
func (o *Orchestrator) reapSession() {
	o.mu.Lock()
	s := o.session
	if s == nil {
		o.mu.Unlock()
		return
	}
	select {
	case <-s.done:
		o.session = nil
	default:
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	s.cancel()
	_ = o.source.Stop()
	o.logger.Warn("Capture ended unexpectedly after %d frames", s.frames)
}

// HandleEvent applies one trigger event and reports whether it asks to quit.
func (o *Orchestrator) HandleEvent(ctx context.Context, ev ports.TriggerEvent) bool {
	switch ev.Kind {
	case ports.TriggerSave:
		dest, err := o.TriggerExport(ctx)
		if err != nil {
			o.logger.Warn("Export not started: %v", err)
		} else {
			o.logger.Info("Export started: %s", dest)
		}
	case ports.TriggerStatus:
		o.logger.Info("%s", o.Status().String())
	case ports.TriggerWindow:
		applied := o.SetWindow(ev.Window)
		o.logger.Info("Replay window set to %s", applied)
	case ports.TriggerQuit:
		return true
	}
	return false
}

// SetWindow changes the retention window and returns the value applied.
func (o *Orchestrator) SetWindow(d time.Duration) time.Duration {
	applied := o.buffer.SetWindow(d)
	o.mu.Lock()
	o.cfg.Window = applied
	o.mu.Unlock()
	return applied
}

// Destination returns the clip path for an export started at t. Only the
// name before the extension is formatted, so the 4 of ".mp4" stays literal.
func (o *Orchestrator) Destination(t time.Time) string {
	ext := filepath.Ext(o.cfg.Filename)
	layout := strings.TrimSuffix(o.cfg.Filename, ext)
	return filepath.Join(o.cfg.OutputDir, t.Format(layout)+ext)
}

// freeDestination returns Destination(t), or the first "-N" variant of it,
// that is neither being exported nor already on disk. Callers hold o.mu.
func (o *Orchestrator) freeDestination(t time.Time) (string, error) {
	base := o.Destination(t)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 0; n <= maxNameSuffix; n++ {
		dest := base
		if n > 0 {
			dest = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		if _, busy := o.inflight[dest]; busy || o.exists(dest) {
			continue
		}
		return dest, nil
	}
	return "", fmt.Errorf("%s up to -%d: %w", base, maxNameSuffix, ErrNoFreeName)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// TriggerExport starts an export of the current window in the background and
// returns its destination. A saved clip is never overwritten: a name already
// in use gets a "-N" suffix. The export outlives ctx cancellation; its outcome
// is delivered on Results.
func (o *Orchestrator) TriggerExport(ctx context.Context) (string, error) {
	now := o.now()

	o.mu.Lock()
	if !o.lastTrigger.IsZero() && now.Sub(o.lastTrigger) < o.cfg.Cooldown {
		o.mu.Unlock()
		return "", ErrCooldown
	}
	dest, err := o.freeDestination(now)
	if err != nil {
		o.mu.Unlock()
		return "", err
	}
	o.lastTrigger = now
	o.inflight[dest] = struct{}{}
	o.exports.Add(1)
	o.mu.Unlock()

	ectx := context.WithoutCancel(ctx)
	go func() {
		res, err := o.runExport(ectx, dest)
		o.deliver(Outcome{Destination: dest, Result: res, Err: err})
	}()
	return dest, nil
}

// ExportNow exports the current window to destination and waits for it.
func (o *Orchestrator) ExportNow(ctx context.Context, destination string) (export.Result, error) {
	o.mu.Lock()
	if _, busy := o.inflight[destination]; busy {
		o.mu.Unlock()
		return export.Result{}, fmt.Errorf("%s: %w", destination, ErrExportInProgress)
	}
	o.inflight[destination] = struct{}{}
	o.exports.Add(1)
	o.mu.Unlock()

	return o.runExport(ctx, destination)
}

// runExport performs one export. The caller has registered destination.
func (o *Orchestrator) runExport(ctx context.Context, destination string) (export.Result, error) {
	defer func() {
		o.mu.Lock()
		delete(o.inflight, destination)
		o.mu.Unlock()
		o.exports.Done()
	}()

	res, err := o.exporter.Export(ctx, o.buffer, destination)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			o.logger.Warn("Nothing to export yet")
		} else {
			o.logger.Error("Export failed: %v", err)
		}
		return res, err
	}

	if o.cfg.Report && o.reports != nil {
		o.writeReport(res)
	}
	return res, nil
}

func (o *Orchestrator) deliver(out Outcome) {
	select {
	case o.results <- out:
	default:
		o.logger.Warn("Export result for %s dropped", out.Destination)
	}
}

func (o *Orchestrator) writeReport(res export.Result) {
	o.mu.Lock()
	window := o.cfg.Window
	o.mu.Unlock()

	b := summarizer.NewBuilder().
		WithCapture(o.source.Name(), o.cfg.Process, window).
		WithClip(summarizer.ClipInfo{
			Path:     res.Path,
			Frames:   res.Frames,
			Span:     res.Span,
			FPS:      res.FPS,
			Width:    res.Width,
			Height:   res.Height,
			FileSize: res.Size,
			Elapsed:  res.Elapsed,
		}).
		WithEncoder(o.cfg.Encoder)
	if res.Info != nil {
		b.WithContainer(res.Info.Codec, res.Info.Frames, res.Info.Duration)
	}

	path, err := o.reports.WriteFor(res.Path, b.Build())
	if err != nil {
		o.logger.Warn("Could not write clip report %s: %v", path, err)
		return
	}
	o.logger.Debug("Clip report written to %s", path)
}

// Shutdown stops capture, waits for running exports until ctx ends, and
// empties the buffer.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.stopCapture()

	done := make(chan struct{})
	go func() {
		o.exports.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("wait for exports: %w", ctx.Err())
		o.logger.Warn("Shutdown before exports finished: %v", ctx.Err())
	}

	o.buffer.Clear()
	return err
}

// Package pollsource turns a single-frame grab function into a
// ports.FrameSource that polls at a fixed rate.
package pollsource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/ports"
)

// ErrRunning is returned by Start on a source that is already capturing.
var ErrRunning = errors.New("capture already running")

const statsLogInterval = 5 * time.Second

// GrabFunc produces one frame. The returned handle is owned by the caller.
type GrabFunc func(ctx context.Context) (frame.Handle, error)

// Options configures a Source.
type Options struct {
	FPS    float64 // polling rate, default 30
	Queue  int     // channel capacity, default 8
	Logger ports.Logger
}

// Source polls a GrabFunc on a ticker and delivers frames without blocking.
type Source struct {
	name     string
	grab     GrabFunc
	size     func() (int, int)
	interval time.Duration
	queue    int
	logger   ports.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	delivered atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// New creates a Source. size reports the current output dimensions.
func New(name string, grab GrabFunc, size func() (int, int), opts Options) *Source {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Queue <= 0 {
		opts.Queue = 8
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}
	return &Source{
		name:     name,
		grab:     grab,
		size:     size,
		interval: time.Duration(float64(time.Second) / opts.FPS),
		queue:    opts.Queue,
		logger:   opts.Logger.WithComponent(name),
	}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Size() (int, int) { return s.size() }

// Start begins polling. The returned channel is closed after Stop or when
// ctx ends.
func (s *Source) Start(ctx context.Context) (<-chan frame.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan frame.Handle, s.queue)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.loop(ctx, ch, done)
	return ch, nil
}

// Stop ends polling and waits for the loop to exit.
func (s *Source) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// Stats returns delivery counters since the source was created.
func (s *Source) Stats() ports.CaptureStats {
	return ports.CaptureStats{
		Delivered: s.delivered.Load(),
		Dropped:   s.dropped.Load(),
		Failed:    s.failed.Load(),
	}
}

func (s *Source) loop(ctx context.Context, ch chan frame.Handle, done chan struct{}) {
	defer close(done)
	defer close(ch)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	statsTicker := time.NewTicker(statsLogInterval)
	defer statsTicker.Stop()

	s.logger.Debug("Capturing at %s intervals", s.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-statsTicker.C:
			st := s.Stats()
			s.logger.Debug("Capture stats: %d delivered, %d dropped, %d failed", st.Delivered, st.Dropped, st.Failed)
		case <-ticker.C:
			s.poll(ctx, ch)
		}
	}
}

func (s *Source) poll(ctx context.Context, ch chan frame.Handle) {
	h, err := s.grab(ctx)
	if err != nil {
		if s.failed.Add(1) == 1 {
			s.logger.Warn("Capture failed: %v", err)
		}
		return
	}
	if h == nil {
		return
	}
	if frame.Offer(ch, h) {
		s.delivered.Add(1)
	} else {
		s.dropped.Add(1)
	}
}

var (
	_ ports.FrameSource   = (*Source)(nil)
	_ ports.StatsProvider = (*Source)(nil)
)

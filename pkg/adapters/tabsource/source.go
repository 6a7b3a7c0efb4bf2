// Package tabsource captures a Chrome tab through the DevTools screencast.
package tabsource

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/ports"
)

// Name identifies the browser source in logs and reports.
const Name = "browser"

var (
	// ErrChromeNotFound is returned by Start when no browser executable is found.
	ErrChromeNotFound = errors.New("chrome not found: install Chrome/Chromium, set CHROME_PATH, or set capture.chrome_path")
	// ErrRunning is returned by Start on a source that is already capturing.
	ErrRunning = errors.New("screencast already active")
)

// Options configures the browser tab.
type Options struct {
	URL        string
	ChromePath string
	Width      int
	Height     int
	Quality    int // JPEG quality, default 80
	Headless   bool
	Queue      int
	Logger     ports.Logger
}

type session struct {
	allocCancel context.CancelFunc
	cancel      context.CancelFunc
	ctx         context.Context

	mu     sync.Mutex
	ch     chan frame.Handle
	closed bool
}

// deliver hands h to the session channel unless the session has ended.
func (s *session) deliver(h frame.Handle) (sent, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		h.Release()
		return false, false
	}
	return frame.Offer(s.ch, h), true
}

func (s *session) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	close(s.ch)
	return true
}

// Source implements ports.FrameSource for a single Chrome tab.
type Source struct {
	opts   Options
	logger ports.Logger

	mu  sync.Mutex
	cur *session

	delivered atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// New creates a browser tab source.
func New(opts Options) *Source {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 80
	}
	if opts.Queue <= 0 {
		opts.Queue = 8
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}
	return &Source{opts: opts, logger: opts.Logger.WithComponent(Name)}
}

func (s *Source) Name() string { return Name }

func (s *Source) Size() (int, int) { return s.opts.Width, s.opts.Height }

// Stats returns delivery counters since the source was created.
func (s *Source) Stats() ports.CaptureStats {
	return ports.CaptureStats{
		Delivered: s.delivered.Load(),
		Dropped:   s.dropped.Load(),
		Failed:    s.failed.Load(),
	}
}

// allocatorOptions returns the Chrome flags for a capture session.
func (s *Source) allocatorOptions(chromePath string) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(chromePath),
		chromedp.WindowSize(s.opts.Width, s.opts.Height),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
	}
	if s.opts.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	return opts
}

// Start launches Chrome, loads the URL and begins the screencast.
func (s *Source) Start(ctx context.Context) (<-chan frame.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil {
		return nil, ErrRunning
	}

	chromePath := ResolveChromePath(s.opts.ChromePath)
	if chromePath == "" {
		return nil, ErrChromeNotFound
	}

	sess := &session{ch: make(chan frame.Handle, s.opts.Queue)}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, s.allocatorOptions(chromePath)...)
	sess.ctx, sess.cancel = chromedp.NewContext(allocCtx)
	sess.allocCancel = allocCancel

	chromedp.ListenTarget(sess.ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventScreencastFrame)
		if !ok {
			return
		}
		// Acknowledge every frame or Chrome stops sending.
		go chromedp.Run(sess.ctx, page.ScreencastFrameAck(e.SessionID))

		data, err := base64.StdEncoding.DecodeString(e.Data)
		if err != nil {
			s.failed.Add(1)
			return
		}
		sent, open := sess.deliver(frame.NewEncoded(data, frame.FormatJPEG))
		switch {
		case sent:
			s.delivered.Add(1)
		case open:
			s.dropped.Add(1)
		}
	})

	url := s.opts.URL
	if url == "" {
		url = "about:blank"
	}
	err := chromedp.Run(sess.ctx,
		chromedp.Navigate(url),
		page.StartScreencast().
			WithFormat(page.ScreencastFormatJpeg).
			WithQuality(int64(s.opts.Quality)).
			WithMaxWidth(int64(s.opts.Width)).
			WithMaxHeight(int64(s.opts.Height)).
			WithEveryNthFrame(1),
	)
	if err != nil {
		sess.close()
		sess.cancel()
		allocCancel()
		return nil, fmt.Errorf("start screencast: %w", err)
	}

	s.cur = sess
	s.logger.Info("Screencast started: %s", url)

	go func() {
		<-sess.ctx.Done()
		sess.close()
	}()
	return sess.ch, nil
}

// Stop ends the screencast and shuts the browser down.
func (s *Source) Stop() error {
	s.mu.Lock()
	sess := s.cur
	s.cur = nil
	s.mu.Unlock()

	if sess == nil {
		return nil
	}

	stopCtx, cancel := context.WithTimeout(sess.ctx, 5*time.Second)
	_ = chromedp.Run(stopCtx, page.StopScreencast())
	cancel()

	sess.close()
	sess.cancel()
	sess.allocCancel()
	s.logger.Info("Screencast stopped")
	return nil
}

var (
	_ ports.FrameSource   = (*Source)(nil)
	_ ports.StatsProvider = (*Source)(nil)
)

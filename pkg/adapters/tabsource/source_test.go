package tabsource

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	s := New(Options{})
	if s.Name() != Name {
		t.Errorf("Name() = %q", s.Name())
	}
	if w, h := s.Size(); w != 1280 || h != 720 {
		t.Errorf("Size() = %dx%d", w, h)
	}
	if s.opts.Quality != 80 {
		t.Errorf("Quality = %d", s.opts.Quality)
	}
}

func TestStart_ChromeNotFound(t *testing.T) {
	t.Setenv("CHROME_PATH", "")
	if ResolveChromePath("") != "" {
		t.Skip("a system browser is installed")
	}
	s := New(Options{})
	if _, err := s.Start(context.Background()); !errors.Is(err, ErrChromeNotFound) {
		t.Errorf("expected ErrChromeNotFound, got %v", err)
	}
}

func TestStop_WithoutStart(t *testing.T) {
	if err := New(Options{}).Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestSource_Screencast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if ResolveChromePath("") == "" {
		t.Skip("Chrome not available")
	}

	s := New(Options{
		URL:      "data:text/html,<body style='background:#c33'><h1>replay</h1></body>",
		Width:    320,
		Height:   240,
		Headless: true,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ch, err := s.Start(ctx)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	select {
	case h, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before first frame")
		}
		defer h.Release()
		img, err := h.Image()
		if err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if img.Bounds().Empty() {
			t.Error("empty frame")
		}
	case <-ctx.Done():
		t.Fatal("no screencast frame received")
	}

	if _, err := s.Start(ctx); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start: expected ErrRunning, got %v", err)
	}
}

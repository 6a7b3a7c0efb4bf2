package mocks

import (
	"context"
	"sync"

	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
// Tests feed frames through Frames after Start.
type FrameSource struct {
	mu        sync.Mutex
	StartFunc func(ctx context.Context) (<-chan frame.Handle, error)
	StopFunc  func() error

	Frames  chan frame.Handle
	Starts  int
	Stops   int
	running bool
}

func (m *FrameSource) Name() string { return "mock" }

func (m *FrameSource) Start(ctx context.Context) (<-chan frame.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Starts++
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	m.Frames = make(chan frame.Handle, 16)
	m.running = true
	return m.Frames, nil
}

func (m *FrameSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stops++
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	if m.running {
		close(m.Frames)
		m.running = false
	}
	return nil
}

func (m *FrameSource) Size() (int, int) { return 64, 48 }

// Running reports whether the source is between Start and Stop.
func (m *FrameSource) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Counts returns the number of Start and Stop calls.
func (m *FrameSource) Counts() (starts, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Starts, m.Stops
}

// Send delivers h if the source is running and reports whether it did.
func (m *FrameSource) Send(h frame.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		h.Release()
		return false
	}
	m.Frames <- h
	return true
}

var _ ports.FrameSource = (*FrameSource)(nil)

// ProcessFinder is a mock implementation of ports.ProcessFinder.
type ProcessFinder struct {
	mu          sync.Mutex
	RunningFunc func(name string) (bool, error)
	Present     bool
}

func (m *ProcessFinder) Running(name string) (bool, error) {
	if m.RunningFunc != nil {
		return m.RunningFunc(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Present, nil
}

// SetPresent changes the reported process presence.
func (m *ProcessFinder) SetPresent(v bool) {
	m.mu.Lock()
	m.Present = v
	m.mu.Unlock()
}

var _ ports.ProcessFinder = (*ProcessFinder)(nil)

// Package replay implements the rolling frame buffer: a time-bounded,
// ordered window of the most recent captured frames.
package replay

import (
	"sync"
	"time"

	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/ports"
)

// MinWindow is the smallest retention window the buffer accepts.
const MinWindow = time.Second

// Option configures a Buffer.
type Option func(*Buffer)

// WithClock replaces the wall clock used to stamp frames.
func WithClock(now func() time.Time) Option {
	return func(b *Buffer) { b.now = now }
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(b *Buffer) { b.logger = l.WithComponent("buffer") }
}

// Buffer retains frames captured within the last window.
//
// Records are stored oldest-first in records[head:]. Eviction advances head
// and the backing array is compacted once the dead prefix grows past half its
// capacity. A single mutex guards records, window and the counters; handles
// are released after the mutex is dropped.
type Buffer struct {
	mu      sync.Mutex
	records []*frame.Record
	head    int
	window  time.Duration
	bytes   int64
	pushed  uint64
	evicted uint64

	now    func() time.Time
	logger ports.Logger
}

// New creates an empty buffer retaining the given window.
func New(window time.Duration, opts ...Option) *Buffer {
	b := &Buffer{
		window: clampWindow(window),
		now:    time.Now,
		logger: logger.NewNoop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func clampWindow(d time.Duration) time.Duration {
	if d < MinWindow {
		return MinWindow
	}
	return d
}

// Push appends h stamped with the current time and evicts every frame that
// fell out of the window. The buffer takes ownership of h.
func (b *Buffer) Push(h frame.Handle) {
	if h == nil {
		b.logger.Debug("Ignoring nil frame")
		return
	}

	b.mu.Lock()
	now := b.now()
	if n := len(b.records); n > b.head {
		// Keep capture times monotonic if the clock steps backwards.
		if last := b.records[n-1].CapturedAt(); now.Before(last) {
			now = last
		}
	}
	rec := frame.NewRecord(h, now)
	b.records = append(b.records, rec)
	b.bytes += rec.Bytes()
	b.pushed++
	evicted := b.evictLocked(now)
	b.mu.Unlock()

	release(evicted)
}

// SetWindow replaces the retention window and evicts immediately. Windows
// shorter than MinWindow are clamped. It returns the effective window.
func (b *Buffer) SetWindow(d time.Duration) time.Duration {
	d = clampWindow(d)

	b.mu.Lock()
	b.window = d
	evicted := b.evictLocked(b.now())
	b.mu.Unlock()

	release(evicted)
	if len(evicted) > 0 {
		b.logger.Debug("Window changed to %s, evicted %d frames", d, len(evicted))
	}
	return d
}

// Window returns the current retention window.
func (b *Buffer) Window() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.window
}

// Snapshot returns an ordered, oldest-first copy of the buffered records.
// Each record is retained for the life of the snapshot; the buffer itself is
// unchanged. Callers must Release the snapshot.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.Lock()
	live := b.records[b.head:]
	recs := make([]*frame.Record, 0, len(live))
	for _, r := range live {
		// Records in the buffer always hold the buffer's reference.
		if r.Retain() {
			recs = append(recs, r)
		}
	}
	b.mu.Unlock()
	return &Snapshot{records: recs}
}

// IsEmpty reports whether the buffer holds no frames.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// Len returns the number of buffered frames.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records) - b.head
}

// Clear drops every buffered frame. Frames still referenced by a snapshot
// are released when that snapshot is.
func (b *Buffer) Clear() {
	b.mu.Lock()
	dropped := make([]*frame.Record, len(b.records)-b.head)
	copy(dropped, b.records[b.head:])
	b.records = nil
	b.head = 0
	b.bytes = 0
	b.evicted += uint64(len(dropped))
	b.mu.Unlock()

	release(dropped)
	if len(dropped) > 0 {
		b.logger.Debug("Cleared %d frames", len(dropped))
	}
}

// evictLocked trims the prefix of records older than the window and returns
// them for release. b.mu must be held.
func (b *Buffer) evictLocked(now time.Time) []*frame.Record {
	cutoff := now.Add(-b.window)
	start := b.head
	for b.head < len(b.records) && b.records[b.head].CapturedAt().Before(cutoff) {
		b.bytes -= b.records[b.head].Bytes()
		b.head++
	}
	if b.head == start {
		return nil
	}

	evicted := make([]*frame.Record, b.head-start)
	copy(evicted, b.records[start:b.head])
	for i := start; i < b.head; i++ {
		b.records[i] = nil
	}
	b.evicted += uint64(len(evicted))

	if b.head == len(b.records) {
		b.records = b.records[:0]
		b.head = 0
	} else if b.head > cap(b.records)/2 {
		n := copy(b.records, b.records[b.head:])
		for i := n; i < len(b.records); i++ {
			b.records[i] = nil
		}
		b.records = b.records[:n]
		b.head = 0
	}
	return evicted
}

func release(recs []*frame.Record) {
	for _, r := range recs {
		r.Release()
	}
}

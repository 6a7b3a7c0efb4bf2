package frame

import (
	"image"
	"sync/atomic"
	"time"
)

// Record pairs a Handle with the time it was captured.
//
// Records are reference counted. NewRecord starts with one reference, held by
// the replay buffer. Snapshots take additional references with Retain. The
// handle is released when the last reference is dropped, exactly once;
// Retain fails after that point, so a released handle is never shared again.
type Record struct {
	handle     Handle
	capturedAt time.Time
	bytes      int64
	refs       atomic.Int32
}

// NewRecord takes ownership of h.
func NewRecord(h Handle, capturedAt time.Time) *Record {
	r := &Record{
		handle:     h,
		capturedAt: capturedAt,
		bytes:      h.Bytes(),
	}
	r.refs.Store(1)
	return r
}

// CapturedAt returns the capture timestamp.
func (r *Record) CapturedAt() time.Time { return r.capturedAt }

// Bytes returns the memory estimate taken when the record was created.
func (r *Record) Bytes() int64 { return r.bytes }

// Image materializes the frame. Callers must hold a reference.
func (r *Record) Image() (image.Image, error) {
	if r.refs.Load() <= 0 {
		return nil, ErrReleased
	}
	return r.handle.Image()
}

// Retain adds a reference. It reports false if the record is already released.
func (r *Record) Retain() bool {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return false
		}
		if r.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops a reference and releases the handle when it was the last one.
// It reports whether this call released the handle. Releasing an already
// released record is a no-op.
func (r *Record) Release() bool {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return false
		}
		if r.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				r.handle.Release()
				return true
			}
			return false
		}
	}
}

// Released reports whether the handle has been released.
func (r *Record) Released() bool {
	return r.refs.Load() <= 0
}

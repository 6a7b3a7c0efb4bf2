package replay

import "time"

// Status describes the buffer at one instant.
type Status struct {
	Frames  int
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
	Window  time.Duration
	Pushed  uint64
	Evicted uint64
}

// Span returns the time covered by the buffered frames.
func (s Status) Span() time.Duration {
	if s.Frames < 2 {
		return 0
	}
	return s.Newest.Sub(s.Oldest)
}

// Status returns counters and the time range of the buffered frames.
func (b *Buffer) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := Status{
		Frames:  len(b.records) - b.head,
		Bytes:   b.bytes,
		Window:  b.window,
		Pushed:  b.pushed,
		Evicted: b.evicted,
	}
	if st.Frames > 0 {
		st.Oldest = b.records[b.head].CapturedAt()
		st.Newest = b.records[len(b.records)-1].CapturedAt()
	}
	return st
}

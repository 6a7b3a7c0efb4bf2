package replay

import (
	"sync"
	"time"

	"github.com/user/replayclip/pkg/frame"
)

// Snapshot is an ordered, retained copy of the buffer at one instant.
type Snapshot struct {
	records []*frame.Record
	once    sync.Once
}

// Records returns the records oldest-first. The slice must not be modified
// and is invalid after Release.
func (s *Snapshot) Records() []*frame.Record {
	return s.records
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Span returns the time between the oldest and newest record.
func (s *Snapshot) Span() time.Duration {
	if len(s.records) < 2 {
		return 0
	}
	return s.records[len(s.records)-1].CapturedAt().Sub(s.records[0].CapturedAt())
}

// Release drops the snapshot's references. It is safe to call more than once.
func (s *Snapshot) Release() {
	s.once.Do(func() {
		release(s.records)
	})
}

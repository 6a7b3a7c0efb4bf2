package orchestrator

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/user/replayclip/pkg/ports"
	"github.com/user/replayclip/pkg/replay"
)

// Status is a point-in-time view of the orchestrator.
type Status struct {
	Capturing bool
	Source    string
	Exporting int
	Buffer    replay.Status
	Capture   *ports.CaptureStats // nil when the source keeps no counters
}

// Status returns the current state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	st := Status{
		Capturing: o.session != nil,
		Source:    o.source.Name(),
		Exporting: len(o.inflight),
	}
	o.mu.Unlock()

	st.Buffer = o.buffer.Status()
	if sp, ok := o.source.(ports.StatsProvider); ok {
		cs := sp.Stats()
		st.Capture = &cs
	}
	return st
}

// String renders the status as one log line.
func (s Status) String() string {
	state := "Idle"
	if s.Capturing {
		state = "Capturing"
	}
	line := fmt.Sprintf("%s (%s): %d frames, %.1fs of %s, %s",
		state, s.Source, s.Buffer.Frames, s.Buffer.Span().Seconds(), s.Buffer.Window,
		humanize.Bytes(uint64(max(s.Buffer.Bytes, 0))))
	if !s.Buffer.Oldest.IsZero() {
		line += ", oldest " + humanize.Time(s.Buffer.Oldest)
	}
	if s.Capture != nil && s.Capture.Dropped > 0 {
		line += fmt.Sprintf(", %d dropped", s.Capture.Dropped)
	}
	if s.Exporting > 0 {
		line += fmt.Sprintf(", %d exporting", s.Exporting)
	}
	return line
}

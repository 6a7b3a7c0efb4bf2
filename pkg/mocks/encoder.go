package mocks

import (
	"context"
	"sync"

	"github.com/user/replayclip/pkg/ports"
)

// ClipEncoder is a mock implementation of ports.ClipEncoder.
// Without EncodeFunc it writes a placeholder file through FS when FS is set.
type ClipEncoder struct {
	mu         sync.Mutex
	EncodeFunc func(ctx context.Context, req ports.ClipRequest) error
	FS         ports.FileSystem

	Requests []ports.ClipRequest
}

func (m *ClipEncoder) Encode(ctx context.Context, req ports.ClipRequest) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.EncodeFunc != nil {
		return m.EncodeFunc(ctx, req)
	}
	if m.FS != nil {
		return m.FS.WriteFile(req.Output, []byte("mock video"))
	}
	return nil
}

// Calls returns the number of Encode invocations.
func (m *ClipEncoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

var _ ports.ClipEncoder = (*ClipEncoder)(nil)

// VideoProber is a mock implementation of ports.VideoProber.
type VideoProber struct {
	ProbeFunc func(path string) (ports.VideoInfo, error)
}

func (m *VideoProber) Probe(path string) (ports.VideoInfo, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return ports.VideoInfo{Codec: "avc1"}, nil
}

var _ ports.VideoProber = (*VideoProber)(nil)

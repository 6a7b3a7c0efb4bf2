// Package encode implements the stage that turns a still sequence into a
// clip with an external encoder and validates the result.
package encode

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/replayclip/pkg/pipeline"
	"github.com/user/replayclip/pkg/ports"
)

// ErrNoOutput is returned when the encoder reported success but the
// destination is missing or empty.
var ErrNoOutput = errors.New("encoder produced no output")

// Stage runs the clip encoder over a materialized sequence.
type Stage struct {
	encoder ports.ClipEncoder
	fs      ports.FileSystem
	prober  ports.VideoProber
	logger  ports.Logger
	now     func() time.Time
}

// NewStage creates an encode stage. prober may be nil to skip container probing.
func NewStage(encoder ports.ClipEncoder, fs ports.FileSystem, prober ports.VideoProber, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		fs:      fs,
		prober:  prober,
		logger:  logger.WithComponent("encode"),
		now:     time.Now,
	}
}

var _ pipeline.EncodeStage = (*Stage)(nil)

// Execute encodes the sequence into input.Output. Encoder errors are
// returned unwrapped so callers can inspect exit status and diagnostics.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{Output: input.Output}

	if input.Count == 0 {
		return result, fmt.Errorf("no frames to encode")
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Debug("Encoding %d frames at %.1f fps", input.Count, input.FPS)
	started := s.now()

	err := s.encoder.Encode(ctx, ports.ClipRequest{
		InputPattern: input.Pattern,
		StartNumber:  input.StartNumber,
		FrameCount:   input.Count,
		FPS:          input.FPS,
		Output:       input.Output,
	})
	result.Elapsed = s.now().Sub(started)
	if err != nil {
		return result, err
	}

	size, err := s.fs.Size(input.Output)
	if err != nil || size == 0 {
		return result, ErrNoOutput
	}
	result.FileSize = size

	if s.prober != nil && strings.EqualFold(filepath.Ext(input.Output), ".mp4") {
		info, err := s.prober.Probe(input.Output)
		if err != nil {
			s.logger.Warn("Could not probe %s: %v", input.Output, err)
		} else {
			result.Info = &info
		}
	}

	s.logger.Debug("Video encoded: %d bytes in %s", result.FileSize, result.Elapsed.Round(time.Millisecond))
	return result, nil
}

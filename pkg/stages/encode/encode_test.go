package encode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/mocks"
	"github.com/user/replayclip/pkg/pipeline"
	"github.com/user/replayclip/pkg/ports"
)

func input() pipeline.EncodeInput {
	return pipeline.EncodeInput{
		Pattern:     "/scratch/frame_%04d.png",
		StartNumber: 0,
		Count:       3,
		FPS:         60,
		Output:      "/out/clip.mp4",
	}
}

func TestStage_Execute(t *testing.T) {
	fs := mocks.NewFileSystem()
	enc := &mocks.ClipEncoder{FS: fs}
	prober := &mocks.VideoProber{
		ProbeFunc: func(path string) (ports.VideoInfo, error) {
			return ports.VideoInfo{Codec: "avc1", Width: 64, Height: 48, Frames: 3, Duration: 50 * time.Millisecond}, nil
		},
	}
	stage := NewStage(enc, fs, prober, logger.NewNoop())

	result, err := stage.Execute(context.Background(), input())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if enc.Calls() != 1 {
		t.Fatalf("expected 1 Encode call, got %d", enc.Calls())
	}
	req := enc.Requests[0]
	if req.InputPattern != "/scratch/frame_%04d.png" || req.FPS != 60 || req.FrameCount != 3 || req.Output != "/out/clip.mp4" {
		t.Errorf("unexpected request %+v", req)
	}

	if result.FileSize != int64(len("mock video")) {
		t.Errorf("FileSize = %d", result.FileSize)
	}
	if result.Info == nil || result.Info.Codec != "avc1" || result.Info.Frames != 3 {
		t.Errorf("Info = %+v", result.Info)
	}
}

func TestStage_Execute_EncoderErrorPassesThrough(t *testing.T) {
	fs := mocks.NewFileSystem()
	exitErr := &ports.EncoderExitError{ExitCode: 1, Stderr: "Unknown encoder 'libx264'"}
	enc := &mocks.ClipEncoder{
		EncodeFunc: func(ctx context.Context, req ports.ClipRequest) error { return exitErr },
	}
	stage := NewStage(enc, fs, nil, logger.NewNoop())

	_, err := stage.Execute(context.Background(), input())
	var got *ports.EncoderExitError
	if !errors.As(err, &got) {
		t.Fatalf("expected EncoderExitError, got %v", err)
	}
	if got.Stderr != "Unknown encoder 'libx264'" {
		t.Errorf("Stderr = %q", got.Stderr)
	}
}

func TestStage_Execute_NoOutput(t *testing.T) {
	tests := []struct {
		name  string
		write []byte
	}{
		{"missing", nil},
		{"empty", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFileSystem()
			enc := &mocks.ClipEncoder{
				EncodeFunc: func(ctx context.Context, req ports.ClipRequest) error {
					if tt.write != nil {
						return fs.WriteFile(req.Output, tt.write)
					}
					return nil
				},
			}
			stage := NewStage(enc, fs, nil, logger.NewNoop())

			_, err := stage.Execute(context.Background(), input())
			if !errors.Is(err, ErrNoOutput) {
				t.Errorf("expected ErrNoOutput, got %v", err)
			}
		})
	}
}

func TestStage_Execute_ProbeFailureIsNotFatal(t *testing.T) {
	fs := mocks.NewFileSystem()
	prober := &mocks.VideoProber{
		ProbeFunc: func(path string) (ports.VideoInfo, error) {
			return ports.VideoInfo{}, errors.New("no moov box")
		},
	}
	stage := NewStage(&mocks.ClipEncoder{FS: fs}, fs, prober, logger.NewNoop())

	result, err := stage.Execute(context.Background(), input())
	if err != nil {
		t.Fatalf("probe failure should not fail the stage: %v", err)
	}
	if result.Info != nil {
		t.Errorf("Info should be nil after a failed probe")
	}
}

func TestStage_Execute_SkipsProbeForOtherContainers(t *testing.T) {
	fs := mocks.NewFileSystem()
	probed := false
	prober := &mocks.VideoProber{
		ProbeFunc: func(path string) (ports.VideoInfo, error) {
			probed = true
			return ports.VideoInfo{}, nil
		},
	}
	stage := NewStage(&mocks.ClipEncoder{FS: fs}, fs, prober, logger.NewNoop())

	in := input()
	in.Output = "/out/clip.mkv"
	if _, err := stage.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probed {
		t.Error("non-mp4 output should not be probed")
	}
}

func TestStage_Execute_EmptyFrames(t *testing.T) {
	stage := NewStage(&mocks.ClipEncoder{}, mocks.NewFileSystem(), nil, logger.NewNoop())

	in := input()
	in.Count = 0
	if _, err := stage.Execute(context.Background(), in); err == nil {
		t.Error("expected error for empty frames")
	}
}

func TestStage_Execute_ContextCancelled(t *testing.T) {
	enc := &mocks.ClipEncoder{}
	stage := NewStage(enc, mocks.NewFileSystem(), nil, logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := stage.Execute(ctx, input()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if enc.Calls() != 0 {
		t.Error("encoder should not run after cancellation")
	}
}

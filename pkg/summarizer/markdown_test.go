package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/replayclip/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Capture: CaptureInfo{
			Source:  "screen",
			Process: "game.exe",
			Window:  30 * time.Second,
		},
		Clip: ClipInfo{
			Path:     "/clips/replay_20260115_103000.mp4",
			Frames:   1800,
			Span:     29980 * time.Millisecond,
			FPS:      60,
			Width:    1920,
			Height:   1080,
			FileSize: 12_000_000,
		},
		Encoder: EncoderInfo{
			Codec:       "libx264",
			PixelFormat: "yuv420p",
			Preset:      "veryfast",
			CRF:         23,
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Replay Clip",
		"2026-01-15T10:30:00Z",
		"replay_20260115_103000.mp4",
		"| Frames | 1800 |",
		"29.98 s",
		"60.00 fps",
		"1920x1080",
		"12 MB",
		"game.exe",
		"30s",
		"veryfast",
		"| CRF | 23 |",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
	if strings.Contains(result, "## Container") {
		t.Error("container section should be omitted without a probe")
	}
}

func TestMarkdownFormatter_Format_Container(t *testing.T) {
	s := sampleSummary()
	s.Container = &ContainerInfo{Codec: "avc1", Frames: 1800, Duration: 30 * time.Second}

	result := NewMarkdownFormatter().Format(s)
	for _, check := range []string{"## Container", "avc1", "| Samples | 1800 |", "30.00 s"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Format_Empty(t *testing.T) {
	result := NewMarkdownFormatter().Format(&Summary{})
	if !strings.Contains(result, "| Process | - |") {
		t.Error("empty process should render as a dash")
	}
	if !strings.Contains(result, "| CRF | - |") {
		t.Error("zero CRF should render as a dash")
	}
}

type plainFormatter struct{}

func (plainFormatter) Format(s *Summary) string { return s.Capture.Source }
func (plainFormatter) Extension() string        { return ".txt" }

func TestWriter_WriteFor(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(NewMarkdownFormatter(), fs)

	path, err := w.WriteFor("/clips/out/replay.mp4", sampleSummary())
	if err != nil {
		t.Fatalf("WriteFor failed: %v", err)
	}
	if path != "/clips/out/replay.md" {
		t.Errorf("path = %q", path)
	}
	if !fs.HasDir("/clips/out") {
		t.Error("parent directory not created")
	}
	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatalf("report not written to %s", path)
	}
	if !strings.HasPrefix(string(data), "# Replay Clip") {
		t.Errorf("unexpected content: %q", string(data)[:20])
	}
}

func TestWriter_WriteForUsesFormatterExtension(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(plainFormatter{}, fs)

	path, err := w.WriteFor("clip.mov", &Summary{Capture: CaptureInfo{Source: "screen"}})
	if err != nil {
		t.Fatal(err)
	}
	if path != "clip.txt" {
		t.Errorf("path = %q, want clip.txt", path)
	}
	if data, _ := fs.GetFile(path); string(data) != "screen" {
		t.Errorf("content = %q", data)
	}
	if fs.HasDir(".") {
		t.Error("current directory should not be created")
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	boom := errors.New("disk full")
	fs.WriteFileFunc = func(path string, data []byte) error { return boom }

	w := NewWriter(plainFormatter{}, fs)
	path, err := w.WriteFor("/r/report.mp4", &Summary{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
	if path != "/r/report.txt" {
		t.Errorf("path = %q", path)
	}
}

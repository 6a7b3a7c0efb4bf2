package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/replayclip/pkg/adapters/ffmpeg"
	"github.com/user/replayclip/pkg/adapters/ggrenderer"
	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/adapters/mp4probe"
	"github.com/user/replayclip/pkg/adapters/osfilesystem"
	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/mocks"
	"github.com/user/replayclip/pkg/pipeline"
	"github.com/user/replayclip/pkg/ports"
	"github.com/user/replayclip/pkg/replay"
	"github.com/user/replayclip/pkg/stages/encode"
	"github.com/user/replayclip/pkg/stages/materialize"
)

type failingHandle struct{}

func (failingHandle) Image() (image.Image, error) { return nil, errors.New("corrupt frame") }
func (failingHandle) Bytes() int64                { return 0 }
func (failingHandle) Release()                    {}

func solidFrame(w, h int, c color.Color, onRelease func()) frame.Handle {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return frame.FromImage(img, onRelease)
}

// filledBuffer returns a buffer holding n frames captured 1/60s apart.
func filledBuffer(n int) *replay.Buffer {
	now := time.Unix(1_700_000_000, 0)
	b := replay.New(time.Minute, replay.WithClock(func() time.Time { return now }))
	for i := 0; i < n; i++ {
		b.Push(solidFrame(32, 24, color.Gray{Y: uint8(i * 10)}, nil))
		now = now.Add(time.Second / 60)
	}
	return b
}

func newExporter(t *testing.T, enc ports.ClipEncoder, opts Options) (*Exporter, string) {
	t.Helper()
	fs := osfilesystem.New()
	log := logger.NewNoop()
	if opts.ScratchRoot == "" {
		opts.ScratchRoot = t.TempDir()
	}
	e := New(
		materialize.NewStage(ggrenderer.New(), fs, log, 2),
		encode.NewStage(enc, fs, mp4probe.New(), log),
		fs, log, opts,
	)
	return e, opts.ScratchRoot
}

// stubFFmpeg writes a shell script standing in for ffmpeg.
func stubFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected %s to be empty, found %v", dir, names)
	}
}

func TestExport_EmptyBuffer(t *testing.T) {
	enc := &mocks.ClipEncoder{}
	e, root := newExporter(t, enc, Options{})
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	_, err := e.Export(context.Background(), replay.New(time.Minute), dest)
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	assertEmptyDir(t, root)
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination should not exist: %v", err)
	}
	if enc.Calls() != 0 {
		t.Error("encoder ran for an empty buffer")
	}
}

func TestExport_Success(t *testing.T) {
	fs := osfilesystem.New()
	var seen []string
	enc := &mocks.ClipEncoder{
		EncodeFunc: func(ctx context.Context, req ports.ClipRequest) error {
			names, err := fs.ReadDir(filepath.Dir(req.InputPattern))
			if err != nil {
				return err
			}
			seen = names
			return fs.WriteFile(req.Output, []byte("encoded video"))
		},
	}
	e, root := newExporter(t, enc, Options{})
	buf := filledBuffer(5)
	dest := filepath.Join(t.TempDir(), "out", "clip.mp4")

	result, err := e.Export(context.Background(), buf, dest)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if result.Path != dest || result.Frames != 5 || result.FPS != DefaultFPS {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Width != 32 || result.Height != 24 {
		t.Errorf("size = %dx%d", result.Width, result.Height)
	}
	if result.Size != int64(len("encoded video")) {
		t.Errorf("Size = %d", result.Size)
	}
	if result.CleanupErr != nil {
		t.Errorf("CleanupErr = %v", result.CleanupErr)
	}

	want := []string{"frame_0000.png", "frame_0001.png", "frame_0002.png", "frame_0003.png", "frame_0004.png"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("encoder saw %v, want %v", seen, want)
	}

	req := enc.Requests[0]
	if !strings.HasPrefix(filepath.Base(filepath.Dir(req.InputPattern)), ScratchPrefix) {
		t.Errorf("scratch directory not named %s*: %s", ScratchPrefix, req.InputPattern)
	}
	if filepath.Base(req.InputPattern) != "frame_%04d.png" || req.StartNumber != 0 {
		t.Errorf("unexpected request %+v", req)
	}

	assertEmptyDir(t, root)
	if buf.Len() != 5 {
		t.Errorf("export changed the buffer to %d frames", buf.Len())
	}
}

func TestExport_IsNonDestructive(t *testing.T) {
	fs := osfilesystem.New()
	e, _ := newExporter(t, &mocks.ClipEncoder{FS: fs}, Options{})
	buf := filledBuffer(3)
	dir := t.TempDir()

	for i, name := range []string{"a.mp4", "b.mp4"} {
		if _, err := e.Export(context.Background(), buf, filepath.Join(dir, name)); err != nil {
			t.Fatalf("export %d failed: %v", i, err)
		}
	}
	if buf.IsEmpty() || buf.Len() != 3 {
		t.Errorf("buffer holds %d frames after two exports, want 3", buf.Len())
	}
}

func TestExport_EncoderFailurePropagatesText(t *testing.T) {
	const diag = "Unknown encoder 'libx264'"
	path := stubFFmpeg(t, `echo "`+diag+`" >&2
exit 1`)
	enc := ffmpeg.New(ffmpeg.Options{Path: path, Timeout: 10 * time.Second}, logger.NewNoop())
	e, root := newExporter(t, enc, Options{})
	buf := filledBuffer(4)

	_, err := e.Export(context.Background(), buf, filepath.Join(t.TempDir(), "clip.mp4"))
	if !errors.Is(err, ErrEncoderFailed) {
		t.Fatalf("expected ErrEncoderFailed, got %v", err)
	}
	var xe *Error
	if !errors.As(err, &xe) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if xe.Diagnostics != diag {
		t.Errorf("Diagnostics = %q, want %q", xe.Diagnostics, diag)
	}
	if xe.ExitCode != 1 {
		t.Errorf("ExitCode = %d", xe.ExitCode)
	}
	assertEmptyDir(t, root)
	if buf.Len() != 4 {
		t.Errorf("failed export changed the buffer to %d frames", buf.Len())
	}
}

func TestExport_StubSeesStills(t *testing.T) {
	listing := filepath.Join(t.TempDir(), "listing.txt")
	// Find the -i argument, list its directory, then write the output.
	path := stubFFmpeg(t, `while [ $# -gt 1 ]; do
  if [ "$1" = "-i" ]; then ls "$(dirname "$2")" > "`+listing+`"; fi
  shift
done
printf 'mp4' > "$1"`)
	enc := ffmpeg.New(ffmpeg.Options{Path: path}, logger.NewNoop())
	e, root := newExporter(t, enc, Options{})

	dest := filepath.Join(t.TempDir(), "clip.mkv")
	if _, err := e.Export(context.Background(), filledBuffer(3), dest); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := os.ReadFile(listing)
	if err != nil {
		t.Fatalf("stub did not list the scratch directory: %v", err)
	}
	if got := strings.Fields(string(data)); strings.Join(got, " ") != "frame_0000.png frame_0001.png frame_0002.png" {
		t.Errorf("scratch listing = %v", got)
	}
	assertEmptyDir(t, root)
}

func TestExport_EncoderTimeout(t *testing.T) {
	path := stubFFmpeg(t, `exec sleep 30`)
	enc := ffmpeg.New(ffmpeg.Options{Path: path, Timeout: 200 * time.Millisecond}, logger.NewNoop())
	e, root := newExporter(t, enc, Options{EncodeAttempts: 2})

	start := time.Now()
	_, err := e.Export(context.Background(), filledBuffer(2), filepath.Join(t.TempDir(), "clip.mp4"))
	if !errors.Is(err, ErrEncoderTimedOut) {
		t.Fatalf("expected ErrEncoderTimedOut, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
	assertEmptyDir(t, root)
}

func TestExport_RetriesTimeoutOnly(t *testing.T) {
	calls := 0
	enc := &mocks.ClipEncoder{
		EncodeFunc: func(ctx context.Context, req ports.ClipRequest) error {
			calls++
			if calls == 1 {
				return ffmpeg.ErrTimedOut
			}
			return os.WriteFile(req.Output, []byte("v"), 0o644)
		},
	}
	e, _ := newExporter(t, enc, Options{EncodeAttempts: 3})
	if _, err := e.Export(context.Background(), filledBuffer(2), filepath.Join(t.TempDir(), "c.mp4")); err != nil {
		t.Fatalf("Export failed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("encoder called %d times, want 2", calls)
	}

	calls = 0
	enc.EncodeFunc = func(ctx context.Context, req ports.ClipRequest) error {
		calls++
		return &ports.EncoderExitError{ExitCode: 1, Stderr: "bad"}
	}
	if _, err := e.Export(context.Background(), filledBuffer(2), filepath.Join(t.TempDir(), "c.mp4")); !errors.Is(err, ErrEncoderFailed) {
		t.Fatalf("expected ErrEncoderFailed, got %v", err)
	}
	if calls != 1 {
		t.Errorf("exit failures must not be retried, got %d calls", calls)
	}
}

func TestExport_FrameFailureReportsIndex(t *testing.T) {
	enc := &mocks.ClipEncoder{}
	e, root := newExporter(t, enc, Options{})

	b := replay.New(time.Minute)
	for i := 0; i < 6; i++ {
		if i == 3 {
			b.Push(failingHandle{})
			continue
		}
		b.Push(solidFrame(8, 8, color.White, nil))
	}

	_, err := e.Export(context.Background(), b, filepath.Join(t.TempDir(), "clip.mp4"))
	var xe *Error
	if !errors.As(err, &xe) || xe.Kind != FrameEncodeFailed {
		t.Fatalf("expected FrameEncodeFailed, got %v", err)
	}
	if xe.Index != 3 {
		t.Errorf("Index = %d, want 3", xe.Index)
	}
	if enc.Calls() != 0 {
		t.Error("encoder ran after a frame failure")
	}
	assertEmptyDir(t, root)
}

func TestExport_NoOutputIsEncoderFailure(t *testing.T) {
	e, root := newExporter(t, &mocks.ClipEncoder{}, Options{})

	_, err := e.Export(context.Background(), filledBuffer(2), filepath.Join(t.TempDir(), "clip.mp4"))
	var xe *Error
	if !errors.As(err, &xe) || xe.Kind != EncoderFailed {
		t.Fatalf("expected EncoderFailed, got %v", err)
	}
	if xe.Diagnostics != "encoder produced no output" {
		t.Errorf("Diagnostics = %q", xe.Diagnostics)
	}
	assertEmptyDir(t, root)
}

func TestExport_EncoderStartFailure(t *testing.T) {
	fs := osfilesystem.New()
	root := t.TempDir()
	var scratch string
	mat := pipeline.StageFunc[pipeline.MaterializeInput, pipeline.MaterializeResult](
		func(ctx context.Context, in pipeline.MaterializeInput) (pipeline.MaterializeResult, error) {
			scratch = in.Dir
			return pipeline.MaterializeResult{
				Pattern: pipeline.FramePattern(in.Dir, 4),
				Count:   len(in.Records),
				Width:   32,
				Height:  24,
			}, nil
		})
	enc := pipeline.StageFunc[pipeline.EncodeInput, pipeline.EncodeResult](
		func(ctx context.Context, in pipeline.EncodeInput) (pipeline.EncodeResult, error) {
			return pipeline.EncodeResult{}, errors.New("exec: no such file")
		})
	e := New(mat, enc, fs, logger.NewNoop(), Options{ScratchRoot: root})

	_, err := e.Export(context.Background(), filledBuffer(2), filepath.Join(t.TempDir(), "clip.mp4"))
	var xe *Error
	if !errors.As(err, &xe) || xe.Kind != EncoderFailed {
		t.Fatalf("expected EncoderFailed, got %v", err)
	}
	if xe.ExitCode != -1 || xe.Diagnostics != "exec: no such file" {
		t.Errorf("unexpected error fields %+v", xe)
	}
	if scratch == "" || !IsScratchDir(scratch) {
		t.Errorf("materialize saw scratch dir %q", scratch)
	}
	assertEmptyDir(t, root)
}

func TestExport_FailedEncodeKeepsDestination(t *testing.T) {
	fs := osfilesystem.New()
	var outputs []string
	enc := &mocks.ClipEncoder{
		EncodeFunc: func(ctx context.Context, req ports.ClipRequest) error {
			outputs = append(outputs, req.Output)
			if err := fs.WriteFile(req.Output, []byte("trunc")); err != nil {
				return err
			}
			return &ports.EncoderExitError{ExitCode: 1, Stderr: "broken pipe"}
		},
	}
	e, _ := newExporter(t, enc, Options{})

	outDir := t.TempDir()
	fresh := filepath.Join(outDir, "fresh.mp4")
	if _, err := e.Export(context.Background(), filledBuffer(2), fresh); !errors.Is(err, ErrEncoderFailed) {
		t.Fatalf("expected ErrEncoderFailed, got %v", err)
	}
	if _, err := os.Stat(fresh); !os.IsNotExist(err) {
		t.Errorf("partial clip left at %s", fresh)
	}

	existing := filepath.Join(outDir, "existing.mp4")
	if err := fs.WriteFile(existing, []byte("old clip")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Export(context.Background(), filledBuffer(2), existing); !errors.Is(err, ErrEncoderFailed) {
		t.Fatalf("expected ErrEncoderFailed, got %v", err)
	}
	if data, err := os.ReadFile(existing); err != nil || string(data) != "old clip" {
		t.Errorf("existing clip = %q, %v; want it untouched", data, err)
	}

	for _, out := range outputs {
		if filepath.Ext(out) != ".mp4" || !strings.Contains(filepath.Base(out), ".partial") {
			t.Errorf("encoder wrote to %s", out)
		}
	}
	names, err := fs.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "existing.mp4" {
		t.Errorf("output directory holds %v", names)
	}
}

func TestExport_ReplacesDestinationOnSuccess(t *testing.T) {
	fs := osfilesystem.New()
	e, _ := newExporter(t, &mocks.ClipEncoder{FS: fs}, Options{})

	dest := filepath.Join(t.TempDir(), "new", "dir", "clip.mp4")
	res, err := e.Export(context.Background(), filledBuffer(2), dest)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if data, err := os.ReadFile(dest); err != nil || string(data) != "mock video" {
		t.Errorf("clip = %q, %v", data, err)
	}
	if res.Path != dest {
		t.Errorf("Path = %s", res.Path)
	}
	if _, err := os.Stat(PartialPath(dest)); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}
}

func TestPartialPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/clips/replay.mp4", "/clips/.replay.partial.mp4"},
		{"clip.mkv", ".clip.partial.mkv"},
		{"/a.b/clip", "/a.b/.clip.partial"},
	}
	for _, tt := range tests {
		if got := PartialPath(filepath.FromSlash(tt.in)); got != filepath.FromSlash(tt.want) {
			t.Errorf("PartialPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExport_ScratchReplacesStaleDirectory(t *testing.T) {
	fs := osfilesystem.New()
	var sawStale bool
	enc := &mocks.ClipEncoder{
		EncodeFunc: func(ctx context.Context, req ports.ClipRequest) error {
			_, err := os.Stat(filepath.Join(filepath.Dir(req.InputPattern), "stale.png"))
			sawStale = err == nil
			return fs.WriteFile(req.Output, []byte("v"))
		},
	}
	e, root := newExporter(t, enc, Options{})
	e.newID = func() string { return "fixed" }

	stale := filepath.Join(root, ScratchPrefix+"fixed")
	if err := fs.WriteFile(filepath.Join(stale, "stale.png"), []byte("old")); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Export(context.Background(), filledBuffer(2), filepath.Join(t.TempDir(), "clip.mp4")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if sawStale {
		t.Error("stale scratch content was merged instead of wiped")
	}
	assertEmptyDir(t, root)
}

func TestExport_CleanupFailureIsNonFatal(t *testing.T) {
	fs := mocks.NewFileSystem()
	removals := 0
	fs.RemoveAllFunc = func(path string) error {
		removals++
		if removals > 1 {
			return errors.New("device busy")
		}
		return nil
	}
	log := logger.NewNoop()
	e := New(
		materialize.NewStage(&mocks.Renderer{}, fs, log, 1),
		encode.NewStage(&mocks.ClipEncoder{FS: fs}, fs, nil, log),
		fs, log, Options{ScratchRoot: "/scratch"},
	)

	result, err := e.Export(context.Background(), filledBuffer(2), "/out/clip.mp4")
	if err != nil {
		t.Fatalf("cleanup failure must not fail the export: %v", err)
	}
	if !errors.Is(result.CleanupErr, ErrScratchCleanupFailed) {
		t.Errorf("CleanupErr = %v, want ScratchCleanupFailed", result.CleanupErr)
	}
	if result.Path != "/out/clip.mp4" {
		t.Errorf("Path = %q", result.Path)
	}
}

func TestExport_ScratchCreateFailure(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(path string) error { return errors.New("read-only filesystem") }
	log := logger.NewNoop()
	e := New(
		materialize.NewStage(&mocks.Renderer{}, fs, log, 1),
		encode.NewStage(&mocks.ClipEncoder{FS: fs}, fs, nil, log),
		fs, log, Options{ScratchRoot: "/scratch"},
	)

	if _, err := e.Export(context.Background(), filledBuffer(1), "/out/clip.mp4"); !errors.Is(err, ErrScratchFailed) {
		t.Errorf("expected ErrScratchFailed, got %v", err)
	}
}

func TestExport_Canceled(t *testing.T) {
	e, root := newExporter(t, &mocks.ClipEncoder{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx, filledBuffer(3), filepath.Join(t.TempDir(), "clip.mp4"))
	if !errors.Is(err, ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected ErrCanceled wrapping context.Canceled, got %v", err)
	}
	assertEmptyDir(t, root)
}

func TestExport_ConcurrentDestinations(t *testing.T) {
	fs := osfilesystem.New()
	e, root := newExporter(t, &mocks.ClipEncoder{FS: fs}, Options{})
	buf := filledBuffer(4)
	dir := t.TempDir()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Export(context.Background(), buf, filepath.Join(dir, "clip"+string(rune('a'+i))+".mp4"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent export failed: %v", err)
		}
	}
	assertEmptyDir(t, root)
}

func TestExport_ReleasesExactlyOnceUnderEviction(t *testing.T) {
	fs := osfilesystem.New()
	e, _ := newExporter(t, &mocks.ClipEncoder{FS: fs}, Options{})

	var tick atomic.Int64
	base := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return base.Add(time.Duration(tick.Add(1)) * 10 * time.Millisecond) }
	buf := replay.New(time.Second, replay.WithClock(clock))

	var mu sync.Mutex
	released := map[int]int{}
	push := func(id int) {
		buf.Push(solidFrame(8, 8, color.White, func() {
			mu.Lock()
			released[id]++
			mu.Unlock()
		}))
	}
	for i := 0; i < 50; i++ {
		push(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 50; i < 500; i++ {
			push(i)
		}
	}()
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		if _, err := e.Export(context.Background(), buf, filepath.Join(dir, "c.mp4")); err != nil {
			t.Fatalf("export %d failed: %v", i, err)
		}
	}
	<-done
	buf.Clear()

	mu.Lock()
	defer mu.Unlock()
	for id := 0; id < 500; id++ {
		if released[id] != 1 {
			t.Errorf("frame %d released %d times", id, released[id])
		}
	}
}

func TestExport_AutoFrameRate(t *testing.T) {
	e, _ := newExporter(t, &mocks.ClipEncoder{}, Options{AutoFPS: true})
	tests := []struct {
		n    int
		span time.Duration
		want float64
	}{
		{31, time.Second, 30},
		{2, time.Hour, MinFPS},
		{1000, time.Second, MaxFPS},
		{1, 0, DefaultFPS},
	}
	for _, tt := range tests {
		if got := e.frameRate(tt.n, tt.span); got != tt.want {
			t.Errorf("frameRate(%d, %v) = %v, want %v", tt.n, tt.span, got, tt.want)
		}
	}

	fixed, _ := newExporter(t, &mocks.ClipEncoder{}, Options{FPS: 24})
	if got := fixed.frameRate(31, time.Second); got != 24 {
		t.Errorf("fixed frameRate = %v, want 24", got)
	}
}

func TestEncodeSequence(t *testing.T) {
	fs := osfilesystem.New()
	enc := &mocks.ClipEncoder{FS: fs}
	e, _ := newExporter(t, enc, Options{FPS: 30})

	dir := filepath.Join(t.TempDir(), ScratchPrefix+"old")
	for i := 0; i < 3; i++ {
		fs.WriteFile(filepath.Join(dir, "frame_"+strings.Repeat("0", 3)+string(rune('0'+i))+".png"), []byte("png"))
	}

	dest := filepath.Join(t.TempDir(), "recovered.mp4")
	result, err := e.EncodeSequence(context.Background(), dir, dest)
	if err != nil {
		t.Fatalf("EncodeSequence failed: %v", err)
	}
	if result.Frames != 3 || result.FPS != 30 {
		t.Errorf("unexpected result %+v", result)
	}
	req := enc.Requests[0]
	if req.InputPattern != filepath.Join(dir, "frame_%04d.png") || req.FrameCount != 3 {
		t.Errorf("unexpected request %+v", req)
	}
	if exists, _ := fs.Exists(dir); !exists {
		t.Error("recovered directory should be kept")
	}

	if _, err := e.EncodeSequence(context.Background(), t.TempDir(), dest); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport for a directory without stills, got %v", err)
	}
}

func TestLeftoverScratch(t *testing.T) {
	e, root := newExporter(t, &mocks.ClipEncoder{}, Options{})
	os.Mkdir(filepath.Join(root, ScratchPrefix+"a"), 0o755)
	os.Mkdir(filepath.Join(root, "unrelated"), 0o755)

	dirs, err := e.LeftoverScratch()
	if err != nil {
		t.Fatalf("LeftoverScratch failed: %v", err)
	}
	if len(dirs) != 1 || filepath.Base(dirs[0]) != ScratchPrefix+"a" {
		t.Errorf("LeftoverScratch = %v", dirs)
	}
}

func TestExport_RealFFmpeg(t *testing.T) {
	if !ffmpeg.Available() {
		t.Skip("ffmpeg not installed")
	}
	if testing.Short() {
		t.Skip("skipping encoder run in short mode")
	}
	enc := ffmpeg.New(ffmpeg.Options{Preset: "ultrafast", Timeout: time.Minute}, logger.NewNoop())
	e, root := newExporter(t, enc, Options{})

	// Odd-sized frames exercise the even-size normalization yuv420p needs.
	now := time.Unix(1_700_000_000, 0)
	b := replay.New(time.Minute, replay.WithClock(func() time.Time { return now }))
	for i := 0; i < 12; i++ {
		b.Push(solidFrame(65, 47, color.RGBA{R: uint8(i * 20), G: 100, B: 200, A: 255}, nil))
		now = now.Add(time.Second / 60)
	}

	dest := filepath.Join(t.TempDir(), "clip.mp4")
	result, err := e.Export(context.Background(), b, dest)
	if err != nil {
		var xe *Error
		if errors.As(err, &xe) && strings.Contains(xe.Diagnostics, "libx264") {
			t.Skipf("ffmpeg lacks libx264: %s", xe.Diagnostics)
		}
		t.Fatalf("Export failed: %v", err)
	}
	if result.Size == 0 {
		t.Error("empty output")
	}
	if result.Info == nil {
		t.Fatal("output was not probed")
	}
	if result.Info.Width != 64 || result.Info.Height != 46 {
		t.Errorf("encoded size = %dx%d, want 64x46", result.Info.Width, result.Info.Height)
	}
	if result.Info.Frames != 12 {
		t.Errorf("encoded %d frames, want 12", result.Info.Frames)
	}
	assertEmptyDir(t, root)
}

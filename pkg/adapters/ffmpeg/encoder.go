package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/ports"
)

// ErrTimedOut is returned when an encode exceeds Options.Timeout.
// It matches ports.ErrEncoderTimeout with errors.Is.
var ErrTimedOut = fmt.Errorf("ffmpeg: %w", ports.ErrEncoderTimeout)

// waitDelay bounds how long Wait blocks on stderr after the process is killed.
const waitDelay = 5 * time.Second

// Options configures the ffmpeg invocation.
type Options struct {
	Path        string        // empty: see Find
	Codec       string        // default libx264
	PixelFormat string        // default yuv420p
	Preset      string        // omitted when empty
	CRF         int           // omitted when zero
	Timeout     time.Duration // zero: no limit besides ctx
	ExtraArgs   []string      // inserted before the output path
}

// DefaultOptions returns the settings producing broadly playable H.264.
func DefaultOptions() Options {
	return Options{
		Codec:       "libx264",
		PixelFormat: "yuv420p",
		Timeout:     2 * time.Minute,
	}
}

// Encoder runs one ffmpeg process per Encode call. It is safe for concurrent use.
type Encoder struct {
	opts   Options
	logger ports.Logger

	once    sync.Once
	path    string
	findErr error
}

// New creates an Encoder. The binary is located on first use.
func New(opts Options, log ports.Logger) *Encoder {
	if opts.Codec == "" {
		opts.Codec = "libx264"
	}
	if opts.PixelFormat == "" {
		opts.PixelFormat = "yuv420p"
	}
	if log == nil {
		log = logger.NewNoop()
	}
	return &Encoder{opts: opts, logger: log.WithComponent("ffmpeg")}
}

// Path returns the resolved binary path.
func (e *Encoder) Path() (string, error) {
	e.once.Do(func() {
		e.path, e.findErr = Find(e.opts.Path)
	})
	return e.path, e.findErr
}

// Args returns the command line arguments for req, without the binary.
func (e *Encoder) Args(req ports.ClipRequest) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-framerate", strconv.FormatFloat(req.FPS, 'f', -1, 64),
		"-start_number", strconv.Itoa(req.StartNumber),
		"-i", req.InputPattern,
		"-c:v", e.opts.Codec,
		"-pix_fmt", e.opts.PixelFormat,
	}
	if e.opts.Preset != "" {
		args = append(args, "-preset", e.opts.Preset)
	}
	if e.opts.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(e.opts.CRF))
	}
	args = append(args, e.opts.ExtraArgs...)
	args = append(args, "-movflags", "+faststart", req.Output)
	return args
}

// Encode runs ffmpeg and waits for it to exit.
//
// A non-zero exit yields *ports.EncoderExitError carrying the process's
// stderr. Exceeding the timeout kills the process and yields ErrTimedOut.
// Cancellation of ctx yields ctx.Err().
func (e *Encoder) Encode(ctx context.Context, req ports.ClipRequest) error {
	path, err := e.Path()
	if err != nil {
		return err
	}

	runCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	args := e.Args(req)
	e.logger.Debug("Running %s %s", path, strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err = cmd.Run()
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.logger.Debug("Encoder killed after %s", e.opts.Timeout)
		return ErrTimedOut
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ports.EncoderExitError{
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimRight(stderr.String(), "\r\n"),
		}
	}
	return fmt.Errorf("start ffmpeg: %w", err)
}

// Version returns the first line of `ffmpeg -version`.
func (e *Encoder) Version(ctx context.Context) (string, error) {
	path, err := e.Path()
	if err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg -version: %w", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", fmt.Errorf("ffmpeg -version: empty output")
}

var _ ports.ClipEncoder = (*Encoder)(nil)

// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/replayclip/pkg/adapters/ffmpeg"
	"github.com/user/replayclip/pkg/adapters/screensource"
	"github.com/user/replayclip/pkg/export"
	"github.com/user/replayclip/pkg/orchestrator"
	"github.com/user/replayclip/pkg/ports"
	"github.com/user/replayclip/pkg/replay"
	"github.com/user/replayclip/pkg/summarizer"
)

// Capture source names.
const (
	SourceSynthetic = "synthetic"
	SourceScreen    = "screen"
	SourceBrowser   = "browser"
)

// Config represents the full configuration for replayclip.
type Config struct {
	Buffer  BufferConfig  `yaml:"buffer"`
	Capture CaptureConfig `yaml:"capture"`
	Monitor MonitorConfig `yaml:"monitor"`
	Encoder EncoderConfig `yaml:"encoder"`
	Export  ExportConfig  `yaml:"export"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// BufferConfig sizes the replay window.
type BufferConfig struct {
	Window    Duration `yaml:"window"`
	QueueSize int      `yaml:"queue_size"`
}

// CaptureConfig selects and configures the frame source.
type CaptureConfig struct {
	Source     string  `yaml:"source"`
	FPS        float64 `yaml:"fps"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	URL        string  `yaml:"url"`
	ChromePath string  `yaml:"chrome_path"`
	Headless   bool    `yaml:"headless"`
	Region     string  `yaml:"region"` // x,y,w,h
}

// MonitorConfig gates capture on a running process.
type MonitorConfig struct {
	Process  string   `yaml:"process"`
	Interval Duration `yaml:"interval"`
}

// EncoderConfig configures ffmpeg.
type EncoderConfig struct {
	FFmpegPath  string   `yaml:"ffmpeg_path"`
	FPS         string   `yaml:"fps"` // number or "auto"
	Codec       string   `yaml:"codec"`
	PixelFormat string   `yaml:"pixel_format"`
	Preset      string   `yaml:"preset"`
	CRF         int      `yaml:"crf"`
	Timeout     Duration `yaml:"timeout"`
	Attempts    int      `yaml:"attempts"`
}

// ExportConfig configures the export pipeline.
type ExportConfig struct {
	ScratchRoot string   `yaml:"scratch_root"`
	Workers     int      `yaml:"workers"`
	Cooldown    Duration `yaml:"cooldown"`
	Report      bool     `yaml:"report"`
}

// OutputConfig names exported clips.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Filename string `yaml:"filename"` // time layout
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Buffer: BufferConfig{
			Window:    Duration(30 * time.Second),
			QueueSize: 8,
		},
		Capture: CaptureConfig{
			Source:   SourceSynthetic,
			FPS:      30,
			Width:    1280,
			Height:   720,
			Headless: true,
		},
		Monitor: MonitorConfig{
			Interval: Duration(time.Second),
		},
		Encoder: EncoderConfig{
			FPS:         "60",
			Codec:       "libx264",
			PixelFormat: "yuv420p",
			Timeout:     Duration(2 * time.Minute),
			Attempts:    1,
		},
		Export: ExportConfig{
			Workers:  4,
			Cooldown: Duration(2 * time.Second),
		},
		Output: OutputConfig{
			Dir:      ".",
			Filename: orchestrator.DefaultFilename,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges and names. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Buffer.Window.D() < replay.MinWindow {
		add("buffer.window must be at least %s", replay.MinWindow)
	}
	if c.Buffer.QueueSize < 1 {
		add("buffer.queue_size must be positive")
	}
	switch c.Capture.Source {
	case SourceSynthetic, SourceScreen:
	case SourceBrowser:
		if c.Capture.URL == "" {
			add("capture.url is required for the browser source")
		}
	default:
		add("capture.source %q is not one of synthetic, screen, browser", c.Capture.Source)
	}
	if c.Capture.FPS <= 0 || c.Capture.FPS > export.MaxFPS {
		add("capture.fps must be in (0, %g]", export.MaxFPS)
	}
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 {
		add("capture.width and capture.height must be positive")
	}
	if _, err := screensource.ParseRegion(c.Capture.Region); err != nil {
		add("capture.region: %v", err)
	}
	if c.Monitor.Interval.D() <= 0 {
		add("monitor.interval must be positive")
	}
	if _, _, err := c.Encoder.FrameRate(); err != nil {
		add("encoder.fps: %v", err)
	}
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 51 {
		add("encoder.crf must be in [0, 51]")
	}
	if c.Encoder.Timeout.D() < 0 {
		add("encoder.timeout must not be negative")
	}
	if c.Encoder.Attempts < 1 {
		add("encoder.attempts must be at least 1")
	}
	if c.Export.Workers < 1 {
		add("export.workers must be positive")
	}
	if c.Export.Cooldown.D() < 0 {
		add("export.cooldown must not be negative")
	}
	if c.Output.Filename == "" {
		add("output.filename is required")
	} else if filepath.Ext(c.Output.Filename) == "" {
		add("output.filename %q needs an extension such as .mp4", c.Output.Filename)
	}
	if _, err := ports.ParseLogLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		add("log.format %q is not one of console, json", c.Log.Format)
	}

	return errors.Join(errs...)
}

// FrameRate parses the fps setting. "auto" derives the rate per clip.
func (e EncoderConfig) FrameRate() (fps float64, auto bool, err error) {
	s := strings.TrimSpace(e.FPS)
	if s == "" {
		return export.DefaultFPS, false, nil
	}
	if strings.EqualFold(s, "auto") {
		return 0, true, nil
	}
	fps, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%q is neither a number nor auto", s)
	}
	if fps < export.MinFPS || fps > export.MaxFPS {
		return 0, false, fmt.Errorf("%g is outside [%g, %g]", fps, export.MinFPS, export.MaxFPS)
	}
	return fps, false, nil
}

// ParsedRegion returns the parsed capture region. Invalid values yield the full screen.
func (c CaptureConfig) ParsedRegion() image.Rectangle {
	r, _ := screensource.ParseRegion(c.Region)
	return r
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Window:          c.Buffer.Window.D(),
		Process:         c.Monitor.Process,
		MonitorInterval: c.Monitor.Interval.D(),
		OutputDir:       c.Output.Dir,
		Filename:        c.Output.Filename,
		Cooldown:        c.Export.Cooldown.D(),
		Report:          c.Export.Report,
		Encoder: summarizer.EncoderInfo{
			Codec:       c.Encoder.Codec,
			PixelFormat: c.Encoder.PixelFormat,
			Preset:      c.Encoder.Preset,
			CRF:         c.Encoder.CRF,
		},
	}
}

// ExportOptions converts Config to export.Options.
func (c Config) ExportOptions() export.Options {
	fps, auto, _ := c.Encoder.FrameRate()
	return export.Options{
		ScratchRoot:    c.Export.ScratchRoot,
		FPS:            fps,
		AutoFPS:        auto,
		EncodeAttempts: c.Encoder.Attempts,
	}
}

// EncoderOptions converts Config to ffmpeg.Options.
func (c Config) EncoderOptions() ffmpeg.Options {
	opts := ffmpeg.DefaultOptions()
	opts.Path = c.Encoder.FFmpegPath
	if c.Encoder.Codec != "" {
		opts.Codec = c.Encoder.Codec
	}
	if c.Encoder.PixelFormat != "" {
		opts.PixelFormat = c.Encoder.PixelFormat
	}
	opts.Preset = c.Encoder.Preset
	opts.CRF = c.Encoder.CRF
	opts.Timeout = c.Encoder.Timeout.D()
	return opts
}

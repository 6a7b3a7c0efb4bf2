// Package main provides the CLI entry point for replayclip.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/replayclip/pkg/adapters/ffmpeg"
	"github.com/user/replayclip/pkg/adapters/ggrenderer"
	"github.com/user/replayclip/pkg/adapters/logger"
	"github.com/user/replayclip/pkg/adapters/mp4probe"
	"github.com/user/replayclip/pkg/adapters/osfilesystem"
	"github.com/user/replayclip/pkg/adapters/procwatch"
	"github.com/user/replayclip/pkg/adapters/screensource"
	"github.com/user/replayclip/pkg/adapters/synthsource"
	"github.com/user/replayclip/pkg/adapters/tabsource"
	"github.com/user/replayclip/pkg/adapters/trigger"
	"github.com/user/replayclip/pkg/config"
	"github.com/user/replayclip/pkg/export"
	"github.com/user/replayclip/pkg/orchestrator"
	"github.com/user/replayclip/pkg/ports"
	"github.com/user/replayclip/pkg/replay"
	"github.com/user/replayclip/pkg/stages/encode"
	"github.com/user/replayclip/pkg/stages/materialize"
	"github.com/user/replayclip/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Run     RunCmd     `cmd:"" default:"withargs" help:"${help_run}"`
	Recover RecoverCmd `cmd:"" help:"${help_recover}"`
	Check   CheckCmd   `cmd:"" help:"${help_check}"`
	Version VersionCmd `cmd:"" help:"${help_version}"`
}

// LogFlags are shared by every subcommand that does work.
type LogFlags struct {
	LogLevel  string `short:"l" help:"${help_log_level}" group:"${group_logging}"`
	LogFormat string `help:"${help_log_format}" group:"${group_logging}"`
	Quiet     bool   `short:"Q" help:"${help_quiet}" group:"${group_logging}"`
}

func (f LogFlags) newLogger() ports.Logger {
	if f.Quiet {
		return logger.NewNoop()
	}
	// Unknown names were rejected by config validation; info is the fallback.
	level, _ := ports.ParseLogLevel(f.LogLevel)
	if f.LogFormat == "json" {
		return logger.NewStructured(os.Stderr, level)
	}
	return logger.NewConsole(level)
}

// RunCmd captures continuously and exports on demand.
type RunCmd struct {
	Config      string `short:"c" type:"existingfile" help:"${help_config}"`
	WatchConfig bool   `help:"${help_watch_config}"`

	// Buffer
	Window *time.Duration `short:"w" help:"${help_window}" group:"${group_buffer}"`

	// Capture
	Source     *string  `short:"s" help:"${help_source}" group:"${group_capture}"`
	FPS        *float64 `help:"${help_capture_fps}" group:"${group_capture}"`
	Width      *int     `short:"W" help:"${help_width}" group:"${group_capture}"`
	Height     *int     `short:"H" help:"${help_height}" group:"${group_capture}"`
	URL        *string  `help:"${help_url}" group:"${group_capture}"`
	ChromePath *string  `help:"${help_chrome_path}" group:"${group_capture}"`
	NoHeadless bool     `help:"${help_no_headless}" group:"${group_capture}"`
	Region     *string  `help:"${help_region}" group:"${group_capture}"`
	Process    *string  `short:"p" help:"${help_process}" group:"${group_capture}"`

	// Output
	OutputDir *string `short:"o" help:"${help_output_dir}" group:"${group_output}"`
	Report    bool    `help:"${help_report}" group:"${group_output}"`

	// Encoder
	FFmpeg     *string `help:"${help_ffmpeg}" group:"${group_encoder}"`
	EncoderFPS *string `help:"${help_encoder_fps}" group:"${group_encoder}"`
	CRF        *int    `help:"${help_crf}" group:"${group_encoder}"`
	Preset     *string `help:"${help_preset}" group:"${group_encoder}"`

	NoStdin bool `help:"${help_no_stdin}"`

	LogFlags
}

// RecoverCmd re-encodes a scratch directory left behind by an interrupted
// export. It reads the same configuration file as run, so the scratch root
// and encoder settings match those of the run that left the directory.
type RecoverCmd struct {
	Dir         string   `arg:"" optional:"" type:"existingdir" help:"${help_recover_dir}"`
	Output      string   `short:"o" help:"${help_recover_output}"`
	List        bool     `help:"${help_recover_list}"`
	Config      string   `short:"c" type:"existingfile" help:"${help_config}"`
	ScratchRoot *string  `help:"${help_scratch_root}"`
	FPS         *float64 `help:"${help_recover_fps}"`
	FFmpeg      *string  `help:"${help_ffmpeg}"`

	LogFlags
}

// CheckCmd reports whether external tools are available.
type CheckCmd struct {
	FFmpeg     string `help:"${help_ffmpeg}"`
	ChromePath string `help:"${help_chrome_path}"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("replayclip"),
		kong.Description(l10n.T("Keep the last seconds of capture in memory and save them as a clip on demand")),
		kong.UsageOnError(),
		helpVars(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// Run executes the run command.
func (cmd *RunCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	log := LogFlags{LogLevel: cfg.Log.Level, LogFormat: cfg.Log.Format, Quiet: cmd.Quiet}.newLogger()

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	buffer := replay.New(cfg.Buffer.Window.D(), replay.WithLogger(log))

	encoder := ffmpeg.New(cfg.EncoderOptions(), log)
	if _, err := encoder.Path(); err != nil {
		return err
	}

	exporter := export.New(
		materialize.NewStage(renderer, fs, log, cfg.Export.Workers),
		encode.NewStage(encoder, fs, mp4probe.New(), log),
		fs,
		log,
		cfg.ExportOptions(),
	)
	if leftovers, err := exporter.LeftoverScratch(); err == nil && len(leftovers) > 0 {
		log.Warn("Found %d leftover scratch directories, see 'replayclip recover --list'", len(leftovers))
	}

	source := newSource(cfg, renderer, log)

	var finder ports.ProcessFinder
	if cfg.Monitor.Process != "" {
		finder = procwatch.New()
	}
	var reports orchestrator.ReportWriter
	if cfg.Export.Report {
		reports = summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs)
	}

	orch := orchestrator.New(cfg.ToOrchestratorConfig(), buffer, source, finder, exporter, reports, log)

	triggers := []ports.Trigger{trigger.NewSignal()}
	if !cmd.NoStdin {
		triggers = append(triggers, trigger.NewStdin(os.Stdin, log))
		log.Info("Type 's' to save a clip, 'status', 'w <duration>' or 'q' to quit")
	}
	events := trigger.Merge(triggers...).Events(ctx)

	if cmd.WatchConfig && cmd.Config != "" {
		go func() {
			err := config.Watch(ctx, cmd.Config, func(c config.Config, err error) {
				if err != nil {
					log.Warn("Configuration not reloaded: %v", err)
					return
				}
				applied := orch.SetWindow(c.Buffer.Window.D())
				log.Info("Configuration reloaded, replay window %s", applied)
			})
			if err != nil {
				log.Warn("Configuration watch failed: %v", err)
			}
		}()
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case out := <-orch.Results():
				if out.Err == nil {
					fmt.Println(out.Result.Path)
				}
			}
		}
	}()

	runErr := orch.Run(ctx, events)

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Encoder.Timeout.D()+10*time.Second)
	defer stop()
	if err := orch.Shutdown(shutdownCtx); err != nil {
		log.Warn("Shutdown incomplete: %v", err)
	}
	return runErr
}

// buildConfig loads the config file and applies CLI overrides.
func (cmd *RunCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Window != nil {
		cfg.Buffer.Window = config.Duration(*cmd.Window)
	}
	if cmd.Source != nil {
		cfg.Capture.Source = *cmd.Source
	}
	if cmd.FPS != nil {
		cfg.Capture.FPS = *cmd.FPS
	}
	if cmd.Width != nil {
		cfg.Capture.Width = *cmd.Width
	}
	if cmd.Height != nil {
		cfg.Capture.Height = *cmd.Height
	}
	if cmd.URL != nil {
		cfg.Capture.URL = *cmd.URL
	}
	if cmd.ChromePath != nil {
		cfg.Capture.ChromePath = *cmd.ChromePath
	}
	if cmd.NoHeadless {
		cfg.Capture.Headless = false
	}
	if cmd.Region != nil {
		cfg.Capture.Region = *cmd.Region
	}
	if cmd.Process != nil {
		cfg.Monitor.Process = *cmd.Process
	}
	if cmd.OutputDir != nil {
		cfg.Output.Dir = *cmd.OutputDir
	}
	if cmd.Report {
		cfg.Export.Report = true
	}
	if cmd.FFmpeg != nil {
		cfg.Encoder.FFmpegPath = *cmd.FFmpeg
	}
	if cmd.EncoderFPS != nil {
		cfg.Encoder.FPS = *cmd.EncoderFPS
	}
	if cmd.CRF != nil {
		cfg.Encoder.CRF = *cmd.CRF
	}
	if cmd.Preset != nil {
		cfg.Encoder.Preset = *cmd.Preset
	}
	if cmd.LogLevel != "" {
		cfg.Log.Level = cmd.LogLevel
	}
	if cmd.LogFormat != "" {
		cfg.Log.Format = cmd.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSource creates the configured capture source.
func newSource(cfg config.Config, painter ports.Painter, log ports.Logger) ports.FrameSource {
	c := cfg.Capture
	switch c.Source {
	case config.SourceScreen:
		return screensource.New(screensource.Options{
			Region: c.ParsedRegion(),
			FPS:    c.FPS,
			Queue:  cfg.Buffer.QueueSize,
			Logger: log,
		})
	case config.SourceBrowser:
		return tabsource.New(tabsource.Options{
			URL:        c.URL,
			ChromePath: c.ChromePath,
			Width:      c.Width,
			Height:     c.Height,
			Headless:   c.Headless,
			Queue:      cfg.Buffer.QueueSize,
			Logger:     log,
		})
	default:
		return synthsource.New(painter, synthsource.Options{
			Width:  c.Width,
			Height: c.Height,
			FPS:    c.FPS,
			Queue:  cfg.Buffer.QueueSize,
			Logger: log,
		})
	}
}

// buildConfig loads the config file and applies the recover overrides.
func (cmd *RecoverCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.ScratchRoot != nil {
		cfg.Export.ScratchRoot = *cmd.ScratchRoot
	}
	if cmd.FFmpeg != nil {
		cfg.Encoder.FFmpegPath = *cmd.FFmpeg
	}
	if cmd.FPS != nil {
		cfg.Encoder.FPS = strconv.FormatFloat(*cmd.FPS, 'f', -1, 64)
	}
	if cmd.LogLevel != "" {
		cfg.Log.Level = cmd.LogLevel
	}
	if cmd.LogFormat != "" {
		cfg.Log.Format = cmd.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRecoverExporter(cfg config.Config, log ports.Logger) *export.Exporter {
	fs := osfilesystem.New()
	return export.New(
		materialize.NewStage(ggrenderer.New(), fs, log, 1),
		encode.NewStage(ffmpeg.New(cfg.EncoderOptions(), log), fs, mp4probe.New(), log),
		fs,
		log,
		cfg.ExportOptions(),
	)
}

// Run executes the recover command.
func (cmd *RecoverCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	log := LogFlags{LogLevel: cfg.Log.Level, LogFormat: cfg.Log.Format, Quiet: cmd.Quiet}.newLogger()
	ctx, cancel := signalContext(log)
	defer cancel()

	exporter := newRecoverExporter(cfg, log)
	if cmd.List || cmd.Dir == "" {
		return listLeftovers(os.Stdout, exporter)
	}

	if cmd.Output == "" {
		return errors.New(l10n.T("--output is required to recover a directory"))
	}
	res, err := exporter.EncodeSequence(ctx, cmd.Dir, cmd.Output)
	if err != nil {
		return err
	}
	log.Info("Recovered %d frames to %s", res.Frames, res.Path)
	return nil
}

func listLeftovers(w io.Writer, exporter *export.Exporter) error {
	dirs, err := exporter.LeftoverScratch()
	if err != nil {
		return fmt.Errorf("list scratch directories: %w", err)
	}
	for _, d := range dirs {
		fmt.Fprintln(w, d)
	}
	return nil
}

// Run executes the check command.
func (cmd *CheckCmd) Run() error {
	return runCheck(os.Stdout, cmd.FFmpeg, cmd.ChromePath)
}

func runCheck(w io.Writer, ffmpegPath, chromePath string) error {
	encoder := ffmpeg.New(ffmpeg.Options{Path: ffmpegPath}, logger.NewNoop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var failed bool
	if path, err := encoder.Path(); err != nil {
		fmt.Fprintln(w, l10n.F("ffmpeg: not found (%s)", err))
		failed = true
	} else if v, err := encoder.Version(ctx); err != nil {
		fmt.Fprintln(w, l10n.F("ffmpeg: %s (version unknown: %s)", path, err))
	} else {
		fmt.Fprintln(w, l10n.F("ffmpeg: %s (%s)", path, v))
	}

	if path := tabsource.ResolveChromePath(chromePath); path == "" {
		fmt.Fprintln(w, l10n.T("chrome: not found (only needed for the browser source)"))
	} else {
		fmt.Fprintln(w, l10n.F("chrome: %s", path))
	}

	if failed {
		return errors.New(l10n.T("required tools are missing"))
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("replayclip version %s", version))
	return nil
}

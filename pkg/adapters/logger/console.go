// Package logger provides the console, structured and no-op implementations
// of ports.Logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/replayclip/pkg/ports"
)

const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

const timeLayout = "15:04:05"

// console is shared by a logger and every logger derived from it, so lines
// written from concurrent capture and export goroutines never interleave.
type console struct {
	mu        sync.Mutex
	out, err  io.Writer
	outColor  bool
	errColor  bool
	timestamp bool
	now       func() time.Time
}

// ConsoleLogger prints translated messages, one per line. Debug and info
// go to the out stream; warnings and errors to the error stream.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	c         *console
}

// NewConsole logs to stdout and stderr. Each stream is colored when it is a
// terminal. Lines carry a wall-clock prefix since runs last for hours.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{
		level: level,
		c: &console{
			out:       os.Stdout,
			err:       os.Stderr,
			outColor:  isTerminal(os.Stdout),
			errColor:  isTerminal(os.Stderr),
			timestamp: true,
			now:       time.Now,
		},
	}
}

// NewConsoleWriter logs plain, untimed lines to out and errw.
func NewConsoleWriter(out, errw io.Writer, level ports.LogLevel) *ConsoleLogger {
	return &ConsoleLogger{
		level: level,
		c:     &console{out: out, err: errw, now: time.Now},
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(ports.LevelDebug, msg, args)
}

func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(ports.LevelInfo, msg, args)
}

func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(ports.LevelWarn, msg, args)
}

func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args)
}

// WithComponent returns a logger sharing this one's output that prefixes
// lines with [component].
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	return &ConsoleLogger{level: l.level, component: component, c: l.c}
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args []interface{}) {
	if level < l.level {
		return
	}
	text := l10n.F(msg, args...)

	w, color := l.c.out, l.c.outColor
	if level >= ports.LevelWarn {
		w, color = l.c.err, l.c.errColor
	}

	var prefix string
	if l.c.timestamp {
		prefix = l.c.now().Format(timeLayout) + " "
	}
	if l.component != "" {
		if color {
			prefix += colorCyan + "[" + l.component + "]" + colorReset + " "
		} else {
			prefix += "[" + l.component + "] "
		}
	}
	if color {
		switch level {
		case ports.LevelDebug:
			text = colorGray + text + colorReset
		case ports.LevelWarn:
			text = colorYellow + text + colorReset
		case ports.LevelError:
			text = colorRed + text + colorReset
		}
	}

	l.c.mu.Lock()
	fmt.Fprintln(w, prefix+text)
	l.c.mu.Unlock()
}

var _ ports.Logger = (*ConsoleLogger)(nil)

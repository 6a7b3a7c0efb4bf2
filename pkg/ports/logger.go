package ports

import (
	"fmt"
	"strings"
)

// LogLevel orders log messages by severity. A logger prints messages at or
// above its level.
type LogLevel int

const (
	LevelDebug LogLevel = iota // per-frame and per-step details
	LevelInfo                  // capture sessions and saved clips
	LevelWarn                  // recoverable problems, e.g. a failed scratch cleanup
	LevelError                 // failed exports and capture errors
	LevelQuiet                 // nothing
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name, ignoring case. "warning" is accepted
// for warn and the empty string means info.
func ParseLogLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	}
	for i, name := range levelNames {
		if s == name {
			return LogLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger is the logging port. msg is a printf-style format that doubles as
// the translation key for console output, so it must be a constant string.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags messages with the component name.
	WithComponent(component string) Logger
}

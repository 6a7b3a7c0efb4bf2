package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/user/replayclip/pkg/ports"
)

// StructuredLogger writes one JSON object per message through logrus.
// Messages are not translated so that log collectors see stable text.
type StructuredLogger struct {
	entry *logrus.Entry
}

// NewStructured creates a JSON logger writing to w at the given level.
func NewStructured(w io.Writer, level ports.LogLevel) *StructuredLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrusLevel(level))
	return &StructuredLogger{entry: logrus.NewEntry(l)}
}

func logrusLevel(level ports.LogLevel) logrus.Level {
	switch level {
	case ports.LevelDebug:
		return logrus.DebugLevel
	case ports.LevelInfo:
		return logrus.InfoLevel
	case ports.LevelWarn:
		return logrus.WarnLevel
	case ports.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.PanicLevel
	}
}

func (l *StructuredLogger) Debug(msg string, args ...interface{}) {
	l.entry.Debug(format(msg, args))
}

func (l *StructuredLogger) Info(msg string, args ...interface{}) {
	l.entry.Info(format(msg, args))
}

func (l *StructuredLogger) Warn(msg string, args ...interface{}) {
	l.entry.Warn(format(msg, args))
}

func (l *StructuredLogger) Error(msg string, args ...interface{}) {
	l.entry.Error(format(msg, args))
}

// WithComponent returns a logger that tags every entry with a component field.
func (l *StructuredLogger) WithComponent(component string) ports.Logger {
	return &StructuredLogger{entry: l.entry.WithField("component", component)}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

package logger

import "github.com/user/replayclip/pkg/ports"

// NoopLogger discards everything. Components built without a logger use it,
// as does --quiet.
type NoopLogger struct{}

func NewNoop() *NoopLogger { return &NoopLogger{} }

func (*NoopLogger) Debug(string, ...interface{}) {}
func (*NoopLogger) Info(string, ...interface{})  {}
func (*NoopLogger) Warn(string, ...interface{})  {}
func (*NoopLogger) Error(string, ...interface{}) {}

func (l *NoopLogger) WithComponent(string) ports.Logger { return l }

var _ ports.Logger = (*NoopLogger)(nil)

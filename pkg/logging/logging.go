// Package logging provides the small leveled-logger interface used
// across the matching core, mirroring the teacher's scanner.DebugLogger:
// no global singletons, no third-party logging dependency (none appears
// anywhere in the retrieval pack), just log/slog behind an interface so
// callers can inject a no-op logger in tests.
package logging

import (
	"log/slog"
	"os"
)

// Logger is the leveled logging contract consumed by the resource
// governor, matchers, and scheduler.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	l *slog.Logger
}

// New returns a Logger backed by log/slog, writing leveled text to
// os.Stderr.
func New(level slog.Level) Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slogLogger{l: slog.New(h)}
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// Noop is a Logger that discards everything, used in tests and whenever
// a caller doesn't supply one.
type Noop struct{}

func (Noop) Debug(string, ...any) {}
func (Noop) Info(string, ...any)  {}
func (Noop) Warn(string, ...any)  {}
func (Noop) Error(string, ...any) {}

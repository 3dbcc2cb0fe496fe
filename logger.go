package ggsnap

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/ggsnap/capability"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggsnap and its capability registry.
// By default, ggsnap produces no log output. Call SetLogger to enable logging.
//
// Pass nil to disable logging (restore default silent behavior). Sessions
// prepared before the call keep the logger they started with.
//
// Log levels used by ggsnap:
//   - [slog.LevelDebug]: skipped capability rules, session inflation, disposal
//   - [slog.LevelInfo]: session prepared, reconfigured
//   - [slog.LevelWarn]: accessibility issues
//   - [slog.LevelError]: backend failures; any of these fails Dispose
//
// Example:
//
//	ggsnap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	capability.SetLogger(l)
}

// Logger returns the current logger used by ggsnap.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

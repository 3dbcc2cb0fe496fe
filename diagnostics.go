package ggsnap

import (
	"context"
	"log/slog"
	"sync"
)

// diagnostics collects what a session logs at warning level and above,
// forwarding every record to the package logger's handler as well.
type diagnostics struct {
	mu       sync.Mutex
	errors   []string
	warnings int
}

func (d *diagnostics) record(r slog.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case r.Level >= slog.LevelError:
		d.errors = append(d.errors, r.Message)
	case r.Level >= slog.LevelWarn:
		d.warnings++
	}
}

// flush returns the logged errors and clears them.
func (d *diagnostics) flush() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	errs := d.errors
	d.errors, d.warnings = nil, 0
	return errs
}

func (d *diagnostics) counts() (errors, warnings int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.errors), d.warnings
}

// logger returns a logger that records into d and forwards to next.
func (d *diagnostics) logger(next slog.Handler) *slog.Logger {
	return slog.New(&diagHandler{d: d, next: next})
}

type diagHandler struct {
	d    *diagnostics
	next slog.Handler
}

func (h *diagHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.next.Enabled(ctx, level)
}

func (h *diagHandler) Handle(ctx context.Context, r slog.Record) error {
	h.d.record(r)
	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *diagHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &diagHandler{d: h.d, next: h.next.WithAttrs(attrs)}
}

func (h *diagHandler) WithGroup(name string) slog.Handler {
	return &diagHandler{d: h.d, next: h.next.WithGroup(name)}
}

package ggsnap

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/ggsnap/capability"
)

func TestNopHandler_Enabled(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
}

func TestNopHandler_WithAttrs(t *testing.T) {
	h := nopHandler{}
	got := h.WithAttrs([]slog.Attr{slog.String("key", "val")})
	if _, ok := got.(nopHandler); !ok {
		t.Errorf("nopHandler.WithAttrs() returned %T, want nopHandler", got)
	}
	if _, ok := h.WithGroup("group").(nopHandler); !ok {
		t.Error("nopHandler.WithGroup() did not return nopHandler")
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	SetLogger(custom)

	if Logger() != custom {
		t.Error("Logger() did not return the custom logger set via SetLogger")
	}
	if capability.Logger() != custom {
		t.Error("SetLogger did not propagate to the capability package")
	}

	Logger().Info("test message", "key", "value")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected log output to contain 'test message', got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	const goroutines = 50

	for range goroutines {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("concurrent read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func TestDiagnosticsRecordsWarningsAndErrors(t *testing.T) {
	d := &diagnostics{}
	log := d.logger(nopHandler{})

	log.Debug("ignored")
	log.Info("ignored")
	log.Warn("careful")
	log.With("session", "x").Error("broken")
	log.WithGroup("g").Error("also broken")

	errs, warns := d.counts()
	if errs != 2 || warns != 1 {
		t.Fatalf("counts() = %d errors, %d warnings, want 2, 1", errs, warns)
	}
	got := d.flush()
	if len(got) != 2 || got[0] != "broken" || got[1] != "also broken" {
		t.Errorf("flush() = %q", got)
	}
	if errs, warns := d.counts(); errs != 0 || warns != 0 {
		t.Errorf("counts() after flush = %d, %d, want 0, 0", errs, warns)
	}
}

func TestDiagnosticsForwardsEnabledRecords(t *testing.T) {
	var buf bytes.Buffer
	next := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	d := &diagnostics{}
	log := d.logger(next)

	log.Debug("hidden")
	log.Info("shown")
	log.Error("failure")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record forwarded: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "failure") {
		t.Errorf("records missing from output: %s", out)
	}
	if errs, _ := d.counts(); errs != 1 {
		t.Errorf("errors = %d, want 1", errs)
	}
}

func BenchmarkLoggerDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("message", "key", "value")
	}
}

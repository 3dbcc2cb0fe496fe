package ggsnap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/ggsnap/backend"
)

// Sentinel errors.
var (
	// ErrSessionActive is returned by Prepare while another session holds
	// the process-wide slot.
	ErrSessionActive = errors.New("ggsnap: a render session is already prepared")

	// ErrNotPrepared is returned by operations that need a prepared session.
	ErrNotPrepared = errors.New("ggsnap: session not prepared")

	// ErrBusy is returned when a session operation starts while another is
	// still running, typically from inside a view callback.
	ErrBusy = errors.New("ggsnap: session operation already in progress")

	// ErrViewReleased is returned by captures on a released view.
	ErrViewReleased = errors.New("ggsnap: view released")

	// ErrSessionDisposed is returned by captures on a view whose session was
	// disposed or rebuilt since it was attached.
	ErrSessionDisposed = errors.New("ggsnap: view outlived its session")

	// ErrSequenceConsumed is yielded by a frame sequence iterated twice.
	ErrSequenceConsumed = errors.New("ggsnap: frame sequence already consumed")
)

// ConfigError reports an invalid configuration or request. No state is
// changed when it is returned.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ggsnap: invalid %s: %s", e.Field, e.Reason)
}

// RenderError reports a failed backend pass, or a session that logged errors
// during its lifetime.
type RenderError struct {
	// Op is the operation that failed: "prepare", "render" or "dispose".
	Op string

	Status backend.Status

	// Err is the backend's underlying error, nil for dispose failures.
	Err error

	// Diagnostics holds the error messages logged during the session.
	Diagnostics []string
}

func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString("ggsnap: ")
	b.WriteString(e.Op)
	if e.Status != backend.StatusSuccess {
		b.WriteString(" (")
		b.WriteString(e.Status.String())
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if n := len(e.Diagnostics); n > 0 {
		fmt.Fprintf(&b, ": %d error(s) logged: %s", n, strings.Join(e.Diagnostics, "; "))
	}
	return b.String()
}

func (e *RenderError) Unwrap() error { return e.Err }

package ggsnap

import (
	"iter"
	"time"
)

// Stream is what a Handler receives for one snapshot: a named, lazily
// captured frame sequence.
type Stream struct {
	Name string

	// FPS is 1 for single-frame snapshots.
	FPS int

	FrameCount int

	// MaxPercentDifference is the comparison threshold from the config.
	MaxPercentDifference float64

	seq *Sequence
}

// Frames captures and yields the frames in order. It can be ranged over
// once.
func (s *Stream) Frames() iter.Seq2[Frame, error] { return s.seq.All() }

// Handler consumes snapshot streams: recording goldens, comparing against
// them, encoding animations.
type Handler interface {
	Handle(s *Stream) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(s *Stream) error

// Handle implements Handler.
func (f HandlerFunc) Handle(s *Stream) error { return f(s) }

func (m *Manager) newStream(name string, seq *Sequence) *Stream {
	return &Stream{
		Name:                 name,
		FPS:                  seq.FPS(),
		FrameCount:           seq.Len(),
		MaxPercentDifference: m.Config().Threshold(),
		seq:                  seq,
	}
}

// Snapshot attaches content, hands h a single frame captured at offset zero
// and releases the content.
func (m *Manager) Snapshot(name string, content any, h Handler) error {
	return m.SnapshotAt(name, content, 0, h)
}

// SnapshotAt is like Snapshot but captures the frame at offset into the
// clock sequence, after every callback due by then has run.
func (m *Manager) SnapshotAt(name string, content any, offset time.Duration, h Handler) error {
	if offset < 0 {
		return &ConfigError{Field: "offset", Reason: "must not be negative"}
	}
	return m.WithView(content, func(pv *PreparedView) error {
		return h.Handle(m.newStream(name, pv.Single(offset)))
	})
}

// Animate attaches content, hands h the frames described by spec and
// releases the content.
func (m *Manager) Animate(name string, content any, spec FrameSpec, h Handler) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	return m.WithView(content, func(pv *PreparedView) error {
		return h.Handle(m.newStream(name, pv.Frames(spec)))
	})
}

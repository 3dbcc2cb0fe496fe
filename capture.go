package ggsnap

import (
	"image"
	"iter"
	"sync/atomic"
	"time"

	"github.com/gogpu/ggsnap/imageproc"
)

// FrameSpec describes an animation capture: frames from Start to End, both
// inclusive, at FPS frames per second.
type FrameSpec struct {
	Start time.Duration
	End   time.Duration
	FPS   int
}

// Validate reports a spec that cannot produce frames as a *ConfigError.
func (s FrameSpec) Validate() error {
	switch {
	case s.FPS <= 0:
		return &ConfigError{Field: "fps", Reason: "must be positive"}
	case s.Start < 0:
		return &ConfigError{Field: "start", Reason: "must not be negative"}
	case s.End < s.Start:
		return &ConfigError{Field: "end", Reason: "must not precede start"}
	}
	return nil
}

// FrameCount returns floor((End-Start) in ms * FPS / 1000) + 1. The extra
// frame makes a one-second capture at 60 FPS end exactly on 1000 ms.
func (s FrameSpec) FrameCount() int {
	ms := (s.End - s.Start).Milliseconds()
	return int(ms*int64(s.FPS)/1000) + 1
}

// Timestamp returns the offset of frame i: Start + i*1000/FPS whole
// milliseconds. The last frame is pinned to End.
func (s FrameSpec) Timestamp(i int) time.Duration {
	if i >= s.FrameCount()-1 {
		return s.End
	}
	return s.Start + time.Duration(int64(i)*1000/int64(s.FPS))*time.Millisecond
}

// Frame is one post-processed capture.
type Frame struct {
	// Index is the position in the sequence, from zero.
	Index int

	// Time is the offset the frame was captured at.
	Time time.Duration

	Image image.Image
}

// Sequence is a lazy, single-use series of captures. Each frame is rendered
// only when the consumer pulls it; stopping early leaves the view attached.
type Sequence struct {
	pv    *PreparedView
	fps   int
	count int
	at    func(i int) time.Duration
	used  atomic.Bool

	// invalid is yielded instead of frames when the spec was rejected.
	invalid error
}

// Single returns a one-frame sequence captured at offset, reported at 1 FPS.
func (pv *PreparedView) Single(offset time.Duration) *Sequence {
	return &Sequence{
		pv:    pv,
		fps:   1,
		count: 1,
		at:    func(int) time.Duration { return offset },
	}
}

// Frames returns the sequence described by spec. An invalid spec yields its
// error on the first pull.
func (pv *PreparedView) Frames(spec FrameSpec) *Sequence {
	if err := spec.Validate(); err != nil {
		return &Sequence{pv: pv, fps: 1, invalid: err}
	}
	return &Sequence{pv: pv, fps: spec.FPS, count: spec.FrameCount(), at: spec.Timestamp}
}

// FPS returns the frame rate reported for the whole sequence.
func (s *Sequence) FPS() int { return s.fps }

// Len returns the number of frames the sequence produces.
func (s *Sequence) Len() int { return s.count }

// All captures the frames in order. A render error is yielded once and ends
// the sequence; frames already yielded stay valid. A second iteration yields
// ErrSequenceConsumed.
func (s *Sequence) All() iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		if !s.used.CompareAndSwap(false, true) {
			yield(Frame{}, ErrSequenceConsumed)
			return
		}
		if s.invalid != nil {
			yield(Frame{}, s.invalid)
			return
		}

		clock := s.pv.m.opts.clock
		clock.BeginSequence()
		for i := range s.count {
			t := s.at(i)
			raw, err := s.pv.CaptureAt(t)
			if err != nil {
				yield(Frame{Index: i, Time: t}, err)
				return
			}
			cfg := s.pv.m.Config()
			img := imageproc.Process(raw, cfg.Mode.IsNormal(), cfg.Device.Shape)
			if !yield(Frame{Index: i, Time: t, Image: img}, nil) {
				return
			}
		}
	}
}

// Collect pulls every frame.
func (s *Sequence) Collect() ([]Frame, error) {
	var frames []Frame
	for f, err := range s.All() {
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

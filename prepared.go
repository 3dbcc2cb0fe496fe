package ggsnap

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/ggsnap/view"
)

// PreparedView is content attached to a prepared session. It captures
// frames until it is released or its session is disposed or rebuilt.
//
// Release must be called exactly once the view is no longer needed; WithView
// does that on every exit path.
type PreparedView struct {
	m          *Manager
	generation uint64

	content  view.View
	composed bool
	owner    *view.LifecycleOwner

	once     sync.Once
	released atomic.Bool
	issues   []AccessibilityIssue
}

// Attach applies the config's extensions to content and attaches the result
// under the session root. content is a view.View or a view.Composable (a
// func(*view.Env) view.View).
//
// Attaching starts a new clock sequence at offset zero and, when the backend
// supports it, gives the content a lifecycle owner in the Resumed state.
func (m *Manager) Attach(content any) (*PreparedView, error) {
	if !m.transition.TryLock() {
		return nil, ErrBusy
	}
	defer m.unlock()

	if m.state != Prepared {
		return nil, ErrNotPrepared
	}

	var v view.View
	switch c := content.(type) {
	case view.Composable:
		v = view.Compose(c)
	case func(*view.Env) view.View:
		v = view.Compose(c)
	case view.View:
		v = c
	default:
		return nil, &ConfigError{Field: "content", Reason: fmt.Sprintf("cannot attach %T", content)}
	}
	composed := view.IsComposed(v)
	root := m.session.Root()
	if composed && !root.Composable {
		return nil, &ConfigError{Field: "content", Reason: "composable content needs a compose root"}
	}
	v = view.ApplyAll(v, m.cfg.Extensions)

	pv := &PreparedView{
		m:          m,
		generation: m.generation,
		content:    v,
		composed:   composed,
	}

	// Settle the scheduler at the start of the new sequence before the
	// content sees its first frame.
	m.opts.clock.BeginSequence()
	m.opts.clock.AdvanceTo(0)

	if m.session.SupportsLifecycle() {
		pv.owner = view.NewLifecycleOwner()
		pv.owner.MoveTo(view.Resumed)
		m.session.SetLifecycleOwner(pv.owner)
	}
	root.Add(v)
	return pv, nil
}

// WithView attaches content, runs fn and releases the view however fn
// returns, panics included.
func (m *Manager) WithView(content any, fn func(*PreparedView) error) error {
	pv, err := m.Attach(content)
	if err != nil {
		return err
	}
	defer pv.Release()
	return fn(pv)
}

// Content returns the attached view, extensions applied.
func (pv *PreparedView) Content() view.View { return pv.content }

// Lifecycle returns the content's lifecycle owner, nil when the backend has
// no lifecycle support.
func (pv *PreparedView) Lifecycle() *view.LifecycleOwner { return pv.owner }

// AccessibilityIssues returns the issues found by the last capture.
func (pv *PreparedView) AccessibilityIssues() []AccessibilityIssue { return pv.issues }

// CaptureAt renders the content at offset within the current clock sequence
// and returns the raw frame. With accessibility validation enabled, issues
// are logged as warnings; they never fail the capture.
func (pv *PreparedView) CaptureAt(offset time.Duration) (image.Image, error) {
	m := pv.m
	if !m.transition.TryLock() {
		return nil, ErrBusy
	}
	defer m.unlock()

	if err := pv.check(); err != nil {
		return nil, err
	}
	cfg := m.cfg
	if cfg.ValidateAccessibility {
		if err := cfg.checkExclusive(); err != nil {
			return nil, err
		}
	}

	img, err := m.render(offset)
	if err != nil {
		return nil, err
	}
	if cfg.ValidateAccessibility {
		pv.issues = CheckAccessibility(m.session.Nodes(), cfg.Device.Scale())
		log := m.diag.logger(Logger().Handler())
		for _, issue := range pv.issues {
			log.Warn("ggsnap: accessibility issue",
				slog.String("category", string(issue.Category)),
				slog.String("view", issue.ViewID),
				slog.String("message", issue.Message),
				slog.String("help", issue.HelpURL))
		}
	}
	return img, nil
}

// check reports why the view can no longer capture, if it cannot.
func (pv *PreparedView) check() error {
	switch {
	case pv.released.Load():
		return ErrViewReleased
	case pv.m.state != Prepared || pv.generation != pv.m.generation:
		return ErrSessionDisposed
	}
	return nil
}

// Release detaches the content, forgets animation state and destroys the
// lifecycle owner. Composed content gets one more callback drain so pending
// recompositions let go of it. Only the first call has any effect.
//
// Release never blocks. Called while a session operation is running, from a
// view's Draw or a clock callback for instance, the view stops capturing at
// once and is detached when that operation returns.
func (pv *PreparedView) Release() {
	pv.once.Do(pv.release)
}

func (pv *PreparedView) release() {
	pv.released.Store(true)
	m := pv.m
	if !m.transition.TryLock() {
		m.deferRelease(pv)
		return
	}
	pv.detach()
	m.unlock()
}

// detach undoes Attach. The caller holds m.transition.
func (pv *PreparedView) detach() {
	m := pv.m
	if m.state == Prepared && pv.generation == m.generation {
		m.session.Root().Remove(pv.content)
		if pv.composed {
			m.opts.clock.Drain()
		}
		m.session.ResetAnimations()
		m.opts.clock.Reset()
		m.session.SetLifecycleOwner(nil)
	}
	if pv.owner != nil {
		pv.owner.MoveTo(view.Destroyed)
	}
}

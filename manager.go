package ggsnap

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gogpu/ggsnap/backend"
	"github.com/gogpu/ggsnap/vclock"
)

// State is a session state.
type State int

// Session states. Dispose returns a manager to a state Prepare accepts.
const (
	Uninitialized State = iota
	Prepared
	Disposed
)

func (s State) String() string {
	switch s {
	case Prepared:
		return "prepared"
	case Disposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

// active is the process-wide prepared-session slot.
var active atomic.Pointer[Manager]

// Manager owns the lifecycle of one render session at a time:
//
//	Uninitialized --Prepare--> Prepared --Dispose--> Disposed
//	                           Prepared --Reconfigure--> Prepared
//
// At most one Manager in the process is Prepared. Session operations are not
// reentrant: calling one while another is running returns ErrBusy.
type Manager struct {
	opts managerOptions

	// transition is held for the duration of every session operation.
	transition sync.Mutex

	// mu guards the fields read by accessors, which may run from inside
	// a session operation.
	mu      sync.RWMutex
	cfg     Config
	state   State
	id      ulid.ULID
	session backend.Session
	diag    *diagnostics

	// generation changes whenever the backend session is replaced or
	// released; prepared views compare it to detect staleness.
	generation uint64

	// pending holds views released while an operation was running; they
	// are detached before the operation gives up transition.
	pendingMu sync.Mutex
	pending   []*PreparedView
}

// NewManager creates an uninitialized manager.
func NewManager(opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{opts: o}
}

// Prepare validates cfg, installs the capability registry, claims the
// process-wide session slot and initializes a backend session. It returns
// once the first layout has completed.
func (m *Manager) Prepare(cfg Config) error {
	if !m.transition.TryLock() {
		return ErrBusy
	}
	defer m.unlock()

	if m.state == Prepared {
		return ErrSessionActive
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := m.installCapabilities(cfg); err != nil {
		return err
	}
	if !active.CompareAndSwap(nil, m) {
		return ErrSessionActive
	}

	m.mu.Lock()
	m.diag = &diagnostics{}
	m.mu.Unlock()
	if err := m.build(cfg); err != nil {
		active.CompareAndSwap(m, nil)
		return err
	}
	m.setState(Prepared)
	Logger().Info("ggsnap: session prepared",
		slog.String("session", m.id.String()),
		slog.String("device", cfg.Device.Name),
		slog.String("mode", cfg.Mode.String()))
	return nil
}

// build creates and initializes the backend session for cfg.
func (m *Manager) build(cfg Config) error {
	b := m.opts.backend
	if b == nil {
		if b = backend.Default(); b == nil {
			return backend.ErrBackendNotAvailable
		}
	}

	doc, err := backend.NewRootDocument(m.opts.composeRoot, cfg.Mode).Markup()
	if err != nil {
		return fmt.Errorf("ggsnap: root document: %w", err)
	}

	id := ulid.Make()
	log := m.diag.logger(Logger().Handler()).With(slog.String("session", id.String()))
	s, err := b.NewSession(backend.SessionParams{
		ID:                 id,
		Device:             cfg.Device,
		Theme:              cfg.Theme,
		Mode:               cfg.Mode,
		Document:           doc,
		Direction:          cfg.Direction(),
		Locale:             cfg.Locale(),
		ShowSystemUI:       cfg.ShowSystemUI,
		FirstFrameExecuted: true,
		Host:               m.opts.host,
		Scheduler:          m.opts.clock,
		Logger:             log,
	})
	if err != nil {
		return &RenderError{Op: "prepare", Status: backend.StatusErrorInflation, Err: err}
	}
	if r := s.Init(); !r.OK() {
		s.Dispose()
		return &RenderError{Op: "prepare", Status: r.Status, Err: r.Err}
	}

	m.mu.Lock()
	m.cfg, m.id, m.session = cfg, id, s
	m.generation++
	m.mu.Unlock()
	return nil
}

// release disposes the backend session and invalidates attached views.
func (m *Manager) release() {
	m.mu.Lock()
	s := m.session
	m.session = nil
	m.generation++
	m.mu.Unlock()
	if s != nil {
		s.Dispose()
	}
}

// unlock detaches views released during the operation, then releases
// transition.
func (m *Manager) unlock() {
	for {
		for _, pv := range m.takePending() {
			pv.detach()
		}
		m.transition.Unlock()
		// A release may have queued itself after the drain above.
		if !m.hasPending() || !m.transition.TryLock() {
			return
		}
	}
}

// deferRelease queues pv for detaching when the running operation ends.
func (m *Manager) deferRelease(pv *PreparedView) {
	m.pendingMu.Lock()
	m.pending = append(m.pending, pv)
	m.pendingMu.Unlock()
	if m.transition.TryLock() {
		m.unlock()
	}
}

func (m *Manager) takePending() []*PreparedView {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	views := m.pending
	m.pending = nil
	return views
}

func (m *Manager) hasPending() bool {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	return len(m.pending) > 0
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Reconfigure rebuilds the session with o merged into the current config.
// Empty overrides fail with *ConfigError and leave the session untouched.
// Views attached before the call are invalid afterwards.
func (m *Manager) Reconfigure(o Overrides) error {
	if !m.transition.TryLock() {
		return ErrBusy
	}
	defer m.unlock()

	if m.state != Prepared {
		return ErrNotPrepared
	}
	if o.IsEmpty() {
		return &ConfigError{Field: "overrides", Reason: "at least one field must be set"}
	}
	cfg := m.cfg.apply(o)
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.release()
	if err := m.build(cfg); err != nil {
		m.setState(Disposed)
		active.CompareAndSwap(m, nil)
		return err
	}
	Logger().Info("ggsnap: session reconfigured",
		slog.String("session", m.id.String()),
		slog.String("device", cfg.Device.Name),
		slog.String("mode", cfg.Mode.String()))
	return nil
}

// Dispose releases the backend session and the process-wide slot. It fails
// with *RenderError when the session logged any error during its lifetime,
// even if every render succeeded.
func (m *Manager) Dispose() error {
	if !m.transition.TryLock() {
		return ErrBusy
	}
	defer m.unlock()

	if m.state != Prepared {
		return ErrNotPrepared
	}
	m.release()
	m.setState(Disposed)
	active.CompareAndSwap(m, nil)

	if errs := m.diag.flush(); len(errs) > 0 {
		return &RenderError{Op: "dispose", Diagnostics: errs}
	}
	return nil
}

// Render advances the clock to offset within the current sequence and
// renders one frame. The returned image is the raw backend frame.
func (m *Manager) Render(offset time.Duration) (image.Image, error) {
	if !m.transition.TryLock() {
		return nil, ErrBusy
	}
	defer m.unlock()
	return m.render(offset)
}

func (m *Manager) render(offset time.Duration) (image.Image, error) {
	if m.state != Prepared {
		return nil, ErrNotPrepared
	}
	m.opts.clock.AdvanceTo(int64(offset))
	r := m.session.Render()
	if !r.OK() {
		return nil, &RenderError{Op: "render", Status: r.Status, Err: r.Err}
	}
	return m.session.Image(), nil
}

// Config returns the current session config.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// State returns the session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SessionID identifies the current backend session; it changes on every
// Prepare and Reconfigure.
func (m *Manager) SessionID() ulid.ULID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id
}

// Clock returns the manager's virtual clock.
func (m *Manager) Clock() *vclock.Clock { return m.opts.clock }

// Diagnostics returns how many errors and warnings the current session has
// logged so far.
func (m *Manager) Diagnostics() (errors, warnings int) {
	m.mu.RLock()
	d := m.diag
	m.mu.RUnlock()
	if d == nil {
		return 0, 0
	}
	return d.counts()
}

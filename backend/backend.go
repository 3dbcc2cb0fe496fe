package backend

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/go-text/typesetting/di"
	"github.com/oklog/ulid/v2"
	"golang.org/x/text/language"

	"github.com/gogpu/ggsnap/device"
	"github.com/gogpu/ggsnap/view"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when Render is called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrDisposed is returned by sessions used after Dispose.
	ErrDisposed = errors.New("backend: session disposed")
)

// Status is the outcome of a session pass.
type Status int

const (
	StatusSuccess Status = iota

	// StatusErrorInflation means Init could not build the surface.
	StatusErrorInflation

	// StatusErrorNotInflated means Render ran before a successful Init.
	StatusErrorNotInflated

	// StatusErrorUnknown covers failures raised while drawing.
	StatusErrorUnknown
)

var statusNames = [...]string{"success", "error_inflation", "error_not_inflated", "error_unknown"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Result reports a pass. Err is set for every status but StatusSuccess.
type Result struct {
	Status Status
	Err    error
}

// OK reports whether the pass succeeded.
func (r Result) OK() bool { return r.Status == StatusSuccess }

func success() Result { return Result{Status: StatusSuccess} }

func failure(s Status, err error) Result { return Result{Status: s, Err: err} }

// SizeAction is how one surface axis relates to the device screen.
type SizeAction int

const (
	// SizeNone keeps the screen size.
	SizeNone SizeAction = iota

	// SizeExpand grows the axis to fit the content, never below the screen.
	SizeExpand

	// SizeShrink sizes the axis to the content, never above the screen.
	SizeShrink
)

func (a SizeAction) String() string {
	switch a {
	case SizeExpand:
		return "expand"
	case SizeShrink:
		return "shrink"
	default:
		return "none"
	}
}

// RenderingMode pairs the horizontal and vertical size actions.
type RenderingMode struct {
	Horizontal SizeAction
	Vertical   SizeAction
}

// Named rendering modes.
var (
	Normal     = RenderingMode{}
	VScroll    = RenderingMode{Vertical: SizeExpand}
	HScroll    = RenderingMode{Horizontal: SizeExpand}
	FullExpand = RenderingMode{Horizontal: SizeExpand, Vertical: SizeExpand}
	Shrink     = RenderingMode{Horizontal: SizeShrink, Vertical: SizeShrink}
)

// IsNormal reports whether neither axis is resized.
func (m RenderingMode) IsNormal() bool { return m == Normal }

// IsShrink reports whether any axis wraps its content.
func (m RenderingMode) IsShrink() bool {
	return m.Horizontal == SizeShrink || m.Vertical == SizeShrink
}

func (m RenderingMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case VScroll:
		return "v_scroll"
	case HScroll:
		return "h_scroll"
	case FullExpand:
		return "full_expand"
	case Shrink:
		return "shrink"
	}
	return m.Horizontal.String() + "/" + m.Vertical.String()
}

// SessionParams is everything a backend needs to build a session.
type SessionParams struct {
	ID     ulid.ULID
	Device device.Profile

	// Theme names a palette; see Themes.
	Theme string

	Mode RenderingMode

	// Document is the root document markup; see RootDocument.Markup.
	Document []byte

	Direction    di.Direction
	Locale       language.Tag
	ShowSystemUI bool

	// FirstFrameExecuted skips the engine's first-frame warm-up.
	FirstFrameExecuted bool

	// Host supplies the substituted capabilities. Nil means DefaultHost.
	Host *Host

	// Scheduler receives frame callbacks posted by views.
	Scheduler view.Scheduler

	// Logger receives the session's diagnostics. Nil discards them.
	Logger *slog.Logger
}

// RenderBackend creates render sessions.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "software").
	Name() string

	// NewSession builds an uninitialized session for params.
	NewSession(params SessionParams) (Session, error)
}

// Session is one configured render surface.
//
// A session is driven from a single goroutine: Init once, then any number of
// Render passes, then Dispose.
type Session interface {
	// Init inflates the root document and runs the first layout.
	Init() Result

	// Render draws one frame at the host clock's current time.
	Render() Result

	// Image returns the last rendered frame, or nil before the first Render.
	Image() image.Image

	// Root returns the container content is attached to.
	Root() *view.Root

	// Nodes returns the inspection of the last rendered frame.
	Nodes() []view.Node

	// SupportsLifecycle reports whether attached content gets a lifecycle owner.
	SupportsLifecycle() bool

	// SetLifecycleOwner exposes o to views from the next pass on.
	// Sessions without lifecycle support ignore it.
	SetLifecycleOwner(o *view.LifecycleOwner)

	// ResetAnimations forgets every recorded animation start.
	ResetAnimations()

	// Dispose releases the session. It is safe to call more than once.
	Dispose()
}

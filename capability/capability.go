// Package capability substitutes host behaviors a hosted render engine would
// otherwise resolve against the live process: the time source, font lookup,
// the edit-mode flag, matrix math, service lookup and view inspection.
//
// Substitutions are recorded as rules in a Registry and applied to a Host's
// hook table exactly once, before the first render session is prepared:
//
//	capability.Register(capability.TimeSource, clock)
//	capability.Register(capability.ViewInspection, capability.InspectorFunc(view.Inspect))
//
//	report, err := capability.InstallAll(host)
//
// After installation every read of a substituted behavior resolves to the
// replacement until the process exits. There is no teardown; Clear exists
// for tests only.
package capability

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/ggsnap/view"
)

// Name identifies a host capability that can be substituted.
type Name string

// Known capability names.
const (
	// TimeSource is the clock read by the engine's frame scheduler.
	TimeSource Name = "time-source"

	// ViewInspection walks a laid-out tree for validation and tooling.
	ViewInspection Name = "view-inspection"

	// FontLookup resolves font families to faces.
	FontLookup Name = "font-lookup"

	// EditMode reports whether views render in design-time mode.
	EditMode Name = "edit-mode"

	// MatrixMath multiplies and applies 2D affine matrices.
	MatrixMath Name = "matrix-math"

	// ServiceLookup resolves named system services.
	ServiceLookup Name = "service-lookup"

	// AppCompat is the compatibility shim hook. Few hosts expose it.
	AppCompat Name = "app-compat"
)

// Required reports whether a host must expose a hook for n.
// Nothing can render without a substituted clock or inspection hook.
func (n Name) Required() bool {
	switch n {
	case TimeSource, ViewInspection:
		return true
	default:
		return false
	}
}

func (n Name) String() string { return string(n) }

// Clock is the replacement for TimeSource.
type Clock interface {
	// NanoTime returns monotonic nanoseconds.
	NanoTime() int64

	// CurrentTimeMillis returns milliseconds on the same timeline.
	CurrentTimeMillis() int64
}

// FontResolver is the replacement for FontLookup.
type FontResolver interface {
	// Face returns a face for family at size points.
	// An empty family selects the default sans-serif family.
	Face(family string, size float64) (text.Face, error)
}

// EditModeFunc is the replacement for EditMode.
type EditModeFunc func() bool

// Matrix is the replacement for MatrixMath.
type Matrix interface {
	Multiply(a, b gg.Matrix) gg.Matrix
	Apply(m gg.Matrix, p gg.Point) gg.Point
}

// ServiceLocator is the replacement for ServiceLookup.
type ServiceLocator interface {
	Service(name string) (any, bool)
}

// ServiceMap is a ServiceLocator backed by a fixed map.
type ServiceMap map[string]any

// Service implements ServiceLocator.
func (m ServiceMap) Service(name string) (any, bool) {
	s, ok := m[name]
	return s, ok
}

// Inspector is the replacement for ViewInspection. It flattens a laid-out
// tree into nodes in draw order.
type Inspector interface {
	Inspect(env *view.Env, root view.View, bounds view.Rect) []view.Node
}

// InspectorFunc adapts a function to Inspector.
type InspectorFunc func(env *view.Env, root view.View, bounds view.Rect) []view.Node

// Inspect implements Inspector.
func (f InspectorFunc) Inspect(env *view.Env, root view.View, bounds view.Rect) []view.Node {
	return f(env, root, bounds)
}

// AppCompatShim is the replacement for AppCompat.
type AppCompatShim interface {
	Enabled() bool
}

// GGMatrix implements Matrix with gg's affine math.
type GGMatrix struct{}

// Multiply returns a*b.
func (GGMatrix) Multiply(a, b gg.Matrix) gg.Matrix { return a.Multiply(b) }

// Apply transforms p by m.
func (GGMatrix) Apply(m gg.Matrix, p gg.Point) gg.Point { return m.TransformPoint(p) }

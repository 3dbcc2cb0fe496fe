// Package view is the minimal component model rendered by ggsnap backends.
//
// A View measures itself against Constraints and draws into a gg.Context.
// Everything a view needs from the host (density, palette, fonts, the
// current virtual time, layout direction) arrives through Env, so a view
// never reads process state directly and renders identically at the same
// virtual instant.
//
// The package deliberately stays small: boxes, labels, columns, a couple of
// time-driven views and a composition wrapper. It is a fixture for the
// capture pipeline, not a widget toolkit.
package view

import (
	"image"
	"image/color"
	"math"

	"github.com/go-text/typesetting/di"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Rect is a pixel rectangle in surface coordinates.
type Rect = image.Rectangle

// Unbounded marks a constraint axis without an upper limit.
const Unbounded = math.MaxInt32

// Size is a measured size in pixels.
type Size struct {
	W, H int
}

// Constraints bound a measurement. MaxW or MaxH may be Unbounded.
type Constraints struct {
	MaxW, MaxH int
}

// Tight returns constraints limited to r's size.
func Tight(r Rect) Constraints {
	return Constraints{MaxW: r.Dx(), MaxH: r.Dy()}
}

// Constrain clamps s to c.
func (c Constraints) Constrain(s Size) Size {
	if s.W > c.MaxW {
		s.W = c.MaxW
	}
	if s.H > c.MaxH {
		s.H = c.MaxH
	}
	if s.W < 0 {
		s.W = 0
	}
	if s.H < 0 {
		s.H = 0
	}
	return s
}

// Deflate shrinks c by inset pixels on every side.
func (c Constraints) Deflate(inset int) Constraints {
	if c.MaxW != Unbounded {
		c.MaxW = max(0, c.MaxW-2*inset)
	}
	if c.MaxH != Unbounded {
		c.MaxH = max(0, c.MaxH-2*inset)
	}
	return c
}

// View is a renderable component.
type View interface {
	// Measure returns the size the view wants under c.
	Measure(env *Env, c Constraints) Size

	// Draw renders the view into bounds.
	Draw(dc *gg.Context, env *Env, bounds Rect)
}

// Parent is implemented by views with children.
type Parent interface {
	View

	// Children returns the direct children in draw order.
	Children() []View

	// Arrange returns one rectangle per child, in Children order.
	Arrange(env *Env, bounds Rect) []Rect
}

// Identified is implemented by views that carry an id.
type Identified interface {
	ViewID() string
}

// Describer fills accessibility attributes of a node.
type Describer interface {
	Describe(env *Env, n *Node)
}

// Palette is the set of theme colors views draw with.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	OnSurface  color.NRGBA
	Primary    color.NRGBA
	OnPrimary  color.NRGBA
	StatusBar  color.NRGBA
	NavBar     color.NRGBA
}

// Fonts resolves font faces.
type Fonts interface {
	Face(family string, size float64) (text.Face, error)
}

// Services resolves named host services.
type Services interface {
	Service(name string) (any, bool)
}

// Scheduler posts callbacks onto the frame timeline.
type Scheduler interface {
	Post(fn func(frameNanos int64))
}

// Animations records when an animation first observed the timeline.
// Start returns the recorded start instant for key, recording now on the
// first call.
type Animations interface {
	Start(key any, now int64) int64
}

// Env carries host state into Measure and Draw.
type Env struct {
	// Density is the pixel-per-dp ratio.
	Density float64

	// FontScale multiplies text sizes.
	FontScale float64

	Palette   Palette
	Direction di.Direction

	// Now is the virtual time of the frame being rendered, in nanoseconds.
	Now int64

	// Origin is the virtual time the current capture sequence started at.
	// Time-driven views count from it; zero means Now.
	Origin int64

	EditMode bool

	Fonts      Fonts
	Services   Services
	Scheduler  Scheduler
	Animations Animations

	// Lifecycle is nil when the host has no lifecycle-owner concept.
	Lifecycle *LifecycleOwner
}

// origin returns Origin, or Now when Origin is unset or in the future.
func (e *Env) origin() int64 {
	if e.Origin == 0 || e.Origin > e.Now {
		return e.Now
	}
	return e.Origin
}

// Dp converts density-independent pixels to whole pixels.
func (e *Env) Dp(v float64) int {
	d := e.Density
	if d <= 0 {
		d = 1
	}
	return int(math.Round(v * d))
}

// Sp converts scale-independent pixels to a point size.
func (e *Env) Sp(v float64) float64 {
	d, s := e.Density, e.FontScale
	if d <= 0 {
		d = 1
	}
	if s <= 0 {
		s = 1
	}
	return v * d * s
}

// RTL reports whether layout runs right to left.
func (e *Env) RTL() bool {
	return e.Direction == di.DirectionRTL
}

// face resolves a face or returns nil when fonts are unavailable.
func (e *Env) face(family string, size float64) text.Face {
	if e.Fonts == nil {
		return nil
	}
	f, err := e.Fonts.Face(family, size)
	if err != nil {
		return nil
	}
	return f
}

// DrawTree draws root into bounds. It is what backends call once per frame.
func DrawTree(dc *gg.Context, env *Env, root View, bounds Rect) {
	if root == nil {
		return
	}
	root.Draw(dc, env, bounds)
}

// drawChildren draws p's children into their arranged rectangles.
func drawChildren(dc *gg.Context, env *Env, p Parent, bounds Rect) {
	children := p.Children()
	rects := p.Arrange(env, bounds)
	for i, child := range children {
		if i >= len(rects) || child == nil {
			continue
		}
		child.Draw(dc, env, rects[i])
	}
}

// rectF converts r to float coordinates for gg.
func rectF(r Rect) (x, y, w, h float64) {
	return float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())
}

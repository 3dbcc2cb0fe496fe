package view

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/gg"
)

// RootID is the fixed id of the synthetic root container every attached
// view hangs under.
const RootID = "ggsnap_root"

// SizePolicy is how the root sizes one axis.
type SizePolicy int

const (
	// MatchParent fills the surface.
	MatchParent SizePolicy = iota

	// WrapContent sizes to the attached content.
	WrapContent
)

func (p SizePolicy) String() string {
	if p == WrapContent {
		return "wrap_content"
	}
	return "match_parent"
}

// MarshalText implements encoding.TextMarshaler.
func (p SizePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SizePolicy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "match_parent":
		*p = MatchParent
	case "wrap_content":
		*p = WrapContent
	default:
		return fmt.Errorf("view: unknown size policy %q", b)
	}
	return nil
}

// Root is the container views are attached to. Children are stacked at the
// leading top corner.
type Root struct {
	// Composable roots host compositions; plain roots host view trees.
	Composable bool

	Width, Height SizePolicy

	children []View
}

// NewRoot returns an empty root.
func NewRoot(composable bool, width, height SizePolicy) *Root {
	return &Root{Composable: composable, Width: width, Height: height}
}

// ViewID implements Identified.
func (r *Root) ViewID() string { return RootID }

// Add attaches v.
func (r *Root) Add(v View) {
	r.children = append(r.children, v)
	MountTree(v)
}

// Remove detaches v and reports whether it was attached.
func (r *Root) Remove(v View) bool {
	i := slices.Index(r.children, v)
	if i < 0 {
		return false
	}
	r.children = slices.Delete(r.children, i, i+1)
	UnmountTree(v)
	return true
}

// Len returns the number of attached children.
func (r *Root) Len() int { return len(r.children) }

// Children implements Parent.
func (r *Root) Children() []View { return r.children }

// Measure implements View.
func (r *Root) Measure(env *Env, c Constraints) Size {
	var content Size
	for _, child := range r.children {
		m := child.Measure(env, c)
		content.W = max(content.W, m.W)
		content.H = max(content.H, m.H)
	}
	s := content
	if r.Width == MatchParent && c.MaxW != Unbounded {
		s.W = c.MaxW
	}
	if r.Height == MatchParent && c.MaxH != Unbounded {
		s.H = c.MaxH
	}
	return c.Constrain(s)
}

// Arrange implements Parent.
func (r *Root) Arrange(env *Env, bounds Rect) []Rect {
	rects := make([]Rect, len(r.children))
	c := Tight(bounds)
	for i, child := range r.children {
		m := child.Measure(env, c)
		x := bounds.Min.X
		if env.RTL() {
			x = bounds.Max.X - m.W
		}
		rects[i] = image.Rect(x, bounds.Min.Y, x+m.W, bounds.Min.Y+m.H)
	}
	return rects
}

// Draw implements View.
func (r *Root) Draw(dc *gg.Context, env *Env, bounds Rect) {
	drawChildren(dc, env, r, bounds)
}

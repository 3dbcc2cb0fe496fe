package view

import (
	"fmt"
	"image/color"
)

// Node is the inspection record of one laid-out view.
type Node struct {
	// ID is empty when the view carries none.
	ID string

	// Kind is the view's type name.
	Kind string

	Bounds Rect

	// Label is the visible text or content description.
	Label string

	Clickable bool

	// Foreground is the text color, nil for non-text views.
	Foreground color.Color

	// Background is the nearest opaque fill behind the view.
	Background color.Color

	// TextSize is in sp, zero for non-text views.
	TextSize float64

	// Depth is the distance from the inspected root.
	Depth int
}

// Inspect flattens root, laid out in bounds, into nodes in draw order.
func Inspect(env *Env, root View, bounds Rect) []Node {
	var nodes []Node
	walk(env, root, bounds, 0, env.Palette.Background, &nodes)
	return nodes
}

func walk(env *Env, v View, bounds Rect, depth int, bg color.Color, out *[]Node) {
	if v == nil {
		return
	}
	n := Node{
		Kind:       fmt.Sprintf("%T", v),
		Bounds:     bounds,
		Background: bg,
		Depth:      depth,
	}
	if id, ok := v.(Identified); ok {
		n.ID = id.ViewID()
	}
	if d, ok := v.(Describer); ok {
		d.Describe(env, &n)
	}
	if n.Background == nil {
		n.Background = bg
	}
	*out = append(*out, n)

	p, ok := v.(Parent)
	if !ok {
		return
	}
	children := p.Children()
	rects := p.Arrange(env, bounds)
	for i, child := range children {
		if i < len(rects) {
			walk(env, child, rects[i], depth+1, n.Background, out)
		}
	}
}

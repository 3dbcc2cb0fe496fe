package view

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Box fills a (rounded) rectangle and optionally hosts one child.
// Zero Width or Height sizes that axis to the child plus padding, or fills
// the available space when there is no child.
type Box struct {
	ID string

	// Color defaults to the palette surface color.
	Color color.Color

	// Width, Height, Radius and Padding are in dp.
	Width, Height float64
	Radius        float64
	Padding       float64

	Child View

	// Clickable boxes are checked for touch target size.
	Clickable bool

	// Label is the content description read by assistive technology.
	Label string
}

// ViewID implements Identified.
func (b *Box) ViewID() string { return b.ID }

// Measure implements View.
func (b *Box) Measure(env *Env, c Constraints) Size {
	pad := env.Dp(b.Padding)
	var child Size
	if b.Child != nil {
		child = b.Child.Measure(env, c.Deflate(pad))
	}
	s := Size{W: env.Dp(b.Width), H: env.Dp(b.Height)}
	if b.Width == 0 {
		if b.Child != nil {
			s.W = child.W + 2*pad
		} else if c.MaxW != Unbounded {
			s.W = c.MaxW
		}
	}
	if b.Height == 0 {
		if b.Child != nil {
			s.H = child.H + 2*pad
		} else if c.MaxH != Unbounded {
			s.H = c.MaxH
		}
	}
	return c.Constrain(s)
}

// Draw implements View.
func (b *Box) Draw(dc *gg.Context, env *Env, bounds Rect) {
	dc.SetColor(b.fill(env))
	x, y, w, h := rectF(bounds)
	if r := env.Dp(b.Radius); r > 0 {
		dc.DrawRoundedRectangle(x, y, w, h, float64(r))
	} else {
		dc.DrawRectangle(x, y, w, h)
	}
	_ = dc.Fill()
	drawChildren(dc, env, b, bounds)
}

func (b *Box) fill(env *Env) color.Color {
	if b.Color != nil {
		return b.Color
	}
	return env.Palette.Surface
}

// Children implements Parent.
func (b *Box) Children() []View {
	if b.Child == nil {
		return nil
	}
	return []View{b.Child}
}

// Arrange implements Parent.
func (b *Box) Arrange(env *Env, bounds Rect) []Rect {
	if b.Child == nil {
		return nil
	}
	pad := env.Dp(b.Padding)
	return []Rect{bounds.Inset(pad)}
}

// Describe implements Describer.
func (b *Box) Describe(env *Env, n *Node) {
	n.Clickable = b.Clickable
	n.Label = b.Label
	if fill := b.fill(env); opaque(fill) {
		n.Background = fill
	}
}

func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0xffff
}

// Label draws a single line of text.
type Label struct {
	ID   string
	Text string

	// Size is in sp; zero means 14sp.
	Size float64

	// Family selects the font family; empty is the default family.
	Family string

	// Color defaults to the palette on-surface color.
	Color color.Color
}

// ViewID implements Identified.
func (l *Label) ViewID() string { return l.ID }

func (l *Label) faceFor(env *Env) text.Face {
	size := l.Size
	if size == 0 {
		size = 14
	}
	return env.face(l.Family, env.Sp(size))
}

// Measure implements View.
func (l *Label) Measure(env *Env, c Constraints) Size {
	face := l.faceFor(env)
	if face == nil {
		return Size{}
	}
	w, h := text.Measure(l.Text, face)
	return c.Constrain(Size{W: int(math.Ceil(w)), H: int(math.Ceil(h))})
}

// Draw implements View.
func (l *Label) Draw(dc *gg.Context, env *Env, bounds Rect) {
	face := l.faceFor(env)
	if face == nil {
		return
	}
	dc.SetFont(face)
	dc.SetColor(l.textColor(env))
	if env.RTL() {
		dc.DrawStringAnchored(l.Text, float64(bounds.Max.X), float64(bounds.Min.Y), 1, 1)
		return
	}
	dc.DrawStringAnchored(l.Text, float64(bounds.Min.X), float64(bounds.Min.Y), 0, 1)
}

func (l *Label) textColor(env *Env) color.Color {
	if l.Color != nil {
		return l.Color
	}
	return env.Palette.OnSurface
}

// Describe implements Describer.
func (l *Label) Describe(env *Env, n *Node) {
	n.Label = l.Text
	n.Foreground = l.textColor(env)
	size := l.Size
	if size == 0 {
		size = 14
	}
	n.TextSize = size
}

// Column stacks children vertically. In right-to-left layouts children are
// aligned to the trailing edge.
type Column struct {
	ID string

	// Spacing between children, in dp.
	Spacing float64

	Items []View
}

// ViewID implements Identified.
func (col *Column) ViewID() string { return col.ID }

// Measure implements View.
func (col *Column) Measure(env *Env, c Constraints) Size {
	gap := env.Dp(col.Spacing)
	var s Size
	for i, item := range col.Items {
		m := item.Measure(env, c)
		s.W = max(s.W, m.W)
		s.H += m.H
		if i > 0 {
			s.H += gap
		}
	}
	return c.Constrain(s)
}

// Draw implements View.
func (col *Column) Draw(dc *gg.Context, env *Env, bounds Rect) {
	drawChildren(dc, env, col, bounds)
}

// Children implements Parent.
func (col *Column) Children() []View { return col.Items }

// Arrange implements Parent.
func (col *Column) Arrange(env *Env, bounds Rect) []Rect {
	gap := env.Dp(col.Spacing)
	rects := make([]Rect, len(col.Items))
	y := bounds.Min.Y
	c := Constraints{MaxW: bounds.Dx(), MaxH: Unbounded}
	for i, item := range col.Items {
		m := item.Measure(env, c)
		x := bounds.Min.X
		if env.RTL() {
			x = bounds.Max.X - m.W
		}
		rects[i] = image.Rect(x, y, x+m.W, y+m.H)
		y += m.H + gap
	}
	return rects
}

// Spinner is an indeterminate progress arc. Its sweep position is a pure
// function of the time since the origin of the capture sequence it was first
// drawn in, so a frame captured at offset T shows the arc T into its turn.
type Spinner struct {
	ID string

	// Size is the diameter in dp; zero means 48dp.
	Size float64

	// Period of one revolution; zero means one second.
	Period time.Duration

	Color color.Color
}

// ViewID implements Identified.
func (s *Spinner) ViewID() string { return s.ID }

func (s *Spinner) diameter(env *Env) int {
	d := s.Size
	if d == 0 {
		d = 48
	}
	return env.Dp(d)
}

// Measure implements View.
func (s *Spinner) Measure(env *Env, c Constraints) Size {
	d := s.diameter(env)
	return c.Constrain(Size{W: d, H: d})
}

// Angle returns the arc start angle after elapsed nanoseconds.
func (s *Spinner) Angle(elapsed int64) float64 {
	period := s.Period
	if period <= 0 {
		period = time.Second
	}
	phase := float64(elapsed%int64(period)) / float64(period)
	return phase * 2 * math.Pi
}

func (s *Spinner) elapsed(env *Env) int64 {
	if env.Animations == nil {
		return 0
	}
	return max(0, env.Now-env.Animations.Start(s, env.origin()))
}

// Draw implements View.
func (s *Spinner) Draw(dc *gg.Context, env *Env, bounds Rect) {
	d := float64(min(bounds.Dx(), bounds.Dy()))
	stroke := math.Max(1, d/10)
	r := d/2 - stroke/2
	cx := float64(bounds.Min.X) + float64(bounds.Dx())/2
	cy := float64(bounds.Min.Y) + float64(bounds.Dy())/2

	col := s.Color
	if col == nil {
		col = env.Palette.Primary
	}
	start := s.Angle(s.elapsed(env))
	dc.SetColor(col)
	dc.SetLineWidth(stroke)
	dc.NewSubPath()
	dc.DrawArc(cx, cy, r, start, start+1.5*math.Pi)
	_ = dc.Stroke()
}

// Progress is a determinate bar that fills over Duration, starting at the
// origin of the capture sequence it is first drawn in. Its start instant
// lives in the host's animation handler, so resetting the handler restarts
// the bar.
type Progress struct {
	ID string

	// Duration of the fill; zero means one second.
	Duration time.Duration

	// Height in dp; zero means 4dp.
	Height float64

	Color color.Color
}

// ViewID implements Identified.
func (p *Progress) ViewID() string { return p.ID }

// Measure implements View.
func (p *Progress) Measure(env *Env, c Constraints) Size {
	h := p.Height
	if h == 0 {
		h = 4
	}
	w := c.MaxW
	if w == Unbounded {
		w = env.Dp(160)
	}
	return c.Constrain(Size{W: w, H: env.Dp(h)})
}

// Fraction returns the filled fraction at env.Now.
func (p *Progress) Fraction(env *Env) float64 {
	if env.Animations == nil {
		return 0
	}
	start := env.Animations.Start(p, env.origin())
	d := p.Duration
	if d <= 0 {
		d = time.Second
	}
	f := float64(env.Now-start) / float64(d)
	return math.Max(0, math.Min(1, f))
}

// Draw implements View.
func (p *Progress) Draw(dc *gg.Context, env *Env, bounds Rect) {
	x, y, w, h := rectF(bounds)
	dc.SetColor(env.Palette.Surface)
	dc.DrawRectangle(x, y, w, h)
	_ = dc.Fill()

	fw := w * p.Fraction(env)
	if fw <= 0 {
		return
	}
	col := p.Color
	if col == nil {
		col = env.Palette.Primary
	}
	dc.SetColor(col)
	if env.RTL() {
		dc.DrawRectangle(x+w-fw, y, fw, h)
	} else {
		dc.DrawRectangle(x, y, fw, h)
	}
	_ = dc.Fill()
}

package backend

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggsnap/capability"
	"github.com/gogpu/ggsnap/view"
)

// BackendSoftware is the name of the CPU-based software backend.
const BackendSoftware = "software"

// System UI bar heights in dp.
const (
	StatusBarHeight = 24
	NavBarHeight    = 48
)

// SoftwareBackend renders sessions with gg's CPU rasterizer. Every frame is
// drawn into a fresh gg.Context, so output depends only on the session
// parameters, the attached views and the host clock.
type SoftwareBackend struct{}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() RenderBackend {
		return &SoftwareBackend{}
	})
}

// NewSoftwareBackend creates a new software rendering backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// NewSession validates params and returns an uninitialized session.
func (b *SoftwareBackend) NewSession(params SessionParams) (Session, error) {
	if err := params.Device.Validate(); err != nil {
		return nil, err
	}
	palette, err := ResolvePalette(params.Theme, params.Device.NightMode)
	if err != nil {
		return nil, err
	}
	host := params.Host
	if host == nil {
		host = DefaultHost()
	}
	log := params.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &softwareSession{
		params:  params,
		host:    host,
		palette: palette,
		log:     log.With("session", params.ID.String()),
		anims:   newAnimationTable(),
	}, nil
}

type softwareSession struct {
	params  SessionParams
	host    *Host
	palette view.Palette
	log     *slog.Logger
	anims   *animationTable

	root      *view.Root
	lifecycle *view.LifecycleOwner
	image     image.Image
	nodes     []view.Node
	frames    int

	inflated bool
	disposed bool
}

// Init parses the root document and inflates the root container.
func (s *softwareSession) Init() Result {
	if s.disposed {
		return failure(StatusErrorInflation, ErrDisposed)
	}
	doc, err := ParseRootDocument(s.params.Document)
	if err != nil {
		s.log.Error("inflate failed", "err", err)
		return failure(StatusErrorInflation, err)
	}
	s.root = doc.inflate()
	s.inflated = true
	s.log.Debug("session inflated",
		"device", s.params.Device.Name,
		"mode", s.params.Mode.String(),
		"root", doc.Kind)

	if !s.params.FirstFrameExecuted {
		// Warm-up pass; the first frame of a fresh engine lays out twice.
		if r := s.Render(); !r.OK() {
			return failure(StatusErrorInflation, r.Err)
		}
		s.image, s.nodes = nil, nil
	}
	return success()
}

// Render draws one frame at the host clock's current time.
func (s *softwareSession) Render() Result {
	switch {
	case s.disposed:
		return failure(StatusErrorNotInflated, ErrDisposed)
	case !s.inflated:
		return failure(StatusErrorNotInflated, ErrNotInitialized)
	}

	env := s.newEnv(s.host.Clock.Get())
	size, content, chrome := s.layout(env)

	dc := gg.NewContext(size.X, size.Y)
	defer func() { _ = dc.Close() }()

	dc.SetColor(s.palette.Background)
	dc.DrawRectangle(0, 0, float64(size.X), float64(size.Y))
	_ = dc.Fill()

	if err := s.draw(dc, env, content); err != nil {
		s.log.Error("render failed", "frame", s.frames, "err", err)
		return failure(StatusErrorUnknown, err)
	}
	if chrome {
		s.drawSystemUI(dc, env, size, content)
	}

	s.image = dc.Image()
	s.nodes = nil
	if ins := s.host.Inspector.Get(); ins != nil {
		s.nodes = ins.Inspect(env, s.root, content)
	}
	s.frames++
	return success()
}

// draw renders the root, turning a panicking view into an error.
func (s *softwareSession) draw(dc *gg.Context, env *view.Env, bounds view.Rect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend: view panicked: %v", r)
		}
	}()
	view.DrawTree(dc, env, s.root, bounds)
	return nil
}

// sequenceClock is a time source that knows how far into the current
// capture sequence it is.
type sequenceClock interface {
	Elapsed() int64
}

func (s *softwareSession) newEnv(clock capability.Clock) *view.Env {
	now := clock.NanoTime()
	origin := now
	if sc, ok := clock.(sequenceClock); ok {
		origin = now - sc.Elapsed()
	}
	d := s.params.Device
	env := &view.Env{
		Density:    d.Scale(),
		FontScale:  d.EffectiveFontScale(),
		Palette:    s.palette,
		Direction:  s.params.Direction,
		Now:        now,
		Origin:     origin,
		Scheduler:  s.params.Scheduler,
		Animations: s.anims,
		Lifecycle:  s.lifecycle,
	}
	if edit := s.host.EditMode.Get(); edit != nil {
		env.EditMode = edit()
	}
	if f := s.host.Fonts.Get(); f != nil {
		env.Fonts = f
	}
	if svc := s.host.Services.Get(); svc != nil {
		env.Services = svc
	}
	return env
}

// layout sizes the surface for the rendering mode. It returns the surface
// size, the content rectangle and whether system UI is drawn.
func (s *softwareSession) layout(env *view.Env) (image.Point, view.Rect, bool) {
	sw, sh := s.params.Device.Size()
	mode := s.params.Mode

	chrome := s.params.ShowSystemUI && !mode.IsShrink()
	top, bottom := 0, 0
	if chrome {
		top, bottom = env.Dp(StatusBarHeight), env.Dp(NavBarHeight)
	}
	availW, availH := sw, max(0, sh-top-bottom)

	c := view.Constraints{MaxW: availW, MaxH: availH}
	if mode.Horizontal == SizeExpand {
		c.MaxW = view.Unbounded
	}
	if mode.Vertical == SizeExpand {
		c.MaxH = view.Unbounded
	}
	m := s.root.Measure(env, c)

	w := resolveAxis(mode.Horizontal, availW, m.W)
	h := resolveAxis(mode.Vertical, availH, m.H)
	return image.Pt(w, top+h+bottom), image.Rect(0, top, w, top+h), chrome
}

func resolveAxis(a SizeAction, screen, content int) int {
	switch a {
	case SizeExpand:
		return max(screen, content, 1)
	case SizeShrink:
		return max(min(screen, content), 1)
	default:
		return max(screen, 1)
	}
}

// drawSystemUI paints the status and navigation bars. Icon positions are
// laid out left to right and mirrored through the matrix capability for
// right-to-left layouts.
func (s *softwareSession) drawSystemUI(dc *gg.Context, env *view.Env, size image.Point, content view.Rect) {
	w := float64(size.X)
	top := float64(content.Min.Y)
	bottom := float64(content.Max.Y)
	navH := float64(size.Y) - bottom

	dc.SetColor(s.palette.StatusBar)
	dc.DrawRectangle(0, 0, w, top)
	_ = dc.Fill()
	dc.SetColor(s.palette.NavBar)
	dc.DrawRectangle(0, bottom, w, navH)
	_ = dc.Fill()

	mx := s.host.Matrix.Get()
	if mx == nil {
		mx = capability.GGMatrix{}
	}
	place := gg.Identity()
	if env.RTL() {
		place = mx.Multiply(gg.Translate(w, 0), gg.Scale(-1, 1))
	}
	at := func(x, y float64) gg.Point { return mx.Apply(place, gg.Pt(x, y)) }

	dc.SetColor(s.palette.OnPrimary)
	unit := float64(env.Dp(1))

	// Battery at the trailing edge of the status bar.
	bw, bh := 16*unit, top/2
	p0 := at(w-8*unit-bw, top/4)
	p1 := at(w-8*unit, top/4)
	dc.DrawRectangle(min(p0.X, p1.X), p0.Y, bw, bh)
	_ = dc.Fill()

	// Back, home and recents, spread across the navigation bar.
	cy := bottom + navH/2
	r := navH / 5
	back := at(w/4, cy)
	dc.MoveTo(back.X-r*sign(env), back.Y)
	dc.LineTo(back.X+r*sign(env), back.Y-r)
	dc.LineTo(back.X+r*sign(env), back.Y+r)
	dc.ClosePath()
	_ = dc.Fill()

	home := at(w/2, cy)
	dc.DrawCircle(home.X, home.Y, r)
	_ = dc.Fill()

	recents := at(3*w/4, cy)
	dc.DrawRectangle(recents.X-r, recents.Y-r, 2*r, 2*r)
	_ = dc.Fill()
}

// sign is the horizontal direction of "forward".
func sign(env *view.Env) float64 {
	if env.RTL() {
		return -1
	}
	return 1
}

// Image returns the last rendered frame.
func (s *softwareSession) Image() image.Image { return s.image }

// Root returns the root container, nil before Init.
func (s *softwareSession) Root() *view.Root { return s.root }

// Nodes returns the inspection of the last frame.
func (s *softwareSession) Nodes() []view.Node { return s.nodes }

// SupportsLifecycle is always true for the software backend.
func (s *softwareSession) SupportsLifecycle() bool { return true }

// SetLifecycleOwner implements Session.
func (s *softwareSession) SetLifecycleOwner(o *view.LifecycleOwner) { s.lifecycle = o }

// ResetAnimations forgets recorded animation starts.
func (s *softwareSession) ResetAnimations() { s.anims.reset() }

// Dispose detaches everything and drops the last frame.
func (s *softwareSession) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.root != nil {
		for _, child := range append([]view.View(nil), s.root.Children()...) {
			s.root.Remove(child)
		}
	}
	s.anims.reset()
	s.image, s.nodes, s.lifecycle = nil, nil, nil
	s.log.Debug("session disposed", "frames", s.frames)
}

package backend

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/gogpu/gg"

	"github.com/gogpu/ggsnap/capability"
	"github.com/gogpu/ggsnap/device"
	"github.com/gogpu/ggsnap/view"
)

var testDevice = device.Profile{Name: "test", ScreenWidth: 100, ScreenHeight: 200, Density: 160}

var red = color.NRGBA{R: 0xff, A: 0xff}

type fixedClock struct{ now int64 }

func (c *fixedClock) NanoTime() int64          { return c.now }
func (c *fixedClock) CurrentTimeMillis() int64 { return c.now / 1e6 }

type panicView struct{}

func (panicView) Measure(*view.Env, view.Constraints) view.Size { return view.Size{W: 1, H: 1} }
func (panicView) Draw(*gg.Context, *view.Env, view.Rect)        { panic("boom") }

type envRecorder struct{ env *view.Env }

func (r *envRecorder) Measure(*view.Env, view.Constraints) view.Size { return view.Size{} }
func (r *envRecorder) Draw(_ *gg.Context, env *view.Env, _ view.Rect) { r.env = env }

type sessionOpts struct {
	mode     RenderingMode
	systemUI bool
	dir      di.Direction
	theme    string
}

func newTestSession(t *testing.T, o sessionOpts) (*softwareSession, *Host, *fixedClock) {
	t.Helper()
	host := NewHost()
	clk := &fixedClock{now: 42}
	if err := host.Clock.Hook().Install(clk); err != nil {
		t.Fatalf("install clock: %v", err)
	}
	if err := host.Inspector.Hook().Install(capability.InspectorFunc(view.Inspect)); err != nil {
		t.Fatalf("install inspector: %v", err)
	}
	doc, err := NewRootDocument(false, o.mode).Markup()
	if err != nil {
		t.Fatalf("Markup() error = %v", err)
	}
	s, err := NewSoftwareBackend().NewSession(SessionParams{
		Device:             testDevice,
		Theme:              o.theme,
		Mode:               o.mode,
		Document:           doc,
		Direction:          o.dir,
		ShowSystemUI:       o.systemUI,
		FirstFrameExecuted: true,
		Host:               host,
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(s.Dispose)
	if r := s.Init(); !r.OK() {
		t.Fatalf("Init() = %v, %v", r.Status, r.Err)
	}
	return s.(*softwareSession), host, clk
}

func render(t *testing.T, s Session) {
	t.Helper()
	if r := s.Render(); !r.OK() {
		t.Fatalf("Render() = %v, %v", r.Status, r.Err)
	}
}

func assertPixel(t *testing.T, s Session, x, y int, want color.Color) {
	t.Helper()
	got := color.RGBA64Model.Convert(s.Image().At(x, y))
	if got != color.RGBA64Model.Convert(want) {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, s.Image().At(x, y), want)
	}
}

func TestSoftwareBackendName(t *testing.T) {
	b := NewSoftwareBackend()
	if b.Name() != "software" {
		t.Errorf("Name() = %q, want %q", b.Name(), "software")
	}
}

func TestSoftwareSessionNormal(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{})
	s.Root().Add(&view.Box{Color: red, Width: 10, Height: 10})
	render(t, s)

	if b := s.Image().Bounds(); b.Dx() != 100 || b.Dy() != 200 {
		t.Fatalf("image size = %v, want 100x200", b)
	}
	assertPixel(t, s, 5, 5, red)
	assertPixel(t, s, 50, 50, themes[ThemeLight].Background)
}

func TestSoftwareSessionModes(t *testing.T) {
	tests := []struct {
		name         string
		mode         RenderingMode
		content      *view.Box
		wantW, wantH int
	}{
		{"shrink", Shrink, &view.Box{Width: 10, Height: 20}, 10, 20},
		{"shrink larger than screen", Shrink, &view.Box{Width: 300, Height: 300}, 100, 200},
		{"v scroll", VScroll, &view.Box{Width: 10, Height: 500}, 100, 500},
		{"h scroll", HScroll, &view.Box{Width: 250, Height: 10}, 250, 200},
		{"full expand small content", FullExpand, &view.Box{Width: 10, Height: 10}, 100, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t, sessionOpts{mode: tt.mode})
			s.Root().Add(tt.content)
			render(t, s)
			if b := s.Image().Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("image size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSoftwareSessionSystemUI(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{systemUI: true})
	s.Root().Add(&view.Box{Color: red, Width: 10, Height: 10})
	render(t, s)

	p := themes[ThemeLight]
	assertPixel(t, s, 40, 5, p.StatusBar)
	assertPixel(t, s, 5, StatusBarHeight+5, red)
	assertPixel(t, s, 5, 200-NavBarHeight+2, p.NavBar)
	// Battery at the trailing edge.
	assertPixel(t, s, 84, 12, p.OnPrimary)
	assertPixel(t, s, 16, 12, p.StatusBar)
}

func TestSoftwareSessionRTL(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{systemUI: true, dir: di.DirectionRTL})
	s.Root().Add(&view.Box{Color: red, Width: 10, Height: 10})
	render(t, s)

	p := themes[ThemeLight]
	assertPixel(t, s, 95, StatusBarHeight+5, red)
	assertPixel(t, s, 5, StatusBarHeight+5, p.Background)
	assertPixel(t, s, 16, 12, p.OnPrimary)
	assertPixel(t, s, 84, 12, p.StatusBar)
}

func TestSoftwareSessionShrinkHidesSystemUI(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{mode: Shrink, systemUI: true})
	s.Root().Add(&view.Box{Color: red, Width: 10, Height: 10})
	render(t, s)
	if b := s.Image().Bounds(); b.Dy() != 10 {
		t.Errorf("height = %d, want 10", b.Dy())
	}
	assertPixel(t, s, 5, 5, red)
}

func TestSoftwareSessionDarkTheme(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{theme: ThemeDark})
	render(t, s)
	assertPixel(t, s, 50, 50, themes[ThemeDark].Background)
}

func TestSoftwareSessionEnv(t *testing.T) {
	s, host, clk := newTestSession(t, sessionOpts{})
	rec := &envRecorder{}
	s.Root().Add(rec)

	render(t, s)
	if rec.env.Now != 42 {
		t.Errorf("Now = %d, want 42", rec.env.Now)
	}
	if !rec.env.EditMode {
		t.Error("edit mode should default to on")
	}

	clk.now = 99
	if err := host.EditMode.Hook().Install(capability.EditModeFunc(func() bool { return false })); err != nil {
		t.Fatal(err)
	}
	owner := view.NewLifecycleOwner()
	s.SetLifecycleOwner(owner)
	render(t, s)
	if rec.env.Now != 99 || rec.env.EditMode || rec.env.Lifecycle != owner {
		t.Errorf("env = %+v", rec.env)
	}
	if rec.env.Animations == nil || rec.env.Density != 1 {
		t.Errorf("env = %+v", rec.env)
	}
}

// seqClock also reports how far into its capture sequence it is.
type seqClock struct {
	fixedClock
	elapsed int64
}

func (c *seqClock) Elapsed() int64 { return c.elapsed }

func TestSoftwareSessionEnvOrigin(t *testing.T) {
	s, host, _ := newTestSession(t, sessionOpts{})
	rec := &envRecorder{}
	s.Root().Add(rec)

	render(t, s)
	if rec.env.Origin != rec.env.Now {
		t.Errorf("Origin = %d, want Now (%d) for a clock without sequences", rec.env.Origin, rec.env.Now)
	}

	clk := &seqClock{fixedClock: fixedClock{now: 1000}, elapsed: 300}
	if err := host.Clock.Hook().Install(capability.Clock(clk)); err != nil {
		t.Fatal(err)
	}
	render(t, s)
	if rec.env.Now != 1000 || rec.env.Origin != 700 {
		t.Errorf("Now, Origin = %d, %d, want 1000, 700", rec.env.Now, rec.env.Origin)
	}
}

func TestSoftwareSessionNodes(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{})
	s.Root().Add(&view.Box{ID: "tile", Width: 10, Height: 10, Clickable: true})
	render(t, s)

	nodes := s.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].ID != view.RootID || nodes[1].ID != "tile" || !nodes[1].Clickable {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestSoftwareSessionRenderErrors(t *testing.T) {
	doc, _ := NewRootDocument(false, Normal).Markup()
	raw, err := NewSoftwareBackend().NewSession(SessionParams{Device: testDevice, Document: doc, Host: NewHost()})
	if err != nil {
		t.Fatal(err)
	}
	r := raw.Render()
	if r.Status != StatusErrorNotInflated || !errors.Is(r.Err, ErrNotInitialized) {
		t.Errorf("Render() before Init = %v, %v", r.Status, r.Err)
	}

	s, _, _ := newTestSession(t, sessionOpts{})
	s.Root().Add(panicView{})
	r = s.Render()
	if r.Status != StatusErrorUnknown || r.Err == nil {
		t.Errorf("Render() with panicking view = %v, %v", r.Status, r.Err)
	}
}

func TestSoftwareSessionDispose(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{})
	s.Root().Add(&view.Box{})
	render(t, s)
	s.anims.Start("x", 1)

	s.Dispose()
	s.Dispose()
	if s.Root().Len() != 0 || s.Image() != nil || s.anims.len() != 0 {
		t.Error("Dispose left state behind")
	}
	if r := s.Render(); !errors.Is(r.Err, ErrDisposed) {
		t.Errorf("Render() after Dispose = %v", r.Err)
	}
	if r := s.Init(); !errors.Is(r.Err, ErrDisposed) {
		t.Errorf("Init() after Dispose = %v", r.Err)
	}
}

func TestSoftwareSessionWarmUp(t *testing.T) {
	doc, _ := NewRootDocument(true, Normal).Markup()
	s, err := NewSoftwareBackend().NewSession(SessionParams{Device: testDevice, Document: doc, Host: NewHost()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Dispose()
	if r := s.Init(); !r.OK() {
		t.Fatalf("Init() = %v", r.Err)
	}
	ss := s.(*softwareSession)
	if ss.frames != 1 || s.Image() != nil {
		t.Errorf("warm-up: frames = %d, image = %v", ss.frames, s.Image())
	}
	if !s.Root().Composable {
		t.Error("compose document inflated a plain root")
	}
}

func TestSoftwareSessionResetAnimations(t *testing.T) {
	s, _, _ := newTestSession(t, sessionOpts{})
	if got := s.anims.Start("bar", 10); got != 10 {
		t.Fatalf("Start = %d", got)
	}
	if got := s.anims.Start("bar", 20); got != 10 {
		t.Errorf("second Start = %d, want 10", got)
	}
	s.ResetAnimations()
	if got := s.anims.Start("bar", 20); got != 20 {
		t.Errorf("Start after reset = %d, want 20", got)
	}
}

func TestNewSessionValidates(t *testing.T) {
	b := NewSoftwareBackend()
	if _, err := b.NewSession(SessionParams{Device: device.Profile{Name: "bad"}}); err == nil {
		t.Error("invalid device accepted")
	}
	if _, err := b.NewSession(SessionParams{Device: testDevice, Theme: "sepia"}); err == nil {
		t.Error("unknown theme accepted")
	}
	doc := []byte(`<root id="elsewhere" kind="container" width="match_parent" height="match_parent"></root>`)
	s, err := b.NewSession(SessionParams{Device: testDevice, Document: doc})
	if err != nil {
		t.Fatal(err)
	}
	if r := s.Init(); r.Status != StatusErrorInflation {
		t.Errorf("Init() with foreign root = %v", r.Status)
	}
}

func TestRootDocument(t *testing.T) {
	d := NewRootDocument(true, RenderingMode{Horizontal: SizeShrink, Vertical: SizeExpand})
	data, err := d.Markup()
	if err != nil {
		t.Fatal(err)
	}
	want := `<root id="ggsnap_root" kind="compose" width="wrap_content" height="match_parent"></root>`
	if string(data) != want {
		t.Errorf("Markup() = %s, want %s", data, want)
	}

	got, err := ParseRootDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Composable() || got.Width != view.WrapContent || got.Height != view.MatchParent {
		t.Errorf("ParseRootDocument() = %+v", got)
	}

	bad := [][]byte{
		[]byte(`<root`),
		[]byte(`<root id="ggsnap_root" kind="frame" width="match_parent" height="match_parent"/>`),
		[]byte(`<root id="ggsnap_root" kind="container" width="fill" height="match_parent"/>`),
	}
	for _, b := range bad {
		if _, err := ParseRootDocument(b); err == nil {
			t.Errorf("ParseRootDocument(%s) accepted", b)
		}
	}
}

func TestHostHooks(t *testing.T) {
	h := NewHost()
	for _, name := range []capability.Name{
		capability.TimeSource, capability.ViewInspection, capability.FontLookup,
		capability.EditMode, capability.MatrixMath, capability.ServiceLookup,
	} {
		if _, ok := h.Hook(name); !ok {
			t.Errorf("Hook(%s) missing", name)
		}
	}
	if _, ok := h.Hook(capability.AppCompat); ok {
		t.Error("software host should not expose app-compat")
	}

	reg := capability.NewRegistry()
	reg.Register(capability.TimeSource, &fixedClock{now: 7})
	reg.Register(capability.ViewInspection, capability.InspectorFunc(view.Inspect))
	reg.Register(capability.AppCompat, struct{}{})
	report, err := reg.InstallAll(h)
	if err != nil {
		t.Fatalf("InstallAll() error = %v", err)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != capability.AppCompat {
		t.Errorf("Skipped = %v", report.Skipped)
	}
	if h.Clock.Get().NanoTime() != 7 || !h.Clock.Substituted() {
		t.Error("clock not substituted")
	}
	if DefaultHost() != DefaultHost() {
		t.Error("DefaultHost() is not shared")
	}
}

func TestResolvePalette(t *testing.T) {
	p, err := ResolvePalette("", true)
	if err != nil || p != themes[ThemeDark] {
		t.Errorf("night mode palette = %+v, %v", p, err)
	}
	p, err = ResolvePalette("", false)
	if err != nil || p != themes[ThemeLight] {
		t.Errorf("day palette = %+v, %v", p, err)
	}
	if len(Themes()) != 2 {
		t.Errorf("Themes() = %v", Themes())
	}
}

func TestRenderingModeString(t *testing.T) {
	tests := map[RenderingMode]string{
		Normal:     "normal",
		VScroll:    "v_scroll",
		Shrink:     "shrink",
		FullExpand: "full_expand",
		{Horizontal: SizeShrink, Vertical: SizeExpand}: "shrink/expand",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("%+v.String() = %q, want %q", m, got, want)
		}
	}
	if !Normal.IsNormal() || VScroll.IsNormal() || !Shrink.IsShrink() {
		t.Error("mode predicates")
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	// Software backend is auto-registered via init()
	if !IsRegistered("software") {
		t.Error("software backend should be auto-registered")
	}

	b := Get("software")
	if b == nil {
		t.Fatal("Get(software) returned nil")
	}
	if b.Name() != "software" {
		t.Errorf("Get(software).Name() = %q, want %q", b.Name(), "software")
	}
	if Get("nonexistent") != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryDefault(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	if b := MustDefault(); b.Name() != BackendSoftware {
		t.Errorf("Default() = %q, want software", b.Name())
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-backend", func() RenderBackend { return &SoftwareBackend{} })
	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}
	found := false
	for _, name := range Available() {
		found = found || name == "test-backend"
	}
	if !found {
		t.Error("Available() should include test-backend")
	}

	Unregister("test-backend")
	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func BenchmarkSoftwareSessionRender(b *testing.B) {
	doc, _ := NewRootDocument(false, Normal).Markup()
	s, err := NewSoftwareBackend().NewSession(SessionParams{
		Device:             device.Nexus5,
		Document:           doc,
		ShowSystemUI:       true,
		FirstFrameExecuted: true,
		Host:               NewHost(),
	})
	if err != nil {
		b.Fatal(err)
	}
	defer s.Dispose()
	s.Init()
	s.Root().Add(&view.Box{Color: red, Width: 200, Height: 200, Radius: 16})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Render()
	}
}

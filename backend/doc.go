// Package backend provides the pluggable render-session abstraction that
// snapshots are drawn with.
//
// A RenderBackend turns SessionParams (device, theme, rendering mode, root
// document, layout direction) into a Session. The session owns the drawing
// surface, the root container content is attached to, and the capability
// Host whose hooks the capability registry installs into.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is automatically registered on import:
//
//	import _ "github.com/gogpu/ggsnap/backend"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b := backend.Default()
//	b := backend.Get("software")
//
// # Sessions
//
//	s, err := b.NewSession(params)
//	if err != nil {
//		return err
//	}
//	defer s.Dispose()
//
//	if r := s.Init(); !r.OK() {
//		return r.Err
//	}
//	if r := s.Render(); !r.OK() {
//		return r.Err
//	}
//	img := s.Image()
//
// # Available Backends
//
// - "software": gg's CPU rasterizer (always available)
package backend

// Package ggsnap renders gg-drawn components without a device and captures
// deterministic snapshots of them.
//
// # Overview
//
// A Manager prepares one render session at a time for a device profile,
// theme and rendering mode. Content attached to the session is captured at
// virtual instants: time never comes from the wall clock, so a frame at
// offset T is byte-identical across runs. Captured frames are masked to the
// device shape and scaled down to thumbnail size before a Handler sees them.
//
// # Quick Start
//
//	m := ggsnap.NewManager()
//	cfg := ggsnap.DefaultConfig()
//	cfg.Device = device.Pixel5
//
//	if err := m.Prepare(cfg); err != nil {
//		log.Fatal(err)
//	}
//	defer m.Dispose()
//
//	err := m.Snapshot("button", &view.Box{Width: 120, Height: 48}, handler)
//
// # Animations
//
// Animate captures a FrameSpec lazily, one frame per pull:
//
//	spec := ggsnap.FrameSpec{End: time.Second, FPS: 30} // 31 frames
//	err := m.Animate("spinner", &view.Spinner{}, spec, handler)
//
// # Capabilities
//
// Before the first session, the capability registry substitutes the time
// source, font lookup, edit mode, matrix math, service lookup and view
// inspection of the backend's host with deterministic replacements. This
// happens once per process; see package capability.
//
// # Sessions
//
// Only one session may be prepared per process. Reconfigure swaps the
// device, theme or rendering mode by rebuilding the session; views attached
// before the rebuild stop capturing. Dispose fails if the session logged an
// error at any point, even when every capture succeeded.
package ggsnap

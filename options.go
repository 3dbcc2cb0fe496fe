package ggsnap

import (
	"github.com/gogpu/ggsnap/backend"
	"github.com/gogpu/ggsnap/capability"
	"github.com/gogpu/ggsnap/vclock"
)

// Option configures a Manager during creation.
//
// Example:
//
//	// Process-wide registry, host and clock
//	m := ggsnap.NewManager()
//
//	// Isolated wiring, as tests use
//	m := ggsnap.NewManager(
//		ggsnap.WithRegistry(capability.NewRegistry()),
//		ggsnap.WithHost(backend.NewHost()),
//		ggsnap.WithClock(vclock.New()),
//	)
type Option func(*managerOptions)

// managerOptions holds optional configuration for Manager creation.
type managerOptions struct {
	backend     backend.RenderBackend
	registry    *capability.Registry
	host        *backend.Host
	clock       *vclock.Clock
	fonts       capability.FontResolver
	services    capability.ServiceMap
	composeRoot bool
}

// defaultOptions returns the default manager options.
func defaultOptions() managerOptions {
	return managerOptions{
		backend:     nil, // Will be set to backend.Default() if nil
		registry:    capability.Default(),
		host:        backend.DefaultHost(),
		clock:       vclock.Default(),
		composeRoot: true,
	}
}

// WithBackend sets the render backend sessions are built with.
func WithBackend(b backend.RenderBackend) Option {
	return func(o *managerOptions) {
		o.backend = b
	}
}

// WithRegistry sets the capability registry installed before the first
// session. Rules already registered under a name take precedence over the
// defaults.
func WithRegistry(r *capability.Registry) Option {
	return func(o *managerOptions) {
		o.registry = r
	}
}

// WithHost sets the capability host rules are installed into and sessions
// read substituted behavior from. A registry installs into one host only;
// Prepare returns capability.ErrHostMismatch for any other.
func WithHost(h *backend.Host) Option {
	return func(o *managerOptions) {
		o.host = h
	}
}

// WithClock sets the virtual clock. It must be the clock the registry's
// time-source rule installs, or Prepare fails with *ConfigError; the
// defaults pair up.
func WithClock(c *vclock.Clock) Option {
	return func(o *managerOptions) {
		o.clock = c
	}
}

// WithFonts sets the font-lookup replacement. The default serves the Go
// font family.
func WithFonts(f capability.FontResolver) Option {
	return func(o *managerOptions) {
		o.fonts = f
	}
}

// WithServices sets the services the service-lookup replacement answers.
func WithServices(s map[string]any) Option {
	return func(o *managerOptions) {
		o.services = capability.ServiceMap(s)
	}
}

// WithComposeRoot selects a composition-capable root container (the
// default) or a plain one. Composable content needs a compose root.
func WithComposeRoot(enabled bool) Option {
	return func(o *managerOptions) {
		o.composeRoot = enabled
	}
}

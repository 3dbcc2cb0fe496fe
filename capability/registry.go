package capability

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// Hook is a substitution point a host exposes for one capability.
type Hook struct {
	Name Name

	// Install swaps the host behavior for replacement. It returns a
	// *TypeMismatchError when replacement has the wrong type.
	Install func(replacement any) error
}

// Host exposes the hook table rules are installed into.
type Host interface {
	// Hook returns the hook for name, or false if the host has none.
	Hook(name Name) (Hook, bool)
}

// Rule pairs a capability with its replacement behavior.
type Rule struct {
	Name        Name
	Replacement any
}

// Report lists what an installation did.
type Report struct {
	// Installed names, in registration order.
	Installed []Name

	// Skipped optional names the host has no hook for.
	Skipped []Name
}

// Registry records capability rules and installs them once.
//
// The rule set is closed by the first InstallAll; registering afterwards
// panics, and further InstallAll calls return the first call's outcome
// without touching the host again.
type Registry struct {
	mu     sync.Mutex
	rules  []Rule
	names  map[Name]struct{}
	once   bool
	host   Host
	report Report
	err    error
}

// NewRegistry creates an empty registry.
// Most code should use the process-wide registry via Register and InstallAll.
func NewRegistry() *Registry {
	return &Registry{names: make(map[Name]struct{})}
}

// defaultRegistry is the process-wide registry.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register adds a rule to the process-wide registry.
func Register(name Name, replacement any) { defaultRegistry.Register(name, replacement) }

// InstallAll installs the process-wide registry into h.
func InstallAll(h Host) (Report, error) { return defaultRegistry.InstallAll(h) }

// IsRegistered reports whether the process-wide registry has a rule for name.
func IsRegistered(name Name) bool { return defaultRegistry.IsRegistered(name) }

// Installed reports whether the process-wide registry has been installed.
func Installed() bool { return defaultRegistry.Installed() }

// Clear resets the process-wide registry. Tests only.
func Clear() { defaultRegistry.Clear() }

// Register adds a rule for name.
//
// Register panics if:
//   - replacement is nil
//   - a rule for name is already registered
//   - the registry has already been installed
//
// These are wiring mistakes that should surface at program start rather
// than as a half-substituted host.
func (r *Registry) Register(name Name, replacement any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if replacement == nil {
		panic("capability: Register replacement is nil for " + string(name))
	}
	if r.once {
		panic("capability: Register called after InstallAll for " + string(name))
	}
	if r.names == nil {
		r.names = make(map[Name]struct{})
	}
	if _, dup := r.names[name]; dup {
		panic("capability: Register called twice for " + string(name))
	}
	r.names[name] = struct{}{}
	r.rules = append(r.rules, Rule{Name: name, Replacement: replacement})
}

// InstallAll applies every rule to h exactly once.
//
// Rules whose capability the host does not expose are skipped when the
// capability is optional and logged at debug level. A required capability
// without a hook fails the whole installation with *IntegrationRequiredError
// before any rule is applied.
//
// A registry serves one host. Once installed, calls with the same host
// return the first outcome; a failed installation stays failed for every
// host; a successful one returns ErrHostMismatch for any other host. Hosts
// are compared with ==, so they should be pointers.
func (r *Registry) InstallAll(h Host) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.once {
		if r.err == nil && h != r.host {
			return Report{}, ErrHostMismatch
		}
		return r.report, r.err
	}
	r.once = true
	r.host = h
	r.report, r.err = r.install(h)
	return r.report, r.err
}

func (r *Registry) install(h Host) (Report, error) {
	log := Logger()

	hooks := make([]Hook, len(r.rules))
	present := make([]bool, len(r.rules))
	for i, rule := range r.rules {
		hook, ok := h.Hook(rule.Name)
		if !ok && rule.Name.Required() {
			return Report{}, &IntegrationRequiredError{Name: rule.Name}
		}
		hooks[i], present[i] = hook, ok
	}

	var report Report
	for i, rule := range r.rules {
		if !present[i] {
			log.Debug("capability: integration missing, rule skipped",
				slog.String("capability", string(rule.Name)))
			report.Skipped = append(report.Skipped, rule.Name)
			continue
		}
		if err := hooks[i].Install(rule.Replacement); err != nil {
			return report, fmt.Errorf("capability: install %s: %w", rule.Name, err)
		}
		report.Installed = append(report.Installed, rule.Name)
	}
	log.Debug("capability: rules installed",
		slog.Int("installed", len(report.Installed)),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}

// Installed reports whether InstallAll has run.
func (r *Registry) Installed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.once
}

// IsRegistered reports whether a rule for name exists.
func (r *Registry) IsRegistered(name Name) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.names[name]
	return ok
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []Name {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]Name, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Clear forgets every rule and the installation outcome. It does not undo
// substitutions already applied to a host. Tests only.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = nil
	r.names = make(map[Name]struct{})
	r.once = false
	r.host = nil
	r.report = Report{}
	r.err = nil
}

// loggerPtr stores the package logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the logger used for installation diagnostics.
// Pass nil to silence it again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger { return loggerPtr.Load() }

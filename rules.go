package ggsnap

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/ggsnap/capability"
	"github.com/gogpu/ggsnap/vclock"
	"github.com/gogpu/ggsnap/view"
)

// appCompatShim is the app-compat replacement: compatibility shims are
// treated as initialized.
type appCompatShim struct{}

func (appCompatShim) Enabled() bool { return true }

// rulesMu serializes registering defaults and installing, since managers
// commonly share the process-wide registry.
var rulesMu sync.Mutex

// defaultRules returns the substitutions every session depends on.
func (m *Manager) defaultRules(cfg Config) []capability.Rule {
	fonts := m.opts.fonts
	if fonts == nil {
		fonts = defaultFonts
	}
	services := m.opts.services
	if services == nil {
		services = capability.ServiceMap{}
	}
	rules := []capability.Rule{
		{Name: capability.TimeSource, Replacement: capability.Clock(m.opts.clock)},
		{Name: capability.ViewInspection, Replacement: capability.Inspector(capability.InspectorFunc(view.Inspect))},
		{Name: capability.FontLookup, Replacement: fonts},
		{Name: capability.EditMode, Replacement: capability.EditModeFunc(func() bool { return false })},
		{Name: capability.MatrixMath, Replacement: capability.Matrix(capability.GGMatrix{})},
		{Name: capability.ServiceLookup, Replacement: capability.ServiceLocator(services)},
	}
	if cfg.AppCompat {
		rules = append(rules, capability.Rule{Name: capability.AppCompat, Replacement: capability.AppCompatShim(appCompatShim{})})
	}
	return rules
}

// installCapabilities registers the default rules not already present and
// installs the registry into the host. Only the first call per registry
// touches the host; managers sharing an installed registry must share its
// host and clock too.
func (m *Manager) installCapabilities(cfg Config) error {
	rulesMu.Lock()
	defer rulesMu.Unlock()

	reg := m.opts.registry
	if !reg.Installed() {
		for _, rule := range m.defaultRules(cfg) {
			if !reg.IsRegistered(rule.Name) {
				reg.Register(rule.Name, rule.Replacement)
			}
		}
	}
	report, err := reg.InstallAll(m.opts.host)
	if err != nil {
		return fmt.Errorf("ggsnap: install capabilities: %w", err)
	}
	// Frames are timed by the host's time source while captures advance
	// m.opts.clock; they must be the same clock.
	if c, ok := m.opts.host.Clock.Get().(*vclock.Clock); !ok || c != m.opts.clock {
		return &ConfigError{Field: "clock", Reason: "host time source is not the manager clock"}
	}
	Logger().Debug("ggsnap: capabilities ready",
		slog.Int("installed", len(report.Installed)),
		slog.Int("skipped", len(report.Skipped)))
	return nil
}

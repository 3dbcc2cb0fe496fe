package ggsnap

import (
	"github.com/go-text/typesetting/di"
	"golang.org/x/text/language"

	"github.com/gogpu/ggsnap/backend"
	"github.com/gogpu/ggsnap/device"
	"github.com/gogpu/ggsnap/view"
)

// RenderingMode and SizeAction are defined by the backend; they are aliased
// here so callers rarely need to import it.
type (
	RenderingMode = backend.RenderingMode
	SizeAction    = backend.SizeAction
)

// Size actions.
const (
	SizeNone   = backend.SizeNone
	SizeExpand = backend.SizeExpand
	SizeShrink = backend.SizeShrink
)

// Named rendering modes.
var (
	Normal     = backend.Normal
	VScroll    = backend.VScroll
	HScroll    = backend.HScroll
	FullExpand = backend.FullExpand
	Shrink     = backend.Shrink
)

// Extension mutates attached content before it is rendered.
type Extension = view.Extension

// DefaultMaxPercentDifference is the comparison threshold handlers get when
// the config leaves it at zero.
const DefaultMaxPercentDifference = 0.1

// Config configures a render session. It is fixed for the session's
// lifetime; Reconfigure rebuilds the session instead of mutating it.
type Config struct {
	Device device.Profile

	// Theme names a backend palette. Empty follows the device night mode.
	Theme string

	Mode RenderingMode

	// SupportsRTL lets right-to-left locales mirror the layout.
	SupportsRTL bool

	// ShowSystemUI draws status and navigation bars.
	ShowSystemUI bool

	// ValidateAccessibility checks every capture and logs issues as
	// warnings. It cannot be combined with Extensions.
	ValidateAccessibility bool

	// AppCompat registers the compatibility-shim capability.
	AppCompat bool

	// Extensions wrap attached content, in order.
	Extensions []Extension

	// MaxPercentDifference is passed through to snapshot handlers.
	MaxPercentDifference float64
}

// DefaultConfig returns a Nexus 5 in normal mode with the light theme.
func DefaultConfig() Config {
	return Config{
		Device:               device.Default,
		Mode:                 Normal,
		MaxPercentDifference: DefaultMaxPercentDifference,
	}
}

// Validate reports the first problem as a *ConfigError.
func (c Config) Validate() error {
	if err := c.Device.Validate(); err != nil {
		return &ConfigError{Field: "device", Reason: err.Error()}
	}
	if err := c.checkExclusive(); err != nil {
		return err
	}
	if c.MaxPercentDifference < 0 || c.MaxPercentDifference > 100 {
		return &ConfigError{Field: "max percent difference", Reason: "must be within [0, 100]"}
	}
	return nil
}

func (c Config) checkExclusive() error {
	if c.ValidateAccessibility && len(c.Extensions) > 0 {
		return &ConfigError{
			Field:  "extensions",
			Reason: "accessibility validation and view extensions cannot run together",
		}
	}
	return nil
}

// Threshold returns MaxPercentDifference, defaulting when zero.
func (c Config) Threshold() float64 {
	if c.MaxPercentDifference == 0 {
		return DefaultMaxPercentDifference
	}
	return c.MaxPercentDifference
}

// Overrides is a partial Config for Reconfigure. Nil fields keep the
// current value; at least one must be set.
type Overrides struct {
	Device *device.Profile
	Theme  *string
	Mode   *RenderingMode
}

// IsEmpty reports whether no field is set.
func (o Overrides) IsEmpty() bool {
	return o.Device == nil && o.Theme == nil && o.Mode == nil
}

func (c Config) apply(o Overrides) Config {
	if o.Device != nil {
		c.Device = *o.Device
	}
	if o.Theme != nil {
		c.Theme = *o.Theme
	}
	if o.Mode != nil {
		c.Mode = *o.Mode
	}
	return c
}

// Locale returns the device locale as a language tag; unparseable locales
// fall back to English.
func (c Config) Locale() language.Tag {
	tag, err := language.Parse(c.Device.EffectiveLocale())
	if err != nil {
		return language.English
	}
	return tag
}

var rtlScripts = map[string]bool{
	"Arab": true, "Hebr": true, "Thaa": true, "Syrc": true, "Nkoo": true,
	"Adlm": true, "Rohg": true, "Mand": true, "Samr": true, "Yezi": true,
}

// Direction returns the layout direction. Only configs that support RTL
// follow a right-to-left locale.
func (c Config) Direction() di.Direction {
	if !c.SupportsRTL {
		return di.DirectionLTR
	}
	script, _ := c.Locale().Script()
	if rtlScripts[script.String()] {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

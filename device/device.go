// Package device describes the virtual devices snapshots are rendered for.
//
// A Profile fixes the screen in pixels, its density and physical shape, and
// the locale and font scale the host reports. Profiles are plain values:
// copying one and changing a field is how variants are made.
//
//	p := device.Pixel5
//	p.Locale = "ar"
//	p.NightMode = true
package device

import (
	"fmt"
	"math"
	"strings"
)

// Shape is the physical outline of the screen.
type Shape int

const (
	// Rectangular screens are not masked.
	Rectangular Shape = iota

	// Round screens are masked to the inscribed ellipse.
	Round
)

func (s Shape) String() string {
	if s == Round {
		return "round"
	}
	return "rectangular"
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "", "rect", "rectangular", "notround":
		*s = Rectangular
	case "round":
		*s = Round
	default:
		return fmt.Errorf("device: unknown shape %q", b)
	}
	return nil
}

// Orientation of the screen.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "", "portrait":
		*o = Portrait
	case "landscape":
		*o = Landscape
	default:
		return fmt.Errorf("device: unknown orientation %q", b)
	}
	return nil
}

// BaselineDensity is the density (dpi) at which one dp is one pixel.
const BaselineDensity = 160

// Profile is a virtual device.
type Profile struct {
	Name string `json:"name" toml:"name" yaml:"name"`

	// ScreenWidth and ScreenHeight are in pixels, in portrait.
	ScreenWidth  int `json:"screen_width" toml:"screen_width" yaml:"screen_width"`
	ScreenHeight int `json:"screen_height" toml:"screen_height" yaml:"screen_height"`

	// Density in dots per inch.
	Density int `json:"density" toml:"density" yaml:"density"`

	Shape       Shape       `json:"shape" toml:"shape" yaml:"shape"`
	Orientation Orientation `json:"orientation" toml:"orientation" yaml:"orientation"`

	// Locale is a BCP 47 tag; empty means "en".
	Locale string `json:"locale" toml:"locale" yaml:"locale"`

	// FontScale multiplies text sizes; zero means 1.
	FontScale float64 `json:"font_scale" toml:"font_scale" yaml:"font_scale"`

	NightMode bool `json:"night_mode" toml:"night_mode" yaml:"night_mode"`
}

// Validate reports the first invalid field.
func (p Profile) Validate() error {
	switch {
	case p.ScreenWidth <= 0 || p.ScreenHeight <= 0:
		return fmt.Errorf("device: %s: screen size %dx%d must be positive", p.Name, p.ScreenWidth, p.ScreenHeight)
	case p.Density <= 0:
		return fmt.Errorf("device: %s: density %d must be positive", p.Name, p.Density)
	case p.FontScale < 0:
		return fmt.Errorf("device: %s: font scale %v must not be negative", p.Name, p.FontScale)
	}
	return nil
}

// Size returns the screen size in pixels for the profile's orientation.
func (p Profile) Size() (width, height int) {
	if p.Orientation == Landscape {
		return p.ScreenHeight, p.ScreenWidth
	}
	return p.ScreenWidth, p.ScreenHeight
}

// Scale returns pixels per dp.
func (p Profile) Scale() float64 {
	return float64(p.Density) / BaselineDensity
}

// Dp converts dp to whole pixels.
func (p Profile) Dp(v float64) int {
	return int(math.Round(v * p.Scale()))
}

// EffectiveFontScale returns FontScale, defaulting to 1.
func (p Profile) EffectiveFontScale() float64 {
	if p.FontScale <= 0 {
		return 1
	}
	return p.FontScale
}

// EffectiveLocale returns Locale, defaulting to "en".
func (p Profile) EffectiveLocale() string {
	if p.Locale == "" {
		return "en"
	}
	return p.Locale
}

// Built-in profiles.
var (
	Nexus5 = Profile{
		Name: "nexus_5", ScreenWidth: 1080, ScreenHeight: 1920, Density: 480,
	}
	Nexus7 = Profile{
		Name: "nexus_7", ScreenWidth: 1200, ScreenHeight: 1920, Density: 320,
	}
	Pixel5 = Profile{
		Name: "pixel_5", ScreenWidth: 1080, ScreenHeight: 2340, Density: 440,
	}
	Pixel6 = Profile{
		Name: "pixel_6", ScreenWidth: 1080, ScreenHeight: 2400, Density: 420,
	}
	WearSmallRound = Profile{
		Name: "wear_os_small_round", ScreenWidth: 384, ScreenHeight: 384, Density: 320, Shape: Round,
	}
	WearSquare = Profile{
		Name: "wear_os_square", ScreenWidth: 360, ScreenHeight: 360, Density: 320,
	}
)

// Default is the profile sessions use when none is configured.
var Default = Nexus5

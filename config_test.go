package ggsnap

import (
	"errors"
	"testing"
	"time"

	"github.com/go-text/typesetting/di"
	"golang.org/x/text/language"

	"github.com/gogpu/ggsnap/device"
	"github.com/gogpu/ggsnap/view"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Device.Name != device.Nexus5.Name {
		t.Errorf("Device = %q, want %q", cfg.Device.Name, device.Nexus5.Name)
	}
	if !cfg.Mode.IsNormal() {
		t.Errorf("Mode = %v, want normal", cfg.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"bad device", func(c *Config) { c.Device.Density = 0 }, "device"},
		{"negative threshold", func(c *Config) { c.MaxPercentDifference = -1 }, "max percent difference"},
		{"threshold over 100", func(c *Config) { c.MaxPercentDifference = 101 }, "max percent difference"},
		{"accessibility with extensions", func(c *Config) {
			c.ValidateAccessibility = true
			c.Extensions = []Extension{view.WithPadding(4)}
		}, "extensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			var ce *ConfigError
			if err := cfg.Validate(); !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestConfigThreshold(t *testing.T) {
	var cfg Config
	if got := cfg.Threshold(); got != DefaultMaxPercentDifference {
		t.Errorf("Threshold() = %v, want %v", got, DefaultMaxPercentDifference)
	}
	cfg.MaxPercentDifference = 2.5
	if got := cfg.Threshold(); got != 2.5 {
		t.Errorf("Threshold() = %v, want 2.5", got)
	}
}

func TestConfigApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	if !(Overrides{}).IsEmpty() {
		t.Error("zero Overrides should be empty")
	}

	theme := "dark"
	got := cfg.apply(Overrides{Theme: &theme})
	if got.Theme != "dark" || got.Device.Name != cfg.Device.Name || got.Mode != cfg.Mode {
		t.Errorf("apply(theme) = %+v", got)
	}

	dev := device.Pixel5
	mode := Shrink
	got = cfg.apply(Overrides{Device: &dev, Mode: &mode})
	if got.Device.Name != device.Pixel5.Name || got.Mode != Shrink {
		t.Errorf("apply(device, mode) = %+v", got)
	}
}

func TestConfigLocale(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Locale(); got != language.English {
		t.Errorf("Locale() = %v, want en", got)
	}
	cfg.Device.Locale = "not a locale!"
	if got := cfg.Locale(); got != language.English {
		t.Errorf("Locale() for garbage = %v, want en", got)
	}
	cfg.Device.Locale = "fr-CA"
	if got := cfg.Locale(); got.String() != "fr-CA" {
		t.Errorf("Locale() = %v, want fr-CA", got)
	}
}

func TestConfigDirection(t *testing.T) {
	tests := []struct {
		locale string
		rtl    bool
		want   di.Direction
	}{
		{"en", true, di.DirectionLTR},
		{"ar", false, di.DirectionLTR},
		{"ar", true, di.DirectionRTL},
		{"he", true, di.DirectionRTL},
		{"fa-IR", true, di.DirectionRTL},
		{"ja", true, di.DirectionLTR},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Device.Locale = tt.locale
		cfg.SupportsRTL = tt.rtl
		if got := cfg.Direction(); got != tt.want {
			t.Errorf("Direction(%s, rtl=%v) = %v, want %v", tt.locale, tt.rtl, got, tt.want)
		}
	}
}

func TestFrameSpecFrameCount(t *testing.T) {
	tests := []struct {
		spec FrameSpec
		want int
	}{
		{FrameSpec{Start: 0, End: time.Second, FPS: 30}, 31},
		{FrameSpec{Start: 0, End: time.Second, FPS: 60}, 61},
		{FrameSpec{Start: 0, End: 0, FPS: 30}, 1},
		{FrameSpec{Start: 500 * time.Millisecond, End: time.Second, FPS: 10}, 6},
		{FrameSpec{Start: 0, End: 99 * time.Millisecond, FPS: 10}, 1},
		{FrameSpec{Start: 0, End: 100 * time.Millisecond, FPS: 30}, 4},
	}
	for _, tt := range tests {
		if got := tt.spec.FrameCount(); got != tt.want {
			t.Errorf("%+v.FrameCount() = %d, want %d", tt.spec, got, tt.want)
		}
	}
}

func TestFrameSpecTimestamps(t *testing.T) {
	spec := FrameSpec{Start: 0, End: time.Second, FPS: 30}
	want := map[int]time.Duration{
		0:  0,
		1:  33 * time.Millisecond,
		2:  66 * time.Millisecond,
		3:  100 * time.Millisecond,
		29: 966 * time.Millisecond,
		30: time.Second,
	}
	for i, w := range want {
		if got := spec.Timestamp(i); got != w {
			t.Errorf("Timestamp(%d) = %v, want %v", i, got, w)
		}
	}

	prev := time.Duration(-1)
	for i := range spec.FrameCount() {
		ts := spec.Timestamp(i)
		if ts <= prev {
			t.Fatalf("Timestamp(%d) = %v, not after %v", i, ts, prev)
		}
		prev = ts
	}
	if prev != spec.End {
		t.Errorf("last timestamp = %v, want End %v", prev, spec.End)
	}
}

func TestFrameSpecValidate(t *testing.T) {
	bad := []FrameSpec{
		{Start: 0, End: time.Second, FPS: 0},
		{Start: -time.Millisecond, End: time.Second, FPS: 30},
		{Start: time.Second, End: 0, FPS: 30},
	}
	for _, spec := range bad {
		var ce *ConfigError
		if err := spec.Validate(); !errors.As(err, &ce) {
			t.Errorf("%+v.Validate() = %v, want *ConfigError", spec, err)
		}
	}
	if err := (FrameSpec{End: time.Second, FPS: 24}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

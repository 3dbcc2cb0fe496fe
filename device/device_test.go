package device

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSizeAndDensity(t *testing.T) {
	p := Nexus5
	w, h := p.Size()
	assert.Equal(t, 1080, w)
	assert.Equal(t, 1920, h)
	assert.Equal(t, 3.0, p.Scale())
	assert.Equal(t, 144, p.Dp(48))

	p.Orientation = Landscape
	w, h = p.Size()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

func TestProfileDefaults(t *testing.T) {
	p := Profile{Name: "x", ScreenWidth: 10, ScreenHeight: 10, Density: 160}
	assert.Equal(t, 1.0, p.EffectiveFontScale())
	assert.Equal(t, "en", p.EffectiveLocale())
	require.NoError(t, p.Validate())
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
	}{
		{"zero width", Profile{ScreenHeight: 10, Density: 160}},
		{"zero density", Profile{ScreenWidth: 10, ScreenHeight: 10}},
		{"negative font scale", Profile{ScreenWidth: 10, ScreenHeight: 10, Density: 160, FontScale: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.p.Validate())
		})
	}
}

func TestShapeText(t *testing.T) {
	var s Shape
	require.NoError(t, s.UnmarshalText([]byte("ROUND")))
	assert.Equal(t, Round, s)
	require.NoError(t, s.UnmarshalText([]byte("rectangular")))
	assert.Equal(t, Rectangular, s)
	assert.Error(t, s.UnmarshalText([]byte("hexagon")))
}

func TestBuiltinLookup(t *testing.T) {
	c := Builtin()
	p, err := c.Lookup("WEAR_OS_SMALL_ROUND")
	require.NoError(t, err)
	assert.Equal(t, Round, p.Shape)

	_, err = c.Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknownDevice))
	assert.Contains(t, c.Names(), "pixel_5")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "devices.toml",
			content: `
[[devices]]
name = "watch_round"
screen_width = 454
screen_height = 454
density = 320
shape = "round"
locale = "he"
`,
		},
		{
			name: "yaml",
			file: "devices.yaml",
			content: `
devices:
  - name: watch_round
    screen_width: 454
    screen_height: 454
    density: 320
    shape: round
    locale: he
`,
		},
		{
			name:    "json",
			file:    "devices.json",
			content: `{"devices":[{"name":"watch_round","screen_width":454,"screen_height":454,"density":320,"shape":"round","locale":"he"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadCatalog(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			p, err := c.Lookup("watch_round")
			require.NoError(t, err)
			assert.Equal(t, 454, p.ScreenWidth)
			assert.Equal(t, Round, p.Shape)
			assert.Equal(t, "he", p.Locale)

			// Built-ins are still there.
			_, err = c.Lookup("nexus_5")
			assert.NoError(t, err)
		})
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(writeFile(t, "devices.ini", "x"))
	assert.Error(t, err)

	_, err = LoadCatalog(writeFile(t, "devices.toml", "[[devices]]\nname = \"bad\"\n"))
	assert.Error(t, err)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

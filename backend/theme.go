package backend

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/gogpu/ggsnap/view"
)

// Built-in theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultTheme is used when SessionParams.Theme is empty.
const DefaultTheme = ThemeLight

func rgb(r, g, b uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: 0xff} }

var themes = map[string]view.Palette{
	ThemeLight: {
		Background: rgb(0xff, 0xff, 0xff),
		Surface:    rgb(0xf5, 0xf5, 0xf5),
		OnSurface:  rgb(0x21, 0x21, 0x21),
		Primary:    rgb(0x62, 0x00, 0xee),
		OnPrimary:  rgb(0xff, 0xff, 0xff),
		StatusBar:  rgb(0x37, 0x00, 0xb3),
		NavBar:     rgb(0x00, 0x00, 0x00),
	},
	ThemeDark: {
		Background: rgb(0x12, 0x12, 0x12),
		Surface:    rgb(0x1e, 0x1e, 0x1e),
		OnSurface:  rgb(0xe0, 0xe0, 0xe0),
		Primary:    rgb(0xbb, 0x86, 0xfc),
		OnPrimary:  rgb(0x00, 0x00, 0x00),
		StatusBar:  rgb(0x00, 0x00, 0x00),
		NavBar:     rgb(0x00, 0x00, 0x00),
	},
}

// Themes returns the sorted built-in theme names.
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePalette returns the palette for theme. An empty theme follows the
// device's night mode.
func ResolvePalette(theme string, nightMode bool) (view.Palette, error) {
	if theme == "" {
		theme = DefaultTheme
		if nightMode {
			theme = ThemeDark
		}
	}
	p, ok := themes[theme]
	if !ok {
		return view.Palette{}, fmt.Errorf("backend: unknown theme %q", theme)
	}
	return p, nil
}

package ggsnap

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// GoFonts resolves font families to the embedded Go fonts, so text renders
// the same on every machine. Unknown families fall back to sans-serif.
//
// Families: "" / "sans-serif" (Go Regular), "bold" / "sans-serif-bold"
// (Go Bold), "monospace" (Go Mono).
type GoFonts struct {
	once    sync.Once
	sources map[string]*text.FontSource
	err     error

	faces sync.Map // faceKey -> text.Face
}

type faceKey struct {
	family string
	size   float64
}

var goFontData = map[string][]byte{
	"sans-serif":      goregular.TTF,
	"sans-serif-bold": gobold.TTF,
	"monospace":       gomono.TTF,
}

var familyAliases = map[string]string{
	"":     "sans-serif",
	"sans": "sans-serif",
	"go":   "sans-serif",
	"bold": "sans-serif-bold",
	"mono": "monospace",
}

func (f *GoFonts) load() {
	f.sources = make(map[string]*text.FontSource, len(goFontData))
	for family, data := range goFontData {
		src, err := text.NewFontSource(data)
		if err != nil {
			f.err = fmt.Errorf("ggsnap: load %s: %w", family, err)
			return
		}
		f.sources[family] = src
	}
}

// Face implements capability.FontResolver.
func (f *GoFonts) Face(family string, size float64) (text.Face, error) {
	f.once.Do(f.load)
	if f.err != nil {
		return nil, f.err
	}

	family = strings.ToLower(family)
	if alias, ok := familyAliases[family]; ok {
		family = alias
	}
	src, ok := f.sources[family]
	if !ok {
		family, src = "sans-serif", f.sources["sans-serif"]
	}

	key := faceKey{family, size}
	if face, ok := f.faces.Load(key); ok {
		return face.(text.Face), nil
	}
	face, _ := f.faces.LoadOrStore(key, src.Face(size))
	return face.(text.Face), nil
}

var defaultFonts = &GoFonts{}

// Command ggsnap renders a demo screen on a virtual device and writes the
// capture as a PNG, or as an animated GIF when -duration is set.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggsnap"
	"github.com/gogpu/ggsnap/device"
	"github.com/gogpu/ggsnap/imageproc"
	"github.com/gogpu/ggsnap/view"
)

var modes = map[string]ggsnap.RenderingMode{
	"normal":      ggsnap.Normal,
	"v_scroll":    ggsnap.VScroll,
	"h_scroll":    ggsnap.HScroll,
	"full_expand": ggsnap.FullExpand,
	"shrink":      ggsnap.Shrink,
}

func main() {
	var (
		deviceName = flag.String("device", device.Default.Name, "device profile name")
		catalog    = flag.String("catalog", "", "extra device profiles (TOML, YAML or JSON)")
		theme      = flag.String("theme", "", "theme name; empty follows the device night mode")
		mode       = flag.String("mode", "normal", "rendering mode: normal, v_scroll, h_scroll, full_expand, shrink")
		locale     = flag.String("locale", "", "override the device locale")
		systemUI   = flag.Bool("system-ui", false, "draw status and navigation bars")
		a11y       = flag.Bool("a11y", false, "log accessibility issues")
		duration   = flag.Duration("duration", 0, "capture an animation of this length")
		fps        = flag.Int("fps", 30, "animation frame rate")
		scale      = flag.Float64("scale", 1, "resize written frames by this factor")
		output     = flag.String("output", "", "output file; defaults to <device>.png or <device>.gif")
		verbose    = flag.Bool("v", false, "verbose logging")
		list       = flag.Bool("list", false, "list device profiles and exit")
	)
	flag.Parse()

	if *verbose {
		ggsnap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	devices := device.Builtin()
	if *catalog != "" {
		var err error
		if devices, err = device.LoadCatalog(*catalog); err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}
	if *list {
		for _, name := range devices.Names() {
			fmt.Println(name)
		}
		return
	}

	profile, err := devices.Lookup(*deviceName)
	if err != nil {
		log.Fatal(err)
	}
	if *locale != "" {
		profile.Locale = *locale
	}
	if *scale <= 0 {
		log.Fatalf("Invalid scale %v", *scale)
	}
	rm, ok := modes[strings.ToLower(*mode)]
	if !ok {
		log.Fatalf("Unknown mode %q", *mode)
	}

	cfg := ggsnap.DefaultConfig()
	cfg.Device = profile
	cfg.Theme = *theme
	cfg.Mode = rm
	cfg.SupportsRTL = true
	cfg.ShowSystemUI = *systemUI
	cfg.ValidateAccessibility = *a11y

	m := ggsnap.NewManager()
	if err := m.Prepare(cfg); err != nil {
		log.Fatalf("Failed to prepare session: %v", err)
	}

	out := *output
	if *duration > 0 {
		if out == "" {
			out = profile.Name + ".gif"
		}
		spec := ggsnap.FrameSpec{End: *duration, FPS: *fps}
		err = m.Animate("demo", newDemo(), spec, gifWriter(out, *scale))
	} else {
		if out == "" {
			out = profile.Name + ".png"
		}
		err = m.Snapshot("demo", newDemo(), pngWriter(out, *scale))
	}
	if derr := m.Dispose(); err == nil {
		err = derr
	}
	if err != nil {
		log.Fatalf("Capture failed: %v", err)
	}
	log.Printf("Capture saved to %s\n", out)
}

// newDemo returns a small screen exercising text, shapes and both progress
// views. The animated views are created once so their start instants
// survive recomposition.
func newDemo() view.Composable {
	spinner := &view.Spinner{ID: "spinner"}
	progress := &view.Progress{ID: "progress", Duration: time.Second}
	return func(env *view.Env) view.View {
		return demo(env, spinner, progress)
	}
}

func demo(env *view.Env, spinner, progress view.View) view.View {
	return &view.Box{
		ID:      "screen",
		Padding: 16,
		Child: &view.Column{
			ID:      "content",
			Spacing: 12,
			Items: []view.View{
				&view.Label{ID: "title", Text: "ggsnap", Size: 24},
				&view.Label{ID: "subtitle", Text: fmt.Sprintf("%.0f px/dp", env.Density), Family: "monospace"},
				&view.Box{ID: "card", Width: 160, Height: 64, Radius: 8, Color: env.Palette.Primary},
				spinner,
				progress,
				&view.Box{ID: "action", Width: 96, Height: 48, Radius: 24, Clickable: true, Label: "Continue",
					Color: env.Palette.Primary},
			},
		},
	}
}

func pngWriter(path string, scale float64) ggsnap.Handler {
	return ggsnap.HandlerFunc(func(s *ggsnap.Stream) error {
		for f, err := range s.Frames() {
			if err != nil {
				return err
			}
			img := imageproc.ScaleBy(f.Image, scale)
			return writeFile(path, func(fh *os.File) error { return png.Encode(fh, img) })
		}
		return nil
	})
}

func gifWriter(path string, scale float64) ggsnap.Handler {
	return ggsnap.HandlerFunc(func(s *ggsnap.Stream) error {
		anim := &gif.GIF{}
		delay := max(1, 100/s.FPS)
		for f, err := range s.Frames() {
			if err != nil {
				return err
			}
			anim.Image = append(anim.Image, quantize(imageproc.ScaleBy(f.Image, scale)))
			anim.Delay = append(anim.Delay, delay)
		}
		return writeFile(path, func(fh *os.File) error { return gif.EncodeAll(fh, anim) })
	})
}

// quantize maps img onto the web-safe palette, plus transparency for masked
// round-device corners.
func quantize(img image.Image) *image.Paletted {
	pal := append(color.Palette{color.Transparent}, palette.WebSafe...)
	dst := image.NewPaletted(img.Bounds(), pal)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), img, img.Bounds().Min)
	return dst
}

func writeFile(path string, encode func(*os.File) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

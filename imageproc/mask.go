package imageproc

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggsnap/device"
)

// ApplyDeviceMask clips img to the ellipse inscribed in its bounds when the
// frame was rendered in normal mode for a round device. Pixels outside the
// ellipse are transparent. In every other case img is returned unchanged.
func ApplyDeviceMask(img image.Image, normalMode bool, shape device.Shape) image.Image {
	if !normalMode || shape != device.Round {
		return img
	}
	b := img.Bounds()
	if b.Empty() {
		return img
	}

	dst := newLike(img, b)
	mask := ellipseMask(b.Dx(), b.Dy())
	draw.DrawMask(dst, b, img, b.Min, mask, image.Point{}, draw.Over)
	return dst
}

// newLike returns a blank image of img's concrete type with bounds b.
func newLike(img image.Image, b image.Rectangle) draw.Image {
	switch img.(type) {
	case *image.NRGBA:
		return image.NewNRGBA(b)
	case *image.RGBA64:
		return image.NewRGBA64(b)
	case *image.NRGBA64:
		return image.NewNRGBA64(b)
	case *image.Gray:
		// Gray has no alpha; masked corners need one.
		return image.NewNRGBA(b)
	default:
		return image.NewRGBA(b)
	}
}

type maskKey struct{ w, h int }

// maskCache holds rasterised ellipses by size. Devices come in few sizes
// and every frame of a session shares one.
var maskCache sync.Map

// ellipseMask rasterises the ellipse inscribed in a w×h box with gg's
// anti-aliased filler.
func ellipseMask(w, h int) *image.Alpha {
	key := maskKey{w, h}
	if m, ok := maskCache.Load(key); ok {
		return m.(*image.Alpha)
	}

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.DrawEllipse(float64(w)/2, float64(h)/2, float64(w)/2, float64(h)/2)
	m := dc.AsMask()

	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := alpha.Pix[y*alpha.Stride : y*alpha.Stride+w]
		for x := range row {
			row[x] = m.At(x, y)
		}
	}
	actual, _ := maskCache.LoadOrStore(key, alpha)
	return actual.(*image.Alpha)
}

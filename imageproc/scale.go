// Package imageproc post-processes captured frames before they leave the
// capture pipeline: device-shape masking, then thumbnail downscaling.
//
// Both stages are pure functions of their input. An image that needs no
// change is returned as is, never copied.
package imageproc

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggsnap/device"
)

// ThumbnailSize is the envelope, in pixels, the longer side of a frame is
// scaled down to.
const ThumbnailSize = 1000

// ThumbnailScale returns the factor that fits img's longer side into
// ThumbnailSize. Values of 1 or more mean the image already fits.
func ThumbnailScale(img image.Image) float64 {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if longest <= 0 {
		return 1
	}
	return float64(ThumbnailSize) / float64(longest)
}

// Scale downsizes img by ThumbnailScale on both axes. It never enlarges:
// when the factor is at least 1, img itself is returned.
func Scale(img image.Image) image.Image {
	if ThumbnailScale(img) >= 1 {
		return img
	}
	// Integer arithmetic keeps the longer side at exactly ThumbnailSize.
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	return resample(img, b.Dx()*ThumbnailSize/longest, b.Dy()*ThumbnailSize/longest)
}

// ScaleBy resamples img by factor, enlarging when factor is above 1.
// Destination sizes are truncated and never drop below one pixel. A factor
// of exactly 1 returns img itself.
func ScaleBy(img image.Image, factor float64) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := int(math.Floor(float64(b.Dx()) * factor))
	h := int(math.Floor(float64(b.Dy()) * factor))
	return resample(img, w, h)
}

// resample draws img into a w×h RGBA image with a Catmull-Rom kernel.
func resample(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, max(1, w), max(1, h)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Process runs the pipeline stages in order: mask, then scale.
func Process(img image.Image, normalMode bool, shape device.Shape) image.Image {
	return Scale(ApplyDeviceMask(img, normalMode, shape))
}

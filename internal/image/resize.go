package image

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Flatten composites img over an opaque background so that no transparency
// survives. Fully opaque pixels are unchanged.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// ThumbnailSize returns the size of a w x h image shrunk to fit a
// maxW x maxH box with its aspect ratio kept. Images that already fit are
// returned unchanged; images are never enlarged. Each scaled edge is rounded
// to whichever of floor or ceil best preserves the aspect ratio.
func ThumbnailSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || (maxW >= w && maxH >= h) {
		return w, h
	}

	aspect := float64(w) / float64(h)
	x, y := maxW, maxH

	if float64(x)/float64(y) >= aspect {
		x = roundAspect(float64(y)*aspect, func(n int) float64 {
			return math.Abs(aspect - float64(n)/float64(y))
		})
	} else {
		y = roundAspect(float64(x)/aspect, func(n int) float64 {
			if n == 0 {
				return 0
			}
			return math.Abs(aspect - float64(x)/float64(n))
		})
	}
	return x, y
}

// roundAspect picks floor(v) or ceil(v), whichever scores lower (floor on a
// tie), and never returns less than 1.
func roundAspect(v float64, score func(int) float64) int {
	lo := int(math.Floor(v))
	hi := int(math.Ceil(v))
	best := lo
	if score(hi) < score(lo) {
		best = hi
	}
	return max(best, 1)
}

// FitWithin returns the size of a w x h image scaled down so neither edge
// exceeds maxDim. The scaled edge is truncated.
func FitWithin(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w > h {
		return maxDim, int(float64(maxDim) / float64(w) * float64(h))
	}
	return int(float64(maxDim) / float64(h) * float64(w)), maxDim
}

// Resize scales img to exactly w x h using Catmull-Rom resampling.
func Resize(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Thumbnail shrinks img so that its longer edge is at most maxEdge.
// The original image is returned when it already fits.
func Thumbnail(img image.Image, maxEdge int) image.Image {
	return ThumbnailBox(img, maxEdge, maxEdge)
}

// ThumbnailBox shrinks img to fit a maxW x maxH box, keeping its aspect ratio.
func ThumbnailBox(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := ThumbnailSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return Resize(img, w, h)
}

package image

import (
	"image"
	"image/color"
	"testing"
)

func TestThumbnailSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"landscape", 800, 600, 400, 400, 400, 300},
		{"portrait", 600, 800, 400, 400, 300, 400},
		{"already fits", 100, 50, 400, 400, 100, 50},
		{"never enlarges", 400, 400, 400, 400, 400, 400},
		{"og ratio", 1200, 630, 400, 400, 400, 210},
		{"rounds toward aspect", 333, 500, 400, 400, 266, 400},
		{"extreme strip keeps one row", 1000, 1, 400, 400, 400, 1},
		{"box", 2000, 1000, 300, 200, 300, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ThumbnailSize(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ThumbnailSize(%d, %d, %d, %d) = %dx%d, want %dx%d",
					tt.w, tt.h, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{4800, 3000, 2400, 2400, 1500},
		{3000, 4000, 2400, 1800, 2400},
		{1000, 800, 2400, 1000, 800},
		{2401, 100, 2400, 2400, 99},
	}

	for _, tt := range tests {
		w, h := FitWithin(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitWithin(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestFlatten(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA{0, 0, 0, 0})
	img.Set(1, 0, color.NRGBA{10, 20, 30, 255})
	img.Set(2, 0, color.NRGBA{0, 0, 0, 128})

	flat := Flatten(img, color.White)

	if got := flat.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("transparent pixel = %v, want white", got)
	}
	if got := flat.RGBAAt(1, 0); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("opaque pixel = %v, want unchanged", got)
	}
	got := flat.RGBAAt(2, 0)
	if got.A != 255 || got.R < 120 || got.R > 135 {
		t.Errorf("half-transparent black over white = %v, want mid grey", got)
	}
}

func TestFlatten_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 11))
	img.Set(10, 10, color.RGBA{1, 2, 3, 255})

	flat := Flatten(img, color.White)
	if flat.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", flat.Bounds())
	}
	if got := flat.RGBAAt(0, 0); got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestThumbnail(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if got := Thumbnail(small, 400); got != image.Image(small) {
		t.Error("Thumbnail should return images that already fit unchanged")
	}

	large := image.NewRGBA(image.Rect(0, 0, 800, 200))
	got := Thumbnail(large, 400)
	if got.Bounds().Dx() != 400 || got.Bounds().Dy() != 100 {
		t.Errorf("Thumbnail size = %v, want 400x100", got.Bounds())
	}
}

func TestResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			src.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}

	dst := Resize(src, 2, 2)
	if dst.Bounds().Dx() != 2 || dst.Bounds().Dy() != 2 {
		t.Fatalf("size = %v", dst.Bounds())
	}
	got := dst.NRGBAAt(1, 1)
	if absDiff(got.R, 200) > 1 || absDiff(got.G, 100) > 1 || absDiff(got.B, 50) > 1 || got.A != 255 {
		t.Errorf("uniform image resampled to %v", got)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

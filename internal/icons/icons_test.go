package icons

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdime/folio/internal/config"
	folioimage "github.com/pdime/folio/internal/image"
)

func testLogo(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	return img
}

func writeLogo(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create logo: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode logo: %v", err)
	}
}

func TestLogoBox(t *testing.T) {
	cfg := config.Default().Icons

	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"square fits by height", 100, 100, 535, 535},
		{"wide scales by width", 400, 100, 1080, 270},
		{"tall", 100, 200, 267, 535},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := LogoBox(cfg, tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("LogoBox(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestGenerator_OpenGraph(t *testing.T) {
	g := New(config.Default().Icons, nil)

	og, err := g.OpenGraph(testLogo(100, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if og.Bounds().Dx() != 1200 || og.Bounds().Dy() != 630 {
		t.Fatalf("unexpected canvas size %v", og.Bounds())
	}

	if got := og.RGBAAt(0, 0); got != (color.RGBA{R: 0xc8, G: 0xaf, B: 0x99, A: 255}) {
		t.Errorf("corner should be background colour, got %v", got)
	}
	if got := og.RGBAAt(600, 315); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("centre should be logo colour, got %v", got)
	}
	// Logos are never enlarged, so the 100px logo spans columns 550..649.
	if got := og.RGBAAt(330, 315); got.R != 0xc8 {
		t.Errorf("left of logo should be background, got %v", got)
	}
}

func TestGenerator_OpenGraphBadColour(t *testing.T) {
	cfg := config.Default().Icons
	cfg.OGBackground = "beige"
	if _, err := New(cfg, nil).OpenGraph(testLogo(10, 10)); err == nil {
		t.Error("expected error for invalid background colour")
	}
}

func TestGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	logoPath := filepath.Join(dir, "brand-logo.png")
	writeLogo(t, logoPath, testLogo(200, 100))
	out := filepath.Join(dir, "docs")

	written, err := New(config.Default().Icons, nil).Generate(logoPath, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 5 {
		t.Errorf("expected 5 files, got %v", written)
	}

	tests := []struct {
		path string
		w, h int
	}{
		{filepath.Join(out, FaviconPNG), 32, 16},
		{filepath.Join(out, AppleTouch), 180, 90},
		{filepath.Join(out, "assets", "img", OGImage), 1200, 630},
		{filepath.Join(out, "assets", "img", "brand-logo.png"), 200, 100},
	}
	for _, tt := range tests {
		w, h, err := folioimage.GetImageDimensions(tt.path)
		if err != nil {
			t.Errorf("%s: %v", tt.path, err)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("%s: expected %dx%d, got %dx%d", filepath.Base(tt.path), tt.w, tt.h, w, h)
		}
	}

	ico, err := os.ReadFile(filepath.Join(out, FaviconICO))
	if err != nil {
		t.Fatalf("failed to read ico: %v", err)
	}
	if n := binary.LittleEndian.Uint16(ico[4:6]); n != 3 {
		t.Errorf("expected 3 ico entries, got %d", n)
	}
}

func TestGenerator_GenerateMissingLogo(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(config.Default().Icons, nil).Generate(filepath.Join(dir, "none.png"), dir); err == nil {
		t.Error("expected error for missing logo")
	}
}

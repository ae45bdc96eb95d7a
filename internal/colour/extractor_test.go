package colour

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	folioimage "github.com/pdime/folio/internal/image"
)

func TestExtractImage_EndToEnd(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 0, 0, 255})
	img.Set(0, 1, color.RGBA{0, 255, 0, 255})
	img.Set(1, 1, color.RGBA{5, 5, 5, 255})

	p, err := NewExtractor(DefaultExtractorConfig(), nil).ExtractImage(img)
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}

	want := []ColourCount{{RGB{255, 0, 0}, 2}, {RGB{0, 255, 0}, 1}}
	if len(p.Chromatic) != len(want) {
		t.Fatalf("Chromatic = %v, want %v", p.Chromatic, want)
	}
	for i := range want {
		if p.Chromatic[i] != want[i] {
			t.Errorf("Chromatic[%d] = %v, want %v", i, p.Chromatic[i], want[i])
		}
	}
	if len(p.Grayscale) != 0 {
		t.Errorf("near-black noise should be filtered, got grayscale %v", p.Grayscale)
	}
}

func TestExtractImage_FlattensTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{0, 0, 0, 0})
	img.Set(1, 0, color.NRGBA{0, 0, 255, 255})

	p, err := NewExtractor(DefaultExtractorConfig(), nil).ExtractImage(img)
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}

	// The transparent pixel becomes white and is then filtered out.
	if len(p.AllClusters) != 1 || p.AllClusters[0].Colour != (RGB{0, 0, 255}) {
		t.Errorf("AllClusters = %v", p.AllClusters)
	}
}

func TestExtractImage_AllFiltered(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.White)
		}
	}

	p, err := NewExtractor(DefaultExtractorConfig(), nil).ExtractImage(img)
	if err != nil {
		t.Fatalf("ExtractImage() error = %v", err)
	}
	if !p.Empty() {
		t.Errorf("expected an empty palette, got %+v", p)
	}
}

func TestExtractSamples_Empty(t *testing.T) {
	_, err := NewExtractor(DefaultExtractorConfig(), nil).ExtractSamples(nil)

	var xe *ExtractionError
	if !errors.As(err, &xe) {
		t.Fatalf("expected *ExtractionError, got %T (%v)", err, err)
	}
	if !errors.Is(err, ErrNoColours) {
		t.Errorf("expected ErrNoColours, got %v", err)
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := range 10 {
		for x := range 10 {
			img.Set(x, y, color.RGBA{200, 175, 153, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	p, err := NewExtractor(DefaultExtractorConfig(), nil).ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if len(p.Chromatic) != 1 || p.Chromatic[0] != (ColourCount{RGB{200, 175, 153}, 100}) {
		t.Errorf("Chromatic = %v", p.Chromatic)
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := NewExtractor(DefaultExtractorConfig(), nil).ExtractFile(filepath.Join(t.TempDir(), "missing.png"))

	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InputError, got %T (%v)", err, err)
	}
	if !errors.Is(err, folioimage.ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}
}

type stubLoader struct{ img image.Image }

func (s stubLoader) Load(string) (image.Image, error) { return s.img, nil }

func TestExtractFile_EmptyImageReportsSource(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig(), nil).WithLoader(stubLoader{img: image.NewRGBA(image.Rect(0, 0, 0, 0))})

	_, err := e.ExtractFile("blank.png")
	var xe *ExtractionError
	if !errors.As(err, &xe) {
		t.Fatalf("expected *ExtractionError, got %T (%v)", err, err)
	}
	if xe.Source != "blank.png" {
		t.Errorf("Source = %q, want blank.png", xe.Source)
	}
}

func TestExtractorConfigValidate(t *testing.T) {
	if err := DefaultExtractorConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ExtractorConfig)
	}{
		{"zero distance", func(c *ExtractorConfig) { c.ClusterDistance = 0 }},
		{"negative threshold", func(c *ExtractorConfig) { c.GrayscaleThreshold = -1 }},
		{"no colours", func(c *ExtractorConfig) { c.NumColours = 0 }},
		{"no dimension", func(c *ExtractorConfig) { c.MaxDimension = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// Package icons renders the favicon set and the Open Graph preview image from
// the site logo.
package icons

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/draw"

	"github.com/pdime/folio/internal/colour"
	"github.com/pdime/folio/internal/config"
	folioimage "github.com/pdime/folio/internal/image"
)

// Output file names.
const (
	FaviconPNG = "favicon.png"
	FaviconICO = "favicon.ico"
	AppleTouch = "apple-touch-icon.png"
	OGImage    = "og-image.png"
)

// Generator writes icon files into a site output directory.
type Generator struct {
	cfg    config.IconsConfig
	loader folioimage.Loader
	logger hclog.Logger
}

// New creates an icon generator.
func New(cfg config.IconsConfig, logger hclog.Logger) *Generator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Generator{
		cfg:    cfg,
		loader: folioimage.NewFileLoader(),
		logger: logger.Named("icons"),
	}
}

// WithLoader replaces the image loader.
func (g *Generator) WithLoader(l folioimage.Loader) *Generator {
	g.loader = l
	return g
}

// Generate loads the logo and writes every icon. It returns the written paths.
func (g *Generator) Generate(logoPath, outputDir string) ([]string, error) {
	logo, err := g.loader.Load(logoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load logo: %w", err)
	}
	b := logo.Bounds()
	g.logger.Debug("loaded logo", "path", logoPath, "width", b.Dx(), "height", b.Dy())

	assets := filepath.Join(outputDir, "assets", "img")
	steps := []struct {
		path string
		fn   func(string) error
	}{
		{filepath.Join(outputDir, FaviconPNG), func(p string) error {
			return folioimage.WritePNG(p, folioimage.Thumbnail(logo, g.cfg.FaviconSize))
		}},
		{filepath.Join(outputDir, FaviconICO), func(p string) error {
			return folioimage.WriteICO(p, ICOFrames(logo, g.cfg.ICOSizes))
		}},
		{filepath.Join(outputDir, AppleTouch), func(p string) error {
			return folioimage.WritePNG(p, folioimage.Thumbnail(logo, g.cfg.AppleTouchSize))
		}},
		{filepath.Join(assets, OGImage), func(p string) error {
			og, err := g.OpenGraph(logo)
			if err != nil {
				return err
			}
			return folioimage.WritePNG(p, og)
		}},
		{filepath.Join(assets, logoCopyName(logoPath)), func(p string) error {
			return folioimage.WritePNG(p, logo)
		}},
	}

	written := make([]string, 0, len(steps))
	for _, s := range steps {
		if err := s.fn(s.path); err != nil {
			return written, err
		}
		g.logger.Info("saved", "path", s.path)
		written = append(written, s.path)
	}
	return written, nil
}

// ICOFrames returns one thumbnail of logo per size.
func ICOFrames(logo image.Image, sizes []int) []image.Image {
	frames := make([]image.Image, 0, len(sizes))
	for _, s := range sizes {
		frames = append(frames, folioimage.Thumbnail(logo, s))
	}
	return frames
}

// LogoBox returns the box the logo is fitted into on the Open Graph canvas:
// a share of the canvas height, or of its width when that would be too wide.
func LogoBox(cfg config.IconsConfig, logoW, logoH int) (int, int) {
	aspect := float64(logoW) / float64(logoH)
	h := int(float64(cfg.OGHeight) * cfg.OGHeightRatio)
	w := int(float64(h) * aspect)
	if float64(w) > float64(cfg.OGWidth)*cfg.OGWidthRatio {
		w = int(float64(cfg.OGWidth) * cfg.OGWidthRatio)
		h = int(float64(w) / aspect)
	}
	return w, h
}

// OpenGraph composes the social preview image: the logo centred on a canvas
// of the configured background colour.
func (g *Generator) OpenGraph(logo image.Image) (*image.RGBA, error) {
	bg, err := colour.ParseHex(g.cfg.OGBackground)
	if err != nil {
		return nil, fmt.Errorf("invalid og_background: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, g.cfg.OGWidth, g.cfg.OGHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}), image.Point{}, draw.Src)

	b := logo.Bounds()
	boxW, boxH := LogoBox(g.cfg, b.Dx(), b.Dy())
	scaled := folioimage.ThumbnailBox(logo, boxW, boxH)

	sb := scaled.Bounds()
	x := (g.cfg.OGWidth - sb.Dx()) / 2
	y := (g.cfg.OGHeight - sb.Dy()) / 2
	draw.Draw(canvas, image.Rect(x, y, x+sb.Dx(), y+sb.Dy()), scaled, sb.Min, draw.Over)
	return canvas, nil
}

// logoCopyName is the logo's file name with a .png extension.
func logoCopyName(logoPath string) string {
	base := filepath.Base(logoPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

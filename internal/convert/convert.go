// Package convert turns HEIC photographs into web-sized PNG files.
package convert

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	folioimage "github.com/pdime/folio/internal/image"
)

// Result counts the outcome of a conversion run.
type Result struct {
	Found     int
	Converted int
	Skipped   int
	Failed    int
}

// Converter mirrors a source tree of HEIC files as PNG files under a
// destination tree.
type Converter struct {
	loader       folioimage.Loader
	maxDimension int
	logger       hclog.Logger
}

// New creates a converter that limits both edges to maxDimension.
func New(maxDimension int, logger hclog.Logger) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Converter{
		loader:       folioimage.NewFileLoader(),
		maxDimension: maxDimension,
		logger:       logger.Named("convert"),
	}
}

// WithLoader replaces the image loader.
func (c *Converter) WithLoader(l folioimage.Loader) *Converter {
	c.loader = l
	return c
}

// Find returns the HEIC files below dir in walk order.
func Find(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && folioimage.IsHEIC(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return files, nil
}

// Run converts every HEIC file below srcDir to a PNG at the same relative
// path below dstDir. Existing PNGs are left alone. A file that fails to
// convert is counted and logged; the run continues.
func (c *Converter) Run(srcDir, dstDir string) (*Result, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("source directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", srcDir)
	}

	files, err := Find(srcDir)
	if err != nil {
		return nil, err
	}

	result := &Result{Found: len(files)}
	if len(files) == 0 {
		c.logger.Info("no HEIC files found", "path", srcDir)
		return result, nil
	}
	c.logger.Info("found HEIC files", "count", len(files))

	for i, src := range files {
		rel, err := filepath.Rel(srcDir, src)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", src, err)
		}
		dst := filepath.Join(dstDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".png")
		c.logger.Debug("processing", "n", i+1, "of", len(files), "file", rel)

		if _, err := os.Stat(dst); err == nil {
			c.logger.Debug("skipped, already exists", "file", dst)
			result.Skipped++
			continue
		}

		if err := c.convert(src, dst); err != nil {
			c.logger.Warn("conversion failed", "file", rel, "error", err)
			result.Failed++
			continue
		}
		result.Converted++
	}

	c.logger.Info("conversion complete", "found", result.Found, "converted", result.Converted,
		"skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (c *Converter) convert(src, dst string) error {
	img, err := c.loader.Load(src)
	if err != nil {
		return err
	}

	b := img.Bounds()
	w, h := folioimage.FitWithin(b.Dx(), b.Dy(), c.maxDimension)
	if w != b.Dx() || h != b.Dy() {
		c.logger.Debug("resizing", "from", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "to", fmt.Sprintf("%dx%d", w, h))
		img = folioimage.Resize(img, w, h)
	}

	if err := folioimage.WritePNG(dst, img); err != nil {
		return err
	}
	if info, err := os.Stat(dst); err == nil {
		c.logger.Info("converted", "file", dst, "kb", fmt.Sprintf("%.1f", float64(info.Size())/1024))
	}
	return nil
}

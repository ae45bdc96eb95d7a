package colour

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hashicorp/go-hclog"

	folioimage "github.com/pdime/folio/internal/image"
)

// DefaultMaxDimension bounds the longer image edge before colours are counted.
const DefaultMaxDimension = 400

// ExtractorConfig holds configuration for palette extraction.
type ExtractorConfig struct {
	Filter             FilterConfig `yaml:"filter"`
	ClusterDistance    float64      `yaml:"cluster_distance"`
	GrayscaleThreshold int          `yaml:"grayscale_threshold"`
	NumColours         int          `yaml:"num_colours"`
	MaxDimension       int          `yaml:"max_dimension"`
}

// DefaultExtractorConfig returns the configuration used for theme extraction.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Filter:             DefaultFilterConfig(),
		ClusterDistance:    ThemeClusterDistance,
		GrayscaleThreshold: DefaultGrayscaleThreshold,
		NumColours:         DefaultNumColours,
		MaxDimension:       DefaultMaxDimension,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.ClusterDistance <= 0 {
		return fmt.Errorf("cluster distance must be positive, got %g", c.ClusterDistance)
	}
	if c.GrayscaleThreshold < 0 {
		return fmt.Errorf("grayscale threshold cannot be negative, got %d", c.GrayscaleThreshold)
	}
	if c.NumColours < 1 {
		return fmt.Errorf("colour count must be at least 1, got %d", c.NumColours)
	}
	if c.MaxDimension < 1 {
		return fmt.Errorf("max dimension must be at least 1, got %d", c.MaxDimension)
	}
	if c.Filter.NearBlackMinCount < 0 {
		return fmt.Errorf("near-black minimum count cannot be negative, got %d", c.Filter.NearBlackMinCount)
	}
	return nil
}

// Extractor turns an image into a ranked palette.
type Extractor struct {
	cfg    ExtractorConfig
	loader folioimage.Loader
	logger hclog.Logger
}

// NewExtractor creates an Extractor. A nil logger discards output.
func NewExtractor(cfg ExtractorConfig, logger hclog.Logger) *Extractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{
		cfg:    cfg,
		loader: folioimage.NewFileLoader(),
		logger: logger.Named("palette"),
	}
}

// WithLoader replaces the image loader used by ExtractFile.
func (e *Extractor) WithLoader(l folioimage.Loader) *Extractor {
	e.loader = l
	return e
}

// ExtractFile loads the image at path and extracts its palette.
// Load and decode failures are reported as *InputError.
func (e *Extractor) ExtractFile(path string) (*Palette, error) {
	e.logger.Info("analysing image", "path", path)

	img, err := e.loader.Load(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	p, err := e.ExtractImage(img)
	if err != nil {
		var xe *ExtractionError
		if errors.As(err, &xe) {
			xe.Source = path
		}
		return nil, err
	}
	return p, nil
}

// ExtractImage flattens img onto white, shrinks it so its longer edge fits
// MaxDimension, counts its colours and extracts the palette.
func (e *Extractor) ExtractImage(img image.Image) (*Palette, error) {
	if img == nil {
		return nil, &ExtractionError{Err: fmt.Errorf("image cannot be nil")}
	}

	flat := folioimage.Flatten(img, color.White)
	thumb := folioimage.Thumbnail(flat, e.cfg.MaxDimension)
	b := thumb.Bounds()
	e.logger.Debug("prepared image", "width", b.Dx(), "height", b.Dy())

	return e.ExtractSamples(CountColours(thumb))
}

// ExtractSamples filters, clusters and classifies colour samples taken in
// enumeration order.
func (e *Extractor) ExtractSamples(samples []ColourSample) (*Palette, error) {
	if len(samples) == 0 {
		return nil, &ExtractionError{Err: ErrNoColours}
	}
	e.logger.Debug("counted colours", "unique", len(samples), "pixels", TotalCount(samples))

	filtered := FilterSamples(samples, e.cfg.Filter)
	e.logger.Debug("filtered colours", "remaining", len(filtered))

	clusters := ClusterSamples(filtered, e.cfg.ClusterDistance)
	e.logger.Debug("clustered colours", "clusters", len(clusters))

	p := Classify(clusters, e.cfg.NumColours, e.cfg.GrayscaleThreshold)
	e.logger.Debug("classified clusters", "chromatic", len(p.Chromatic), "grayscale", len(p.Grayscale))

	return p, nil
}

// Package config loads the folio site configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pdime/folio/internal/colour"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "folio.yaml"

// Config is the site configuration shared by every command.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Paths   PathsConfig   `yaml:"paths"`
	Palette PaletteConfig `yaml:"palette"`
	Convert ConvertConfig `yaml:"convert"`
	Icons   IconsConfig   `yaml:"icons"`
	Server  ServerConfig  `yaml:"server"`
	Watch   WatchConfig   `yaml:"watch"`
	Package PackageConfig `yaml:"package"`
}

// SiteConfig holds the strings shown on every page.
type SiteConfig struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Author  string `yaml:"author"`
}

// PathsConfig locates source material and generated output. Relative source
// entries resolve against SourceDir and relative output entries against
// OutputDir.
type PathsConfig struct {
	SourceDir string `yaml:"source_dir"`
	OutputDir string `yaml:"output_dir"`
	Templates string `yaml:"templates"`

	Logo             string `yaml:"logo"`
	Art              string `yaml:"art"`
	Dreams           string `yaml:"dreams"`
	MusicEmbeds      string `yaml:"music_embeds"`
	Melotations      string `yaml:"melotations"`
	Prose            string `yaml:"prose"`
	Poetry           string `yaml:"poetry"`
	ProseSummary     string `yaml:"prose_summary"`
	PoetrySummary    string `yaml:"poetry_summary"`
	PublicationsLogo string `yaml:"publications_logo"`
	Descriptions     string `yaml:"descriptions"`

	CSS string `yaml:"css"`
}

// PaletteConfig configures logo colour extraction.
type PaletteConfig struct {
	colour.ExtractorConfig `yaml:",inline"`

	// CSSColours caps the colours per stream written to the stylesheet.
	CSSColours int `yaml:"css_colours"`
}

// ConvertConfig configures HEIC conversion.
type ConvertConfig struct {
	MaxDimension int `yaml:"max_dimension"`
}

// IconsConfig configures favicon and Open Graph image generation.
type IconsConfig struct {
	FaviconSize    int     `yaml:"favicon_size"`
	ICOSizes       []int   `yaml:"ico_sizes"`
	AppleTouchSize int     `yaml:"apple_touch_size"`
	OGWidth        int     `yaml:"og_width"`
	OGHeight       int     `yaml:"og_height"`
	OGBackground   string  `yaml:"og_background"`
	OGHeightRatio  float64 `yaml:"og_height_ratio"`
	OGWidthRatio   float64 `yaml:"og_width_ratio"`
}

// ServerConfig configures the local preview server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WatchConfig configures rebuild-on-change.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// PackageConfig configures the deployable archive.
type PackageConfig struct {
	Name string `yaml:"name"`
}

// Default returns the configuration matching the site's standard layout.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Name:    "Perry Dime",
			Tagline: "Publications, Art, Dreams, and Music",
			Author:  "Jefferson Richards",
		},
		Paths: PathsConfig{
			SourceDir:        "source",
			OutputDir:        "docs",
			Templates:        "templates",
			Logo:             "branding/perrydime-logo.png",
			Art:              "art",
			Dreams:           "dreams",
			MusicEmbeds:      "productions/List-of-SoundCloud-Embed.html",
			Melotations:      "productions-melotations",
			Prose:            "publications-prose",
			Poetry:           "publications-poetry",
			ProseSummary:     "Prose-Summary.csv",
			PoetrySummary:    "Poetry-Summary.csv",
			PublicationsLogo: "perrydime-publications-logo.png",
			Descriptions:     "publication-descriptions.yaml",
			CSS:              "assets/css/variables.css",
		},
		Palette: PaletteConfig{
			ExtractorConfig: colour.DefaultExtractorConfig(),
			CSSColours:      5,
		},
		Convert: ConvertConfig{
			MaxDimension: 2400,
		},
		Icons: IconsConfig{
			FaviconSize:    32,
			ICOSizes:       []int{16, 32, 48},
			AppleTouchSize: 180,
			OGWidth:        1200,
			OGHeight:       630,
			OGBackground:   "#c8af99",
			OGHeightRatio:  0.85,
			OGWidthRatio:   0.9,
		},
		Server: ServerConfig{
			Port: 8000,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Package: PackageConfig{
			Name: "site",
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 - Config path is user-specified
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required paths are set and sizes are positive.
func (c *Config) Validate() error {
	required := []struct {
		key string
		val string
	}{
		{"paths.source_dir", c.Paths.SourceDir},
		{"paths.output_dir", c.Paths.OutputDir},
		{"paths.logo", c.Paths.Logo},
		{"paths.css", c.Paths.CSS},
	}
	for _, r := range required {
		if r.val == "" {
			return fmt.Errorf("%s is required", r.key)
		}
	}

	if err := c.Palette.Validate(); err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	if c.Palette.CSSColours < 1 {
		return fmt.Errorf("palette.css_colours must be at least 1, got %d", c.Palette.CSSColours)
	}

	sizes := []struct {
		key string
		val int
	}{
		{"convert.max_dimension", c.Convert.MaxDimension},
		{"icons.favicon_size", c.Icons.FaviconSize},
		{"icons.apple_touch_size", c.Icons.AppleTouchSize},
		{"icons.og_width", c.Icons.OGWidth},
		{"icons.og_height", c.Icons.OGHeight},
	}
	for _, s := range sizes {
		if s.val <= 0 {
			return fmt.Errorf("%s must be positive, got %d", s.key, s.val)
		}
	}

	if len(c.Icons.ICOSizes) == 0 {
		return fmt.Errorf("icons.ico_sizes cannot be empty")
	}
	for _, s := range c.Icons.ICOSizes {
		if s <= 0 || s > 256 {
			return fmt.Errorf("icons.ico_sizes entries must be between 1 and 256, got %d", s)
		}
	}
	if c.Icons.OGHeightRatio <= 0 || c.Icons.OGHeightRatio > 1 {
		return fmt.Errorf("icons.og_height_ratio must be in (0, 1], got %g", c.Icons.OGHeightRatio)
	}
	if c.Icons.OGWidthRatio <= 0 || c.Icons.OGWidthRatio > 1 {
		return fmt.Errorf("icons.og_width_ratio must be in (0, 1], got %g", c.Icons.OGWidthRatio)
	}
	if _, err := colour.ParseHex(c.Icons.OGBackground); err != nil {
		return fmt.Errorf("icons.og_background: %w", err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce cannot be negative")
	}

	return nil
}

// SourcePath resolves a source entry against the source directory.
func (c *Config) SourcePath(rel string) string {
	return resolve(c.Paths.SourceDir, rel)
}

// OutputPath joins elements onto the output directory.
func (c *Config) OutputPath(elem ...string) string {
	if len(elem) == 1 && filepath.IsAbs(elem[0]) {
		return elem[0]
	}
	return filepath.Join(append([]string{c.Paths.OutputDir}, elem...)...)
}

// LogoPath returns the resolved logo path.
func (c *Config) LogoPath() string {
	return c.SourcePath(c.Paths.Logo)
}

// CSSPath returns the resolved stylesheet path.
func (c *Config) CSSPath() string {
	return c.OutputPath(c.Paths.CSS)
}

func resolve(base, rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(base, rel)
}

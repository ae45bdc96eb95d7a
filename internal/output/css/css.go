// Package css renders the site's colour variables stylesheet from a palette.
package css

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/hashicorp/go-hclog"

	"github.com/pdime/folio/internal/colour"
	tmplloader "github.com/pdime/folio/internal/output/template"
)

//go:embed *.tmpl
var templates embed.FS

// TemplateGroup names the override directory for stylesheet templates.
const TemplateGroup = "css"

// TemplateName is the stylesheet template file.
const TemplateName = "variables.css.tmpl"

// DefaultColours is the number of colours per stream written to the stylesheet.
const DefaultColours = 5

// Generator renders variables.css.
type Generator struct {
	loader   *tmplloader.Loader
	siteName string
	colours  int
	logger   hclog.Logger
}

// NewGenerator creates a Generator. Overrides are read from templatesDir;
// colours caps each stream and falls back to DefaultColours when not positive.
func NewGenerator(siteName, templatesDir string, colours int, logger hclog.Logger) *Generator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if colours <= 0 {
		colours = DefaultColours
	}
	logger = logger.Named("css")
	return &Generator{
		loader:   tmplloader.New(TemplateGroup, templates, templatesDir).WithLogger(logger),
		siteName: siteName,
		colours:  colours,
		logger:   logger,
	}
}

// Loader returns the template loader so callers can list or dump templates.
func (g *Generator) Loader() *tmplloader.Loader {
	return g.loader
}

// Entry is one numbered colour line in the stylesheet.
type Entry struct {
	Index  int
	Colour colour.RGB
	Count  int
}

// Data is the template input.
type Data struct {
	SiteName  string
	Source    string
	Primary   []Entry
	Secondary []Entry
	Theme     colour.Theme
}

// NewData prepares template input from a palette. source names the image the
// palette was extracted from; only its base name is shown.
func NewData(siteName, source string, p *colour.Palette, colours int) Data {
	top := p.Top(colours)
	return Data{
		SiteName:  siteName,
		Source:    filepath.Base(source),
		Primary:   entries(top.Chromatic),
		Secondary: entries(top.Grayscale),
		Theme:     colour.DeriveTheme(p),
	}
}

func entries(cc []colour.ColourCount) []Entry {
	out := make([]Entry, len(cc))
	for i, c := range cc {
		out[i] = Entry{Index: i + 1, Colour: c.Colour, Count: c.Count}
	}
	return out
}

// Generate renders the stylesheet for a palette extracted from source.
func (g *Generator) Generate(source string, p *colour.Palette) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("palette cannot be nil")
	}

	content, fromCustom, err := g.loader.Load(TemplateName)
	if err != nil {
		return nil, err
	}
	if fromCustom {
		g.logger.Info("using custom stylesheet template", "path", g.loader.CustomPath(TemplateName))
	}

	tmpl, err := template.New(TemplateName).Funcs(templateFuncs()).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSS template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewData(g.siteName, source, p, g.colours)); err != nil {
		return nil, fmt.Errorf("failed to execute CSS template: %w", err)
	}

	return buf.Bytes(), nil
}

// Write stores rendered content at path, creating parent directories.
func Write(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Site output directories need standard permissions
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil { // #nosec G306 - Stylesheets are world-readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"hex":     func(c colour.RGB) string { return c.Hex() },
		"triplet": func(c colour.RGB) string { return c.Triplet() },
		"hsl": func(c colour.RGB) string {
			h, s, l := c.HSL()
			return fmt.Sprintf("%d, %d%%, %d%%", h, s, l)
		},
	}
}

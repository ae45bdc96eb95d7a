// Package site generates the portfolio's HTML pages from source material.
//
// Each page is rendered from embedded html/template files: a shared layout
// and navigation partial plus one content template per page. Any of them can
// be overridden by placing a file of the same name under
// {templates}/site/ in the site's templates directory.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/pdime/folio/internal/config"
	tmplloader "github.com/pdime/folio/internal/output/template"
	"github.com/pdime/folio/internal/util"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// TemplateGroup names the override directory for page templates.
const TemplateGroup = "site"

const (
	layoutTemplate = "layout.html.tmpl"
	navTemplate    = "nav.html.tmpl"
)

// Page file names, which double as navigation targets.
const (
	PageHome         = "index.html"
	PagePublications = "publications.html"
	PageArt          = "art.html"
	PageDreams       = "dreams.html"
	PageMusic        = "music.html"
)

// Generator renders site pages into the configured output directory.
type Generator struct {
	cfg    *config.Config
	loader *tmplloader.Loader
	logger hclog.Logger
}

// NewGenerator creates a page generator. A nil logger discards output.
func NewGenerator(cfg *config.Config, logger hclog.Logger) *Generator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("site")

	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates missing: %v", err))
	}

	return &Generator{
		cfg:    cfg,
		loader: tmplloader.New(TemplateGroup, sub, cfg.Paths.Templates).WithLogger(logger),
		logger: logger,
	}
}

// Loader returns the template loader so callers can list or dump templates.
func (g *Generator) Loader() *tmplloader.Loader {
	return g.loader
}

// NavLink is one entry in the site navigation.
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

// NavData is the input to the navigation partial.
type NavData struct {
	Site  config.SiteConfig
	Links []NavLink
}

// Hero is the heading block at the top of each generated page.
type Hero struct {
	Heading string
	Lead    string
}

// Page is the data handed to the layout template.
type Page struct {
	Site    config.SiteConfig
	Title   string
	Hero    Hero
	Nav     NavData
	Content any
}

// Navigation returns the site links with the entry for current marked active.
func Navigation(current string) []NavLink {
	links := []NavLink{
		{Href: PageHome, Label: "Home"},
		{Href: PagePublications, Label: "Publications"},
		{Href: PageArt, Label: "Art"},
		{Href: PageDreams, Label: "Dreams"},
		{Href: PageMusic, Label: "Music"},
	}
	for i := range links {
		links[i].Active = links[i].Href == current
	}
	return links
}

// newPage builds the layout data for a page. Its title is "{heading} | {site}".
func (g *Generator) newPage(file, heading, lead string, content any) Page {
	return Page{
		Site:    g.cfg.Site,
		Title:   fmt.Sprintf("%s | %s", heading, g.cfg.Site.Name),
		Hero:    Hero{Heading: heading, Lead: lead},
		Nav:     NavData{Site: g.cfg.Site, Links: Navigation(file)},
		Content: content,
	}
}

// load returns the named template source, reporting overrides at Info.
func (g *Generator) load(name string) (string, error) {
	content, fromCustom, err := g.loader.Load(name)
	if err != nil {
		return "", err
	}
	if fromCustom {
		g.logger.Info("using custom template", "path", g.loader.CustomPath(name))
	}
	return string(content), nil
}

// parse builds a template set from the named sources; the first becomes the root.
func (g *Generator) parse(names ...string) (*template.Template, error) {
	var root *template.Template
	for _, name := range names {
		src, err := g.load(name)
		if err != nil {
			return nil, err
		}
		if root == nil {
			root = template.New(name)
		}
		if _, err := root.Parse(src); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	return root, nil
}

// Render executes the layout with the content template for a page.
func (g *Generator) Render(contentTemplate string, page Page) ([]byte, error) {
	tmpl, err := g.parse(layoutTemplate, navTemplate, contentTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", contentTemplate, err)
	}
	return buf.Bytes(), nil
}

// RenderNav renders the navigation fragment with current marked active.
func (g *Generator) RenderNav(current string) ([]byte, error) {
	tmpl, err := g.parse(navTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := NavData{Site: g.cfg.Site, Links: Navigation(current)}
	if err := tmpl.ExecuteTemplate(&buf, "nav", data); err != nil {
		return nil, fmt.Errorf("failed to execute navigation template: %w", err)
	}
	return buf.Bytes(), nil
}

// writePage renders a page and writes it to the output directory, returning its path.
func (g *Generator) writePage(file, contentTemplate string, page Page) (string, error) {
	out, err := g.Render(contentTemplate, page)
	if err != nil {
		return "", err
	}

	path := g.cfg.OutputPath(file)
	if err := util.WriteFile(path, out); err != nil {
		return "", err
	}
	g.logger.Info("generated page", "path", path)
	return path, nil
}

// assetURL builds a site-relative URL from slash-separated parts.
func assetURL(parts ...string) string {
	return filepath.ToSlash(filepath.Join(parts...))
}

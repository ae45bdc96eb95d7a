package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	folioimage "github.com/pdime/folio/internal/image"
	"github.com/pdime/folio/internal/util"
)

const artContentTemplate = "art.html.tmpl"

// ArtImage is one gallery entry. Width and Height are zero when the image
// header could not be read.
type ArtImage struct {
	Path   string
	Title  string
	Width  int
	Height int
}

// ArtTab groups the images of one gallery folder.
type ArtTab struct {
	ID     string
	Label  string
	Icon   string
	Active bool
	Images []ArtImage
}

// ArtContent is the data for the art page.
type ArtContent struct {
	Tabs []ArtTab
}

// ArtResult summarises an art page run.
type ArtResult struct {
	Copied  int
	Skipped int
	Images  int
	Page    string
}

// artDestDir is relative to the output root.
var artDestDir = filepath.Join("assets", "img", "art")

// Art copies gallery images into the output tree and renders the art page.
func (g *Generator) Art() (*ArtResult, error) {
	result := &ArtResult{}
	if err := g.copyArt(result); err != nil {
		return nil, err
	}

	tabs, err := g.scanArt()
	if err != nil {
		return nil, err
	}
	for _, tab := range tabs {
		result.Images += len(tab.Images)
	}

	page := g.newPage(PageArt, "Art",
		fmt.Sprintf("Visual artwork, paintings, and creative explorations by %s.", g.cfg.Site.Name),
		ArtContent{Tabs: tabs})
	path, err := g.writePage(PageArt, artContentTemplate, page)
	if err != nil {
		return nil, err
	}
	result.Page = path

	g.logger.Info("art gallery generated", "tabs", len(tabs), "images", result.Images,
		"copied", result.Copied, "skipped", result.Skipped)
	return result, nil
}

// copyArt copies images from the art source root and its immediate
// subfolders, leaving existing targets untouched.
func (g *Generator) copyArt(result *ArtResult) error {
	src := g.cfg.SourcePath(g.cfg.Paths.Art)
	if !util.Exists(src) {
		g.logger.Warn("art source directory does not exist", "path", src)
		return nil
	}
	dest := g.cfg.OutputPath(artDestDir)
	if err := os.MkdirAll(dest, 0o755); err != nil { // #nosec G301 - Site output directories need standard permissions
		return fmt.Errorf("failed to create directory %s: %w", dest, err)
	}

	copyDir := func(from, to string) error {
		files, err := folioimage.ScanDirectoryForImages(from)
		if err != nil {
			return err
		}
		for _, f := range files {
			copied, err := util.CopyIfMissing(f, filepath.Join(to, filepath.Base(f)))
			if err != nil {
				return err
			}
			if copied {
				g.logger.Debug("copied art", "file", f)
				result.Copied++
			} else {
				result.Skipped++
			}
		}
		return nil
	}

	if err := copyDir(src, dest); err != nil {
		return err
	}

	dirs, err := util.ListDirs(src)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		to := filepath.Join(dest, d)
		if err := os.MkdirAll(to, 0o755); err != nil { // #nosec G301 - Site output directories need standard permissions
			return fmt.Errorf("failed to create directory %s: %w", to, err)
		}
		if err := copyDir(filepath.Join(src, d), to); err != nil {
			return err
		}
	}
	return nil
}

// scanArt builds the gallery tabs from the published art directory.
func (g *Generator) scanArt() ([]ArtTab, error) {
	dest := g.cfg.OutputPath(artDestDir)
	if _, err := os.Stat(dest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			g.logger.Warn("art output directory does not exist", "path", dest)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dest, err)
	}

	var tabs []ArtTab

	root, err := artImages(dest)
	if err != nil {
		return nil, err
	}
	if len(root) > 0 {
		tabs = append(tabs, ArtTab{ID: "general", Label: "General Collection", Icon: "🎨", Images: root})
	}

	dirs, err := util.ListDirs(dest)
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		images, err := artImages(filepath.Join(dest, d), d)
		if err != nil {
			return nil, err
		}
		if len(images) == 0 {
			continue
		}
		tabs = append(tabs, ArtTab{
			ID:     ArtTabID(d),
			Label:  ArtTabLabel(d),
			Icon:   ArtTabIcon(d),
			Images: images,
		})
	}

	if len(tabs) > 0 {
		tabs[0].Active = true
	}
	return tabs, nil
}

// artImages lists the gallery images in dir; sub is the folder below the art
// root, if any.
func artImages(dir string, sub ...string) ([]ArtImage, error) {
	files, err := folioimage.ScanDirectoryForImages(dir)
	if err != nil {
		return nil, err
	}

	images := make([]ArtImage, 0, len(files))
	for _, f := range files {
		parts := append([]string{"assets", "img", "art"}, sub...)
		parts = append(parts, filepath.Base(f))
		img := ArtImage{
			Path:  assetURL(parts...),
			Title: util.Humanize(util.Stem(f)),
		}
		if w, h, err := folioimage.GetImageDimensions(f); err == nil {
			img.Width, img.Height = w, h
		}
		images = append(images, img)
	}
	return images, nil
}

// ArtTabID converts a folder name to a tab identifier.
func ArtTabID(folder string) string {
	return strings.NewReplacer("_", "-", " ", "-").Replace(strings.ToLower(folder))
}

// ArtTabLabel converts a folder name to a tab label.
func ArtTabLabel(folder string) string {
	return util.TitleCase(strings.ReplaceAll(folder, "_", " "))
}

// ArtTabIcon picks a tab icon from keywords in the folder name.
func ArtTabIcon(folder string) string {
	lower := strings.ToLower(folder)
	switch {
	case strings.Contains(lower, "female"):
		return "👤"
	case strings.Contains(lower, "home"):
		return "🏠"
	default:
		return "🖼️"
	}
}

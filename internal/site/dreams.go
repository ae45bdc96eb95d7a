package site

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pdime/folio/internal/util"
)

const dreamsContentTemplate = "dreams.html.tmpl"

// dreamDateLayout accepts both padded and unpadded month and day.
const (
	dreamDateLayout  = "2006-1-2"
	dreamDateDisplay = "January 02, 2006"
)

// Dream is one dream journal entry.
type Dream struct {
	Title   string
	Date    string
	PDFPath string
}

// DreamsContent is the data for the dreams page.
type DreamsContent struct {
	Dreams []Dream
}

// DreamsResult summarises a dreams page run. Page is empty when no journals
// were found.
type DreamsResult struct {
	Dreams int
	Page   string
}

// isPDF matches lower-case .pdf names only.
func isPDF(name string) bool {
	return strings.HasSuffix(name, ".pdf")
}

// ParseDreamFilename derives the title and display date from a journal file
// name of the form YYYY-MM-DD_Title_Words.pdf. An unparsable date is shown as
// written; a name with no underscore has no date.
func ParseDreamFilename(name string) (title, date string) {
	stem := util.Stem(name)
	parts := strings.SplitN(stem, "_", 4)
	if len(parts) < 2 {
		return strings.ReplaceAll(stem, "_", " "), ""
	}

	date = parts[0]
	if t, err := time.Parse(dreamDateLayout, parts[0]); err == nil {
		date = t.Format(dreamDateDisplay)
	}
	title = strings.ReplaceAll(strings.Join(parts[1:], " "), "_", " ")
	return title, date
}

// Dreams copies the dream journals into the output tree and renders the
// dreams page, newest first. Nothing is rendered when there are no journals.
func (g *Generator) Dreams() (*DreamsResult, error) {
	src := g.cfg.SourcePath(g.cfg.Paths.Dreams)
	result := &DreamsResult{}
	if !util.Exists(src) {
		g.logger.Warn("dreams source directory not found", "path", src)
		return result, nil
	}

	files, err := util.ListFiles(src, isPDF)
	if err != nil {
		return nil, err
	}
	slices.Reverse(files)

	dreams := make([]Dream, 0, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		if err := util.CopyFile(f, g.cfg.OutputPath("assets", "pdfs", "dreams", name)); err != nil {
			return nil, err
		}
		g.logger.Debug("copied dream journal", "file", name)

		title, date := ParseDreamFilename(name)
		dreams = append(dreams, Dream{
			Title:   title,
			Date:    date,
			PDFPath: assetURL("assets", "pdfs", "dreams", name),
		})
	}
	result.Dreams = len(dreams)

	if len(dreams) == 0 {
		g.logger.Warn("no dreams found", "path", src)
		return result, nil
	}

	page := g.newPage(PageDreams, "Dreams", "Handwritten dream journals and reflections.",
		DreamsContent{Dreams: dreams})
	path, err := g.writePage(PageDreams, dreamsContentTemplate, page)
	if err != nil {
		return nil, err
	}
	result.Page = path
	return result, nil
}

package site

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdime/folio/internal/security"
	"github.com/pdime/folio/internal/util"
)

const publicationsContentTemplate = "publications.html.tmpl"

// Summary CSV columns.
const (
	colFolder      = "Folder"
	colMetadata    = "Metadata"
	colCover       = "Cover Art"
	colAmazonEbook = "Amazon eBook Link"
	colAmazonPrint = "Amazon Print link"
	colPDF         = "If No Amazon Link - then PDF Slip in Folder"
)

const (
	maxSummaryBytes  = 4 << 20
	maxMetadataBytes = 1 << 20
	shortDescRunes   = 200
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Publication is one book card.
type Publication struct {
	Folder           string
	Title            string
	Author           string
	Description      string
	ShortDescription string
	Year             string
	Cover            string
	AmazonEbook      string
	AmazonPrint      string
	PDF              string
}

// PublicationsContent is the data for the publications page.
type PublicationsContent struct {
	Logo      string
	Publisher string
	Prose     []Publication
	Poetry    []Publication
}

// PublicationsResult summarises a publications page run.
type PublicationsResult struct {
	Prose   int
	Poetry  int
	Skipped int
	Page    string
}

// Metadata is the descriptive part of a publication entry.
type Metadata struct {
	Title       string
	Author      string
	Description string
	Year        string
}

// ParseInlineMetadata splits a "Title: ... Author: ... Description: ...
// Written: ..." summary cell. Without an Author: marker nothing is extracted;
// without a Description: marker only the title is.
func ParseInlineMetadata(s string) Metadata {
	var m Metadata
	if strings.TrimSpace(s) == "" {
		return m
	}

	parts := strings.Split(s, "Author:")
	if len(parts) < 2 {
		return m
	}
	m.Title = strings.TrimSpace(strings.ReplaceAll(parts[0], "Title:", ""))

	descParts := strings.Split(parts[1], "Description:")
	if len(descParts) < 2 {
		return m
	}
	m.Author = strings.TrimSpace(descParts[0])

	written := strings.Split(descParts[1], "Written:")
	if len(written) >= 2 {
		m.Description = strings.TrimSpace(written[0])
		m.Year = strings.TrimSpace(written[1])
	} else {
		m.Description = strings.TrimSpace(descParts[1])
	}
	return m
}

// ReadSummary reads a publication summary CSV into one map per row keyed by
// header. A leading byte order mark is ignored.
func ReadSummary(path string) ([]map[string]string, error) {
	data, err := security.ReadFileLimited(path, maxSummaryBytes)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// defaultTitle derives a title from a publication folder name.
func defaultTitle(folder string) string {
	return util.TitleCase(strings.ReplaceAll(folder, "-", " "))
}

// jsonString renders a decoded JSON value as display text.
func jsonString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	}
}

// readMetadataJSON loads a metadata file. A missing, unreadable or empty
// object yields ok == false.
func readMetadataJSON(path string) (map[string]any, bool) {
	data, err := security.ReadFileLimited(path, maxMetadataBytes)
	if err != nil {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || len(m) == 0 {
		return nil, false
	}
	return m, true
}

// metadataFor resolves the descriptive fields for a summary row.
func (g *Generator) metadataFor(folder, pubDir, field string) Metadata {
	m := Metadata{Title: defaultTitle(folder), Author: g.cfg.Site.Author}

	if !strings.HasSuffix(field, ".json") {
		inline := ParseInlineMetadata(field)
		if inline.Title != "" {
			m.Title = inline.Title
		}
		if inline.Author != "" {
			m.Author = inline.Author
		}
		m.Description = inline.Description
		m.Year = inline.Year
		return m
	}

	if err := security.ValidateRelativePath(field, pubDir); err != nil {
		g.logger.Warn("invalid metadata path", "folder", folder, "error", err)
		return m
	}
	data, ok := readMetadataJSON(filepath.Join(pubDir, field))
	if !ok {
		return m
	}
	if v, ok := data["title"]; ok {
		m.Title = jsonString(v)
	}
	if v, ok := data["author"]; ok {
		m.Author = jsonString(v)
	}
	m.Description = jsonString(data["description"])
	if v, ok := data["publication_year"]; ok {
		m.Year = jsonString(v)
	} else {
		m.Year = jsonString(data["original_publication_year"])
	}
	return m
}

// resolveFolder finds a publication folder as written, then lower-cased.
func resolveFolder(baseDir, folder string) (string, bool) {
	for _, name := range []string{folder, strings.ToLower(folder)} {
		dir := filepath.Join(baseDir, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// publication processes one summary row. It returns nil when the row names
// no usable folder.
func (g *Generator) publication(row map[string]string, baseDir string) (*Publication, error) {
	folder := strings.TrimSpace(row[colFolder])
	if folder == "" {
		return nil, nil
	}
	if err := security.ValidateRelativePath(folder, baseDir); err != nil {
		g.logger.Warn("invalid publication folder", "folder", folder, "error", err)
		return nil, nil
	}
	pubDir, ok := resolveFolder(baseDir, folder)
	if !ok {
		g.logger.Warn("folder not found", "folder", folder)
		return nil, nil
	}

	meta := g.metadataFor(folder, pubDir, strings.TrimSpace(row[colMetadata]))
	pub := &Publication{
		Folder:           folder,
		Title:            meta.Title,
		Author:           meta.Author,
		Description:      meta.Description,
		ShortDescription: util.Truncate(meta.Description, shortDescRunes),
		Year:             meta.Year,
		AmazonEbook:      strings.TrimSpace(row[colAmazonEbook]),
		AmazonPrint:      strings.TrimSpace(row[colAmazonPrint]),
	}

	if cover := strings.TrimSpace(row[colCover]); cover != "" {
		path, err := g.copyPublicationAsset(pubDir, cover, fmt.Sprintf("pub-%s-%s", folder, cover), "img")
		if err != nil {
			return nil, err
		}
		pub.Cover = path
	}

	pdf := strings.TrimSpace(row[colPDF])
	if pdf != "" && pub.AmazonEbook == "" && pub.AmazonPrint == "" {
		path, err := g.copyPublicationAsset(pubDir, pdf, folder+".pdf", "pdfs")
		if err != nil {
			return nil, err
		}
		pub.PDF = path
	}

	return pub, nil
}

// copyPublicationAsset copies name from pubDir to assets/<kind>/<target>,
// overwriting, and returns its site URL. A missing or invalid source is a
// warning and yields "".
func (g *Generator) copyPublicationAsset(pubDir, name, target, kind string) (string, error) {
	if err := security.ValidateRelativePath(name, pubDir); err != nil {
		g.logger.Warn("invalid asset path", "file", name, "error", err)
		return "", nil
	}
	src := filepath.Join(pubDir, name)
	if !util.Exists(src) {
		g.logger.Warn("asset not found", "file", src)
		return "", nil
	}
	if err := util.CopyFile(src, g.cfg.OutputPath("assets", kind, target)); err != nil {
		return "", err
	}
	g.logger.Debug("copied asset", "file", name, "kind", kind)
	return assetURL("assets", kind, target), nil
}

// publicationsIn processes a summary CSV. A missing summary yields no entries.
func (g *Generator) publicationsIn(baseDir, summary string, result *PublicationsResult) ([]Publication, error) {
	csvPath := filepath.Join(baseDir, summary)
	if !util.Exists(csvPath) {
		g.logger.Warn("summary not found", "path", csvPath)
		return nil, nil
	}
	rows, err := ReadSummary(csvPath)
	if err != nil {
		return nil, err
	}

	var pubs []Publication
	for _, row := range rows {
		pub, err := g.publication(row, baseDir)
		if err != nil {
			return nil, err
		}
		if pub == nil {
			result.Skipped++
			continue
		}
		pubs = append(pubs, *pub)
	}
	return pubs, nil
}

// Publications renders the publications page from the prose and poetry
// summaries, copying covers, fallback PDFs and the publisher logo.
func (g *Generator) Publications() (*PublicationsResult, error) {
	result := &PublicationsResult{}
	proseDir := g.cfg.SourcePath(g.cfg.Paths.Prose)
	poetryDir := g.cfg.SourcePath(g.cfg.Paths.Poetry)

	prose, err := g.publicationsIn(proseDir, g.cfg.Paths.ProseSummary, result)
	if err != nil {
		return nil, err
	}
	poetry, err := g.publicationsIn(poetryDir, g.cfg.Paths.PoetrySummary, result)
	if err != nil {
		return nil, err
	}
	result.Prose, result.Poetry = len(prose), len(poetry)

	logoName := filepath.Base(g.cfg.Paths.PublicationsLogo)
	logoSrc := g.cfg.Paths.PublicationsLogo
	if !filepath.IsAbs(logoSrc) {
		logoSrc = filepath.Join(proseDir, logoSrc)
	}
	if util.Exists(logoSrc) {
		if err := util.CopyFile(logoSrc, g.cfg.OutputPath("assets", "img", logoName)); err != nil {
			return nil, err
		}
	} else {
		g.logger.Warn("publications logo not found", "path", logoSrc)
	}

	content := PublicationsContent{
		Logo:      assetURL("assets", "img", logoName),
		Publisher: g.cfg.Site.Name + " Publications",
		Prose:     prose,
		Poetry:    poetry,
	}
	page := g.newPage(PagePublications, "Publications",
		fmt.Sprintf("Literary works, essays, and poetry by %s Publications.", g.cfg.Site.Name), content)
	path, err := g.writePage(PagePublications, publicationsContentTemplate, page)
	if err != nil {
		return nil, err
	}
	result.Page = path

	g.logger.Info("publications generated", "prose", result.Prose, "poetry", result.Poetry, "skipped", result.Skipped)
	return result, nil
}

package site

import (
	"html"
	"path/filepath"
	"regexp"

	"github.com/pdime/folio/internal/security"
	"github.com/pdime/folio/internal/util"
)

const musicContentTemplate = "music.html.tmpl"

// maxEmbedBytes caps the SoundCloud embed list read into memory.
const maxEmbedBytes = 8 << 20

var (
	iframePattern  = regexp.MustCompile(`<iframe[^>]*src="([^"]*)"[^>]*></iframe>`)
	titlePattern   = regexp.MustCompile(`title="([^"]*)"[^>]*style="color: #cccccc; text-decoration: none;">([^<]*)</a></div>`)
	trackIDPattern = regexp.MustCompile(`tracks%253A(\d+)`)
	datePrefix     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_`)
)

// Track is one embedded SoundCloud player.
type Track struct {
	ID       string
	Title    string
	EmbedSrc string
}

// Melotation is one sheet music PDF.
type Melotation struct {
	Title string
	Path  string
}

// MusicContent is the data for the music page.
type MusicContent struct {
	Tracks      []Track
	Melotations []Melotation
}

// MusicResult summarises a music page run. Page is empty when no tracks were
// found.
type MusicResult struct {
	Tracks      int
	Melotations int
	Copied      int
	Skipped     int
	Page        string
}

// ParseTracks extracts players from a SoundCloud embed list. Titles are paired
// with players by position; players without a track id are dropped.
func ParseTracks(embedHTML string) []Track {
	iframes := iframePattern.FindAllStringSubmatch(embedHTML, -1)
	titles := titlePattern.FindAllStringSubmatch(embedHTML, -1)

	var tracks []Track
	for i, m := range iframes {
		src := html.UnescapeString(m[1])
		id := trackIDPattern.FindStringSubmatch(m[1])
		if id == nil {
			continue
		}

		title := "Unknown Track"
		if i < len(titles) {
			title = html.UnescapeString(titles[i][2])
		}
		tracks = append(tracks, Track{ID: id[1], Title: title, EmbedSrc: src})
	}
	return tracks
}

// MelotationTitle derives a display title from a sheet music file name,
// dropping a leading YYYY-MM-DD_ date.
func MelotationTitle(name string) string {
	return util.Humanize(datePrefix.ReplaceAllString(util.Stem(name), ""))
}

// Music copies sheet music into the output tree and renders the music page
// from the SoundCloud embed list.
func (g *Generator) Music() (*MusicResult, error) {
	result := &MusicResult{}

	melotations, err := g.copyMelotations(result)
	if err != nil {
		return nil, err
	}
	result.Melotations = len(melotations)

	embeds := g.cfg.SourcePath(g.cfg.Paths.MusicEmbeds)
	if !util.Exists(embeds) {
		g.logger.Warn("embed list not found, music page not generated", "path", embeds)
		return result, nil
	}
	data, err := security.ReadFileLimited(embeds, maxEmbedBytes)
	if err != nil {
		return nil, err
	}

	tracks := ParseTracks(string(data))
	result.Tracks = len(tracks)
	if len(tracks) == 0 {
		g.logger.Warn("no tracks found, music page not generated", "path", embeds)
		return result, nil
	}
	for i, t := range tracks {
		g.logger.Debug("track", "n", i+1, "title", t.Title, "id", t.ID)
	}

	page := g.newPage(PageMusic, "Music",
		"Musical compositions and sonic explorations by "+g.cfg.Site.Name+".",
		MusicContent{Tracks: tracks, Melotations: melotations})
	path, err := g.writePage(PageMusic, musicContentTemplate, page)
	if err != nil {
		return nil, err
	}
	result.Page = path
	return result, nil
}

func (g *Generator) copyMelotations(result *MusicResult) ([]Melotation, error) {
	src := g.cfg.SourcePath(g.cfg.Paths.Melotations)
	if !util.Exists(src) {
		g.logger.Warn("melotations directory does not exist", "path", src)
		return nil, nil
	}

	files, err := util.ListFiles(src, isPDF)
	if err != nil {
		return nil, err
	}

	melotations := make([]Melotation, 0, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		copied, err := util.CopyIfMissing(f, g.cfg.OutputPath("assets", "pdfs", "melotations", name))
		if err != nil {
			return nil, err
		}
		if copied {
			result.Copied++
		} else {
			result.Skipped++
		}
		melotations = append(melotations, Melotation{
			Title: MelotationTitle(name),
			Path:  assetURL("assets", "pdfs", "melotations", name),
		})
	}
	return melotations, nil
}

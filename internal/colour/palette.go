package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultNumColours is the per-stream length of an extracted palette.
const DefaultNumColours = 10

// ColourCount is a ranked palette entry: a cluster average and its pixel total.
type ColourCount struct {
	Colour RGB
	Count  int
}

// Palette is the outcome of an extraction: ranked chromatic and grayscale
// streams plus the unsplit ranked cluster list.
type Palette struct {
	Chromatic   []ColourCount
	Grayscale   []ColourCount
	AllClusters []ColourCount
}

// Classify splits ranked clusters into chromatic and grayscale streams by
// testing each cluster average. Order within a stream follows the input
// order. Each stream is truncated to numColours, and the unsplit list to
// twice that.
func Classify(clusters []*Cluster, numColours, grayscaleThreshold int) *Palette {
	p := &Palette{}
	for _, c := range clusters {
		entry := ColourCount{Colour: c.Average, Count: c.TotalCount}
		if IsGrayscale(c.Average, grayscaleThreshold) {
			p.Grayscale = append(p.Grayscale, entry)
		} else {
			p.Chromatic = append(p.Chromatic, entry)
		}
		p.AllClusters = append(p.AllClusters, entry)
	}

	p.Chromatic = truncate(p.Chromatic, numColours)
	p.Grayscale = truncate(p.Grayscale, numColours)
	p.AllClusters = truncate(p.AllClusters, 2*numColours)
	return p
}

// Top returns a copy of the palette with each stream cut to at most n entries.
func (p *Palette) Top(n int) *Palette {
	return &Palette{
		Chromatic:   truncate(p.Chromatic, n),
		Grayscale:   truncate(p.Grayscale, n),
		AllClusters: truncate(p.AllClusters, 2*n),
	}
}

// Empty reports whether the palette holds no clusters at all.
func (p *Palette) Empty() bool {
	return len(p.Chromatic) == 0 && len(p.Grayscale) == 0
}

func truncate(entries []ColourCount, n int) []ColourCount {
	if n < 0 {
		n = 0
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return append([]ColourCount(nil), entries...)
}

// ColourJSON represents a palette entry in JSON output format.
type ColourJSON struct {
	Hex    string `json:"hex"`
	RGB    RGB    `json:"rgb"`
	HSL    [3]int `json:"hsl"`
	Pixels int    `json:"pixels"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Chromatic   []ColourJSON `json:"chromatic"`
	Grayscale   []ColourJSON `json:"grayscale"`
	AllClusters []ColourJSON `json:"all_clusters"`
}

func toColourJSON(entries []ColourCount) []ColourJSON {
	out := make([]ColourJSON, len(entries))
	for i, e := range entries {
		h, s, l := e.Colour.HSL()
		out[i] = ColourJSON{
			Hex:    e.Colour.Hex(),
			RGB:    e.Colour,
			HSL:    [3]int{h, s, l},
			Pixels: e.Count,
		}
	}
	return out
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	return json.MarshalIndent(PaletteJSON{
		Chromatic:   toColourJSON(p.Chromatic),
		Grayscale:   toColourJSON(p.Grayscale),
		AllClusters: toColourJSON(p.AllClusters),
	}, "", "  ")
}

// String returns a human-readable listing of both streams.
func (p *Palette) String() string {
	return p.StringWithPreview(false)
}

// StringWithPreview lists both streams, optionally prefixing each colour with
// an ANSI swatch.
func (p *Palette) StringWithPreview(showPreview bool) string {
	var sb strings.Builder
	writeStream := func(title string, entries []ColourCount) {
		if len(entries) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s:\n", title)
		for i, e := range entries {
			swatch := ""
			if showPreview {
				swatch = ColourPreview(e.Colour, 4) + " "
			}
			fmt.Fprintf(&sb, "  %d. %s%s - RGB(%s) - %d pixels\n", i+1, swatch, e.Colour.Hex(), e.Colour.Triplet(), e.Count)
		}
	}

	if p.Empty() {
		return "Empty palette\n"
	}
	writeStream("PRIMARY (Chromatic) Colors", p.Chromatic)
	writeStream("SECONDARY (Grayscale) Colors", p.Grayscale)
	return sb.String()
}

package cli

import (
	"strings"
	"unicode/utf8"
)

// Table lays out rows in left-aligned columns separated by two spaces.
// Widths are measured in runes so paths with non-ASCII names line up.
type Table struct {
	headers   []string
	rows      [][]string
	gap       string
	maxWidths map[int]int
}

// NewTable creates a table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		gap:       "  ",
		maxWidths: map[int]int{},
	}
}

// SetColumnMaxWidth wraps cells in column col onto several lines once they
// exceed width runes. Text breaks after a path separator or at a space when
// possible.
func (t *Table) SetColumnMaxWidth(col, width int) {
	t.maxWidths[col] = width
}

// AddRow appends a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	r := make([]string, len(t.headers))
	copy(r, row)
	t.rows = append(t.rows, r)
}

// Render returns the table with a dashed rule under the headers. Trailing
// spaces are trimmed from every line.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	cells := make([][][]string, len(t.rows))
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for r, row := range t.rows {
		cells[r] = make([][]string, len(row))
		for c, cell := range row {
			lines := []string{cell}
			if limit := t.maxWidths[c]; limit > 0 {
				lines = wrapText(cell, limit)
			}
			cells[r][c] = lines
			for _, l := range lines {
				widths[c] = max(widths[c], utf8.RuneCountInString(l))
			}
		}
	}

	var b strings.Builder
	line := func(parts []string) {
		for i, p := range parts {
			parts[i] = padRight(p, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, t.gap), " "))
		b.WriteByte('\n')
	}

	line(append([]string(nil), t.headers...))
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	line(rule)

	for _, row := range cells {
		height := 1
		for _, c := range row {
			height = max(height, len(c))
		}
		for l := range height {
			parts := make([]string, len(row))
			for c, lines := range row {
				if l < len(lines) {
					parts[c] = lines[l]
				}
			}
			line(parts)
		}
	}
	return b.String()
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrapText splits text into lines of at most width runes, preferring to
// break after '/' or at a space.
func wrapText(text string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(text) <= width {
		return []string{text}
	}

	var lines []string
	rest := []rune(text)
	for len(rest) > width {
		cut := width
		for i := width; i > 0; i-- {
			if rest[i-1] == '/' || rest[i] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, strings.TrimRight(string(rest[:cut]), " "))
		rest = rest[cut:]
		for len(rest) > 0 && rest[0] == ' ' {
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		lines = append(lines, string(rest))
	}
	return lines
}

// Package util provides file and string helpers shared by the page generators.
package util

import (
	"path/filepath"
	"strings"
	"unicode"
)

// TitleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "home_decor" becomes "Home_Decor" and "don't"
// becomes "Don'T".
func TitleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}

// Humanize turns a file stem into display text by replacing underscores and
// hyphens with spaces.
func Humanize(stem string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(stem)
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Truncate cuts s to at most n runes, appending "..." when anything was removed.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

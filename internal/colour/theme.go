package colour

// Theme maps a palette onto the semantic roles used by the site stylesheet.
// Roles without a matching palette entry are nil.
type Theme struct {
	Brand         *RGB
	Accent        *RGB
	TextPrimary   *RGB
	TextSecondary *RGB

	// TextOnBrand is black or white depending on the brand luminance.
	// It is only meaningful when Brand is set.
	TextOnBrand RGB
}

// HasBrand reports whether a chromatic colour was available for the brand role.
func (t Theme) HasBrand() bool {
	return t.Brand != nil
}

// DeriveTheme assigns the top two chromatic colours to brand and accent, and
// the top two grayscale colours to primary and secondary text.
func DeriveTheme(p *Palette) Theme {
	var t Theme
	t.Brand = at(p.Chromatic, 0)
	t.Accent = at(p.Chromatic, 1)
	t.TextPrimary = at(p.Grayscale, 0)
	t.TextSecondary = at(p.Grayscale, 1)
	if t.Brand != nil {
		t.TextOnBrand = TextOn(*t.Brand)
	}
	return t
}

func at(entries []ColourCount, i int) *RGB {
	if i >= len(entries) {
		return nil
	}
	c := entries[i].Colour
	return &c
}

// Package colour provides palette extraction and colour conversion for the site theme.
package colour

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultGrayscaleThreshold is the max-min channel spread below which a colour
// counts as grayscale.
const DefaultGrayscaleThreshold = 15

// RGB represents a colour as three 8-bit channel intensities.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Black and White are the two text-on-brand candidates.
var (
	Black = RGB{R: 0, G: 0, B: 0}
	White = RGB{R: 255, G: 255, B: 255}
)

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Triplet returns the bare channel list used by CSS "-rgb" variables ("r, g, b").
func (rgb RGB) Triplet() string {
	return fmt.Sprintf("%d, %d, %d", rgb.R, rgb.G, rgb.B)
}

// ParseHex parses "#rrggbb" or "rrggbb" into an RGB value.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// HSL returns hue in degrees and saturation/lightness in percent.
// Each component is truncated toward zero rather than rounded.
func (rgb RGB) HSL() (h, s, l int) {
	hf, sf, lf := rgbToHSL(rgb)
	return int(hf * 360), int(sf * 100), int(lf * 100)
}

// rgbToHSL converts RGB to HSL with every component in [0, 1).
// The arithmetic follows the classic HLS formulation so that truncated
// percentages are stable for values sitting on integer boundaries.
func rgbToHSL(rgb RGB) (h, s, l float64) {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	sum := maxVal + minVal
	delta := maxVal - minVal

	l = sum / 2.0
	if delta == 0 {
		return 0, 0, l
	}

	if l <= 0.5 {
		s = delta / sum
	} else {
		s = delta / (2.0 - maxVal - minVal)
	}

	rc := (maxVal - r) / delta
	gc := (maxVal - g) / delta
	bc := (maxVal - b) / delta

	switch maxVal {
	case r:
		h = bc - gc
	case g:
		h = 2.0 + rc - bc
	default:
		h = 4.0 + gc - rc
	}

	h /= 6.0
	h -= math.Floor(h)
	return h, s, l
}

// Distance returns the Euclidean distance between two colours in RGB space.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// IsGrayscale reports whether the spread between the largest and smallest
// channel is below threshold. This is a saturation proxy, not HSL saturation.
func IsGrayscale(c RGB, threshold int) bool {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)
	return int(hi)-int(lo) < threshold
}

// Luminance calculates the relative luminance of a colour.
// Returns a value between 0 (darkest) and 1 (lightest).
func Luminance(c RGB) float64 {
	rf := gammaCorrect(float64(c.R) / 255.0)
	gf := gammaCorrect(float64(c.G) / 255.0)
	bf := gammaCorrect(float64(c.B) / 255.0)
	// Explicit conversions keep the compiler from fusing the multiply-adds.
	return float64(0.2126*rf) + float64(0.7152*gf) + float64(0.0722*bf)
}

// gammaCorrect applies the sRGB to linear transform to a colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// TextOn returns the text colour to use on top of bg: black on light
// backgrounds, white otherwise.
func TextOn(bg RGB) RGB {
	if Luminance(bg) > 0.5 {
		return Black
	}
	return White
}

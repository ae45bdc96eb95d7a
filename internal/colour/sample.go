package colour

import (
	"image"
)

// ColourSample is a distinct colour and the number of pixels that carry it.
type ColourSample struct {
	Colour RGB
	Count  int
}

// FilterConfig holds the thresholds used to discard background noise.
type FilterConfig struct {
	// NearWhite drops samples whose every channel exceeds this value.
	NearWhite uint8 `yaml:"near_white" json:"near_white"`

	// NearBlack and NearBlackMinCount drop samples whose every channel is
	// below NearBlack unless they cover at least NearBlackMinCount pixels.
	NearBlack         uint8 `yaml:"near_black" json:"near_black"`
	NearBlackMinCount int   `yaml:"near_black_min_count" json:"near_black_min_count"`
}

// DefaultFilterConfig returns the thresholds used for logo extraction.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		NearWhite:         240,
		NearBlack:         15,
		NearBlackMinCount: 100,
	}
}

// FilterSamples removes near-white samples and insignificant near-black samples.
// The relative order of the remaining samples is preserved.
func FilterSamples(samples []ColourSample, cfg FilterConfig) []ColourSample {
	filtered := make([]ColourSample, 0, len(samples))
	for _, s := range samples {
		c := s.Colour
		if c.R > cfg.NearWhite && c.G > cfg.NearWhite && c.B > cfg.NearWhite {
			continue
		}
		if c.R < cfg.NearBlack && c.G < cfg.NearBlack && c.B < cfg.NearBlack && s.Count < cfg.NearBlackMinCount {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// CountColours enumerates every distinct colour in img with its pixel count.
// Colours appear in the order they are first met scanning rows top to bottom,
// left to right, which keeps downstream clustering deterministic.
// Alpha is ignored; flatten transparent images before counting.
func CountColours(img image.Image) []ColourSample {
	bounds := img.Bounds()
	index := make(map[RGB]int)
	var samples []ColourSample

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rgb := RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			if i, ok := index[rgb]; ok {
				samples[i].Count++
				continue
			}
			index[rgb] = len(samples)
			samples = append(samples, ColourSample{Colour: rgb, Count: 1})
		}
	}

	return samples
}

// TotalCount sums the pixel counts of samples.
func TotalCount(samples []ColourSample) int {
	total := 0
	for _, s := range samples {
		total += s.Count
	}
	return total
}

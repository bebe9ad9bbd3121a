package outline

import (
	"math"
	"sort"
)

// DefaultBodySize is the body font size assumed when a document has no spans.
const DefaultBodySize = 12.0

// FontProfile summarizes font sizes across one document.
type FontProfile struct {
	BodySize   float64
	MeanSize   float64
	MedianSize float64
	MinSize    float64
	MaxSize    float64
	// Histogram counts occurrences per size rounded to two decimals.
	Histogram map[float64]int
	Spans     int
}

// LowConfidence reports whether the profile was built from no spans at all.
func (p FontProfile) LowConfidence() bool {
	return p.Spans == 0
}

// SizeRatio returns size relative to the body size. A non-positive body size
// falls back to DefaultBodySize so the ratio is always defined.
func (p FontProfile) SizeRatio(size float64) float64 {
	body := p.BodySize
	if body <= 0 {
		body = DefaultBodySize
	}
	return size / body
}

// Profile computes the font profile of spans. Body size is the most frequent
// rounded size, the smallest one winning ties; the remaining statistics use
// the unrounded sizes.
func Profile(spans []NormalizedSpan) FontProfile {
	if len(spans) == 0 {
		return FontProfile{BodySize: DefaultBodySize, Histogram: map[float64]int{}}
	}

	sizes := make([]float64, len(spans))
	hist := make(map[float64]int)
	sum := 0.0
	for i, s := range spans {
		sizes[i] = s.FontSize
		sum += s.FontSize
		hist[round2(s.FontSize)]++
	}

	body, bodyCount := 0.0, 0
	for size, n := range hist {
		if n > bodyCount || (n == bodyCount && size < body) {
			body, bodyCount = size, n
		}
	}

	sort.Float64s(sizes)
	return FontProfile{
		BodySize:   body,
		MeanSize:   sum / float64(len(sizes)),
		MedianSize: median(sizes),
		MinSize:    sizes[0],
		MaxSize:    sizes[len(sizes)-1],
		Histogram:  hist,
		Spans:      len(spans),
	}
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package outline

import (
	"math"
	"sort"
	"unicode/utf8"
)

// Filter factor names recorded on each candidate.
const (
	FactorSize       = "size"
	FactorBold       = "bold"
	FactorBrevity    = "brevity"
	FactorTop        = "top_of_page"
	FactorNoTerminal = "no_terminal_punctuation"
	FactorAllCaps    = "all_caps"
	FactorNumbered   = "numbered"
)

// Filter rejects body text and noise and scores the remaining spans. The
// returned candidates are ordered by page, then by vertical position.
func Filter(spans []NormalizedSpan, profile FontProfile, cfg FilterConfig) []HeadingCandidate {
	var out []HeadingCandidate
	for _, s := range spans {
		if rejected(s, cfg) {
			continue
		}
		if cfg.RequireProminence && !prominent(s, profile) {
			continue
		}
		score, factors := filterScore(s, profile, cfg.Weights)
		if score < cfg.Threshold {
			continue
		}
		out = append(out, HeadingCandidate{
			NormalizedSpan: s,
			FilterScore:    clampScore(score),
			Factors:        factors,
		})
	}
	sortByReadingOrder(out)
	return out
}

// rejected drops spans without a valid page, outside the length bounds, or
// carrying a noise marker.
func rejected(s NormalizedSpan, cfg FilterConfig) bool {
	if s.Page < 1 {
		return true
	}
	n := utf8.RuneCountInString(s.Normalized)
	if n < cfg.MinLength || n > cfg.MaxLength {
		return true
	}
	return containsNoise(s.Normalized)
}

// prominent is the size/weight gate: the span must stand out from the text
// around it by size, or be bold at roughly body size.
func prominent(s NormalizedSpan, p FontProfile) bool {
	body := p.BodySize
	if body <= 0 {
		body = DefaultBodySize
	}
	threshold := math.Max(body*1.1, p.MeanSize*1.05)
	return s.FontSize > threshold ||
		(s.IsBold && s.FontSize >= body*0.9) ||
		s.FontSize > p.MeanSize*1.3
}

func filterScore(s NormalizedSpan, p FontProfile, w FilterWeights) (float64, []string) {
	var (
		score   float64
		factors []string
	)
	add := func(name string, v float64) {
		score += v
		if v > 0 {
			factors = append(factors, name)
		}
	}

	ratio := p.SizeRatio(s.FontSize)
	add(FactorSize, math.Min(w.SizeMax, (ratio-1)*w.SizeScale))
	if s.IsBold {
		add(FactorBold, w.Bold)
	}
	if words := s.WordCount(); words <= w.BrevityMaxWords {
		add(FactorBrevity, w.BrevityBase-w.BrevityPerWord*float64(words))
	}
	if s.Position.Y < w.TopY {
		add(FactorTop, w.Top)
	}
	if !endsWithSentencePunct(s.Normalized) {
		add(FactorNoTerminal, w.NoTerminal)
	}
	if isAllCaps(s.Normalized) && utf8.RuneCountInString(s.Normalized) < w.AllCapsMaxLen {
		add(FactorAllCaps, w.AllCaps)
	}
	if hasNumericLead(s.Normalized) {
		add(FactorNumbered, w.Numbered)
	}
	return score, factors
}

func clampScore(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(v))
}

// sortByReadingOrder orders candidates by page, then top to bottom. The sort
// is stable so spans sharing a line keep their reader order.
func sortByReadingOrder(c []HeadingCandidate) {
	sort.SliceStable(c, func(i, j int) bool {
		if c[i].Page != c[j].Page {
			return c[i].Page < c[j].Page
		}
		return c[i].Position.Y < c[j].Position.Y
	})
}

package outline

import (
	"math"
	"strings"
	"unicode/utf8"
)

// TitleSelector picks the document title among the largest spans of the
// first pages. Its criteria are independent of heading classification.
type TitleSelector struct {
	cfg TitleConfig
}

// NewTitleSelector returns a selector using cfg.
func NewTitleSelector(cfg TitleConfig) *TitleSelector {
	return &TitleSelector{cfg: cfg}
}

// Select returns the best title, the first large span when none passes the
// text checks, or UntitledDocument when there is nothing to choose from.
func (t *TitleSelector) Select(spans []NormalizedSpan) Title {
	large := t.largest(spans)
	if len(large) == 0 {
		return Title{Text: UntitledDocument}
	}

	var (
		best      Title
		bestScore float64
		found     bool
	)
	for _, s := range large {
		n := utf8.RuneCountInString(s.Normalized)
		if n < t.cfg.MinLength || n > t.cfg.MaxLength || containsNoise(s.Normalized) {
			continue
		}
		score := t.score(s)
		if !found || score > bestScore {
			best = Title{Text: strings.TrimSpace(s.Text), Page: s.Page, Score: clampScore(score)}
			bestScore, found = score, true
		}
	}
	if found {
		return best
	}

	first := large[0]
	if text := strings.TrimSpace(first.Text); text != "" {
		return Title{Text: text, Page: first.Page}
	}
	return Title{Text: UntitledDocument}
}

// largest keeps the non-empty spans of the first pages whose size is within
// the configured tolerance of the largest one, in input order.
func (t *TitleSelector) largest(spans []NormalizedSpan) []NormalizedSpan {
	var early []NormalizedSpan
	maxSize := 0.0
	for _, s := range spans {
		if s.Page < 1 || s.Page > t.cfg.MaxPage || s.Normalized == "" {
			continue
		}
		early = append(early, s)
		maxSize = math.Max(maxSize, s.FontSize)
	}
	var out []NormalizedSpan
	for _, s := range early {
		if s.FontSize >= maxSize*t.cfg.SizeTolerance {
			out = append(out, s)
		}
	}
	return out
}

func (t *TitleSelector) score(s NormalizedSpan) float64 {
	w := t.cfg.Weights
	score := math.Min(w.SizeMax, s.FontSize*w.SizeScale)
	if s.IsBold {
		score += w.Bold
	}
	switch s.Page {
	case 1:
		score += w.FirstPage
	case 2:
		score += w.SecondPage
	}
	switch {
	case s.Position.Y < w.TopY:
		score += w.Top
	case s.Position.Y < w.UpperY:
		score += w.Upper
	}
	if words := s.WordCount(); words >= w.MinWords && words <= w.MaxWords {
		score += w.WordsBase - math.Abs(float64(words-w.WordsIdeal))
	}
	if !strings.HasSuffix(s.Normalized, ".") &&
		!strings.HasPrefix(s.Normalized, "Fig") &&
		!strings.HasPrefix(s.Normalized, "Table") {
		score += w.Clean
	}
	return score
}

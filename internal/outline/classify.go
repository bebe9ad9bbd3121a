package outline

import (
	"strings"
)

func (s *ClassificationScores) add(o ClassificationScores) {
	s.H1 += o.H1
	s.H2 += o.H2
	s.H3 += o.H3
}

// Classifier assigns H1/H2/H3 to heading candidates.
type Classifier struct {
	cfg ClassifyConfig
}

// NewClassifier returns a classifier using cfg.
func NewClassifier(cfg ClassifyConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify scores every candidate and resolves its level. The input slice is
// not modified; a new slice is returned in the same order.
func (c *Classifier) Classify(candidates []HeadingCandidate, profile FontProfile) []HeadingCandidate {
	out := make([]HeadingCandidate, len(candidates))
	for i, cand := range candidates {
		cand.Scores = c.Score(cand.NormalizedSpan, profile)
		cand.Level = c.resolve(cand, profile)
		out[i] = cand
	}
	return out
}

// Score computes the three level affinities of a span.
func (c *Classifier) Score(s NormalizedSpan, profile FontProfile) ClassificationScores {
	var sc ClassificationScores
	text := s.Normalized
	lower := strings.ToLower(text)
	words := s.WordCount()

	// Lexical.
	sc.H1 += c.cfg.Lexical.H1 * countTerms(lower, h1TermsFor(s.Language))
	if chapterMarker.MatchString(text) {
		sc.H1 += c.cfg.Lexical.H1
	}
	sc.H2 += c.cfg.Lexical.H2 * countTerms(lower, h2Terms)
	sc.H3 += c.cfg.Lexical.H3 * countTerms(lower, h3Terms)

	w := c.cfg.Weights

	// Position.
	sc.add(positionBonus(w, s.Position.Y))

	// Word count.
	switch {
	case words <= 1:
		sc.add(w.OneWord.scores())
	case words <= 3:
		sc.add(w.FewWords.scores())
	case words <= 6:
		sc.add(w.SomeWords.scores())
	default:
		sc.add(w.ManyWords.scores())
	}

	// Typography.
	sc.add(ratioBonus(w, profile.SizeRatio(s.FontSize)))
	if s.IsBold {
		sc.add(w.Bold.scores())
	}

	// Structural markers.
	if isAllCaps(text) {
		sc.add(w.AllCaps.scores())
	}
	switch {
	case numberedPrefix.MatchString(text):
		sc.add(w.Numbered.scores())
	case subnumberedPrefix.MatchString(text):
		sc.add(w.Subnumbered.scores())
	case letteredPrefix.MatchString(text):
		sc.add(w.Lettered.scores())
	case romanPrefix.MatchString(text):
		sc.add(w.Roman.scores())
	}
	switch {
	case strings.HasSuffix(text, ":"):
		sc.add(w.EndColon.scores())
	case strings.Contains(text, ":"):
		sc.add(w.InnerColon.scores())
	}
	if countTerms(lower, institutionTerms) > 0 {
		sc.add(w.Institution.scores())
	}
	return sc
}

func positionBonus(w ClassifyWeights, y float64) ClassificationScores {
	for _, b := range w.Position {
		if y < b.Limit {
			return b.Points.scores()
		}
	}
	return w.PositionElse.scores()
}

func ratioBonus(w ClassifyWeights, ratio float64) ClassificationScores {
	for _, b := range w.Ratio {
		if ratio >= b.Limit {
			return b.Points.scores()
		}
	}
	return w.RatioElse.scores()
}

// resolve picks the best scoring level, H1 winning ties over H2 over H3. A
// winner below its floor defers to the size and weight fallback.
func (c *Classifier) resolve(cand HeadingCandidate, profile FontProfile) Level {
	sc := cand.Scores
	level, score, floor := H1, sc.H1, c.cfg.Floors.H1
	if sc.H2 > score {
		level, score, floor = H2, sc.H2, c.cfg.Floors.H2
	}
	if sc.H3 > score {
		level, score, floor = H3, sc.H3, c.cfg.Floors.H3
	}
	if score >= floor {
		return level
	}
	return c.fallback(cand.NormalizedSpan, profile)
}

func (c *Classifier) fallback(s NormalizedSpan, profile FontProfile) Level {
	ratio := profile.SizeRatio(s.FontSize)
	words := s.WordCount()
	switch {
	case ratio >= c.cfg.Ratios.H1 || (s.IsBold && words <= c.cfg.BoldWordsH1):
		return H1
	case ratio >= c.cfg.Ratios.H2 || (s.IsBold && words <= c.cfg.BoldWordsH2):
		return H2
	default:
		return H3
	}
}

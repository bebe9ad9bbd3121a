package outline

import (
	"testing"

	"golang.org/x/text/language"
)

func TestClassifierScore(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classify)
	tests := []struct {
		name string
		in   TextSpan
		want ClassificationScores
	}{
		{
			name: "numbered introduction",
			in:   span("1. Introduction", 2, 18, true, 80),
			want: ClassificationScores{H1: 90, H2: 65, H3: 20},
		},
		{
			name: "plain section word",
			in:   span("Background", 2, 16, false, 200),
			want: ClassificationScores{H1: 55, H2: 40, H3: 5},
		},
		{
			name: "two section terms",
			in:   span("Introduction and Conclusion", 3, 12, false, 600),
			want: ClassificationScores{H1: 60, H2: 15, H3: 30},
		},
		{
			name: "subsection number",
			in:   span("2.1 Data Sources", 4, 14, true, 320),
			want: ClassificationScores{H1: 25, H2: 75, H3: 40},
		},
		{
			name: "trailing colon",
			in:   span("Key Skills:", 1, 12, true, 420),
			want: ClassificationScores{H1: 60, H2: 80, H3: 35},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Score(NormalizeSpan(tt.in), bodyProfile())
			if got != tt.want {
				t.Errorf("Score(%q) = %+v, want %+v", tt.in.Text, got, tt.want)
			}
		})
	}
}

func TestClassifierWeightsOverride(t *testing.T) {
	cfg := DefaultConfig().Classify
	cfg.Weights.Bold = LevelValues{}
	cfg.Weights.Position = []Band{{Limit: 100, Points: LevelValues{H3: 40}}}
	cfg.Weights.PositionElse = LevelValues{}
	c := NewClassifier(cfg)

	// Defaults give 90/65/20: bold (15/15/10) and y<150 (20/0/0) are replaced
	// by y<100 (0/0/40).
	got := c.Score(NormalizeSpan(span("1. Introduction", 2, 18, true, 80)), bodyProfile())
	if want := (ClassificationScores{H1: 55, H2: 50, H3: 50}); got != want {
		t.Errorf("Score = %+v, want %+v", got, want)
	}
	got = c.Score(NormalizeSpan(span("1. Introduction", 2, 18, true, 120)), bodyProfile())
	if want := (ClassificationScores{H1: 55, H2: 50, H3: 10}); got != want {
		t.Errorf("Score below the band = %+v, want %+v", got, want)
	}
}

func TestClassifyLevels(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classify)
	tests := []struct {
		name string
		in   TextSpan
		want Level
	}{
		{"numbered introduction", span("1. Introduction", 2, 18, true, 80), H1},
		{"plain section word", span("Background", 2, 16, false, 200), H1},
		// h1 and h2 both score 25; H1 wins the tie.
		{"tie", span("Widgets", 3, 12, false, 200), H1},
		{"subsection number", span("2.1 Data Sources", 4, 14, true, 320), H2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []HeadingCandidate{{NormalizedSpan: NormalizeSpan(tt.in)}}
			got := c.Classify(in, bodyProfile())
			if got[0].Level != tt.want {
				t.Errorf("Level = %v (scores %+v), want %v", got[0].Level, got[0].Scores, tt.want)
			}
			if in[0].Level != LevelUnknown {
				t.Error("Classify modified its input")
			}
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	cfg := DefaultConfig().Classify
	cfg.Floors = LevelValues{H1: 1000, H2: 1000, H3: 1000}
	c := NewClassifier(cfg)
	tests := []struct {
		name string
		in   TextSpan
		want Level
	}{
		{"large", span("Widgets and gadgets", 1, 24, false, 600), H1},
		{"bold two words", span("Widget list", 1, 12, true, 600), H1},
		{"medium", span("Widgets and gadgets", 1, 15, false, 600), H2},
		{"bold four words", span("All the widget types", 1, 12, true, 600), H2},
		{"plain", span("Widgets and gadgets", 1, 12, false, 600), H3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify([]HeadingCandidate{{NormalizedSpan: NormalizeSpan(tt.in)}}, bodyProfile())
			if got[0].Level != tt.want {
				t.Errorf("Level = %v, want %v", got[0].Level, tt.want)
			}
		})
	}
}

func TestClassifyFallbackBelowH2Ratio(t *testing.T) {
	// Anything under the h2 guide is H3, whatever the h3 guide says.
	for _, h3 := range []float64{0.5, 1.1, 1.19} {
		cfg := DefaultConfig().Classify
		cfg.Floors = LevelValues{H1: 1000, H2: 1000, H3: 1000}
		cfg.Ratios.H3 = h3
		c := NewClassifier(cfg)
		for _, size := range []float64{10, 13} {
			got := c.Classify([]HeadingCandidate{{NormalizedSpan: NormalizeSpan(span("Widgets and gadgets", 1, size, false, 600))}}, bodyProfile())
			if got[0].Level != H3 {
				t.Errorf("h3 guide %v, size %v: Level = %v, want H3", h3, size, got[0].Level)
			}
		}
	}
}

func TestClassifyLocalizedTerms(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classify)
	s := NormalizeSpan(span("Introducción general", 1, 12, false, 600))
	if s.Language != language.Spanish {
		t.Fatalf("Language = %v, want es", s.Language)
	}
	es := c.Score(s, bodyProfile())
	s.Language = language.English
	en := c.Score(s, bodyProfile())
	if es.H1-en.H1 != 25 {
		t.Errorf("localized h1 bonus = %d, want 25", es.H1-en.H1)
	}
}

func TestClassifyKanjiOnlyJapaneseTerms(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classify)
	for _, text := range []string{"目次", "結論", "付録"} {
		s := NormalizeSpan(span(text, 1, 12, false, 600))
		if s.Language != language.Chinese {
			t.Fatalf("%s: Language = %v, want zh", text, s.Language)
		}
		got := c.Score(s, bodyProfile())
		s.Language = language.English
		if diff := got.H1 - c.Score(s, bodyProfile()).H1; diff != 25 {
			t.Errorf("%s: h1 term bonus = %d, want 25", text, diff)
		}
	}
}

func TestClassifyChapterMarker(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classify)
	chapter := c.Score(NormalizeSpan(span("第三章 方法", 1, 12, false, 600)), bodyProfile())
	section := c.Score(NormalizeSpan(span("第三节 方法", 1, 12, false, 600)), bodyProfile())
	if chapter.H1-section.H1 != 25 {
		t.Errorf("chapter bonus = %d, want 25", chapter.H1-section.H1)
	}
}

func TestClassifyFlatDocument(t *testing.T) {
	// Every span at body size: levels come from text and position only.
	flat := FontProfile{BodySize: 12, MeanSize: 12, MedianSize: 12, MinSize: 12, MaxSize: 12, Spans: 10}
	c := NewClassifier(DefaultConfig().Classify)
	got := c.Classify([]HeadingCandidate{
		{NormalizedSpan: NormalizeSpan(span("Education", 1, 12, false, 100))},
		{NormalizedSpan: NormalizeSpan(span("Programming Languages", 1, 12, false, 600))},
	}, flat)
	if got[0].Level != H1 {
		t.Errorf("Education = %v, want H1", got[0].Level)
	}
	if got[1].Level != H3 {
		t.Errorf("Programming Languages = %v (scores %+v), want H3", got[1].Level, got[1].Scores)
	}
}

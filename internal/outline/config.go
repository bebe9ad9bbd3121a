package outline

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every *ConfigError via errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports an out-of-range option. It is fatal: a pipeline must
// not be built from a configuration that fails validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// FilterWeights are the additive factors of the candidate filter.
type FilterWeights struct {
	SizeMax         float64 `yaml:"size_max"`
	SizeScale       float64 `yaml:"size_scale"`
	Bold            float64 `yaml:"bold"`
	BrevityBase     float64 `yaml:"brevity_base"`
	BrevityPerWord  float64 `yaml:"brevity_per_word"`
	BrevityMaxWords int     `yaml:"brevity_max_words"`
	Top             float64 `yaml:"top"`
	TopY            float64 `yaml:"top_y"`
	NoTerminal      float64 `yaml:"no_terminal_punctuation"`
	AllCaps         float64 `yaml:"all_caps"`
	AllCapsMaxLen   int     `yaml:"all_caps_max_len"`
	Numbered        float64 `yaml:"numbered"`
}

// FilterConfig controls the candidate filter.
type FilterConfig struct {
	// Threshold is the minimum score a span needs to become a candidate.
	Threshold float64 `yaml:"threshold"`
	MinLength int     `yaml:"min_length"`
	MaxLength int     `yaml:"max_length"`
	// RequireProminence additionally rejects spans that are neither larger
	// than the surrounding text nor bold.
	RequireProminence bool          `yaml:"require_prominence"`
	Weights           FilterWeights `yaml:"weights"`
}

// LevelValues holds one integer per heading level.
type LevelValues struct {
	H1 int `yaml:"h1"`
	H2 int `yaml:"h2"`
	H3 int `yaml:"h3"`
}

func (v LevelValues) scores() ClassificationScores {
	return ClassificationScores{H1: v.H1, H2: v.H2, H3: v.H3}
}

// RatioGuides are the font-size ratios used by the fallback rule. Sizes at
// or above H1 fall back to H1, at or above H2 to H2, anything else to H3. H3
// only anchors the ordering check (h1 > h2 > h3 > 0); it is part of the
// configuration surface but no rule reads it.
type RatioGuides struct {
	H1 float64 `yaml:"h1"`
	H2 float64 `yaml:"h2"`
	H3 float64 `yaml:"h3"`
}

// Band awards Points when a measured value crosses Limit.
type Band struct {
	Limit  float64     `yaml:"limit"`
	Points LevelValues `yaml:"points"`
}

// ClassifyWeights are the additive signal tables of the classifier.
type ClassifyWeights struct {
	// Position bands apply to the first y below Limit, top of page first.
	// PositionElse applies further down.
	Position     []Band      `yaml:"position"`
	PositionElse LevelValues `yaml:"position_else"`
	// Ratio bands apply to the first size ratio at or above Limit, largest
	// first. RatioElse applies below the last band.
	Ratio     []Band      `yaml:"ratio"`
	RatioElse LevelValues `yaml:"ratio_else"`
	Bold      LevelValues `yaml:"bold"`

	AllCaps     LevelValues `yaml:"all_caps"`
	Numbered    LevelValues `yaml:"numbered"`    // "1. "
	Subnumbered LevelValues `yaml:"subnumbered"` // "1.2 "
	Lettered    LevelValues `yaml:"lettered"`    // "a) ", "A. "
	Roman       LevelValues `yaml:"roman"`
	InnerColon  LevelValues `yaml:"inner_colon"`
	EndColon    LevelValues `yaml:"end_colon"`
	Institution LevelValues `yaml:"institution"`

	// Word count bands: 1, 2-3, 4-6 and more than 6 words.
	OneWord   LevelValues `yaml:"one_word"`
	FewWords  LevelValues `yaml:"few_words"`
	SomeWords LevelValues `yaml:"some_words"`
	ManyWords LevelValues `yaml:"many_words"`
}

// ClassifyConfig controls the level classifier.
type ClassifyConfig struct {
	// Lexical is added per matching term of each level's term list.
	Lexical LevelValues     `yaml:"lexical"`
	Weights ClassifyWeights `yaml:"weights"`
	// Floors are the minimum winning scores before falling back.
	Floors LevelValues `yaml:"floors"`
	Ratios RatioGuides `yaml:"ratios"`
	// BoldWords are the word counts under which bold text falls back to H1/H2.
	BoldWordsH1 int `yaml:"bold_words_h1"`
	BoldWordsH2 int `yaml:"bold_words_h2"`
}

// RefineConfig controls the hierarchy refiner.
type RefineConfig struct {
	// MinH2 is the h2 score an H1 between two H3s needs to be demoted.
	MinH2 int `yaml:"min_h2"`
}

// TitleWeights are the additive factors of the title selector.
type TitleWeights struct {
	SizeMax    float64 `yaml:"size_max"`
	SizeScale  float64 `yaml:"size_scale"`
	Bold       float64 `yaml:"bold"`
	FirstPage  float64 `yaml:"first_page"`
	SecondPage float64 `yaml:"second_page"`
	Top        float64 `yaml:"top"`
	TopY       float64 `yaml:"top_y"`
	Upper      float64 `yaml:"upper"`
	UpperY     float64 `yaml:"upper_y"`
	WordsBase  float64 `yaml:"words_base"`
	WordsIdeal int     `yaml:"words_ideal"`
	MinWords   int     `yaml:"min_words"`
	MaxWords   int     `yaml:"max_words"`
	Clean      float64 `yaml:"clean"`
}

// TitleConfig controls the title selector.
type TitleConfig struct {
	MaxPage int `yaml:"max_page"`
	// SizeTolerance keeps spans at or above this fraction of the largest size.
	SizeTolerance float64      `yaml:"size_tolerance"`
	MinLength     int          `yaml:"min_length"`
	MaxLength     int          `yaml:"max_length"`
	Weights       TitleWeights `yaml:"weights"`
}

// AssembleConfig controls the outline assembler.
type AssembleConfig struct {
	MaxHeadings int `yaml:"max_headings"`
	// ExcludeTitle drops headings repeating the title on the title's page.
	ExcludeTitle bool `yaml:"exclude_title"`
}

// Config gathers the options of every pipeline stage.
type Config struct {
	Filter   FilterConfig   `yaml:"filter"`
	Classify ClassifyConfig `yaml:"classify"`
	Refine   RefineConfig   `yaml:"refine"`
	Title    TitleConfig    `yaml:"title"`
	Assemble AssembleConfig `yaml:"assemble"`
}

// DefaultConfig returns the canonical weights and thresholds.
func DefaultConfig() Config {
	return Config{
		Filter: FilterConfig{
			Threshold: 25,
			MinLength: 3,
			MaxLength: 200,
			Weights: FilterWeights{
				SizeMax:         40,
				SizeScale:       20,
				Bold:            20,
				BrevityBase:     20,
				BrevityPerWord:  2,
				BrevityMaxWords: 8,
				Top:             10,
				TopY:            200,
				NoTerminal:      5,
				AllCaps:         10,
				AllCapsMaxLen:   50,
				Numbered:        8,
			},
		},
		Classify: ClassifyConfig{
			Lexical:     LevelValues{H1: 25, H2: 20, H3: 15},
			Weights:     defaultClassifyWeights(),
			Floors:      LevelValues{H1: 25, H2: 20, H3: 15},
			Ratios:      RatioGuides{H1: 1.5, H2: 1.2, H3: 1.1},
			BoldWordsH1: 2,
			BoldWordsH2: 4,
		},
		Refine: RefineConfig{MinH2: 15},
		Title: TitleConfig{
			MaxPage:       2,
			SizeTolerance: 0.95,
			MinLength:     5,
			MaxLength:     150,
			Weights: TitleWeights{
				SizeMax:    40,
				SizeScale:  2,
				Bold:       20,
				FirstPage:  20,
				SecondPage: 10,
				Top:        15,
				TopY:       200,
				Upper:      10,
				UpperY:     400,
				WordsBase:  15,
				WordsIdeal: 6,
				MinWords:   2,
				MaxWords:   12,
				Clean:      10,
			},
		},
		Assemble: AssembleConfig{MaxHeadings: 50, ExcludeTitle: true},
	}
}

func defaultClassifyWeights() ClassifyWeights {
	return ClassifyWeights{
		Position: []Band{
			{150, LevelValues{H1: 20}},
			{300, LevelValues{H1: 10, H2: 15}},
			{500, LevelValues{H2: 10, H3: 5}},
		},
		PositionElse: LevelValues{H3: 10},
		Ratio: []Band{
			{2.0, LevelValues{H1: 20}},
			{1.6, LevelValues{H1: 15, H2: 10}},
			{1.3, LevelValues{H1: 5, H2: 15, H3: 5}},
			{1.1, LevelValues{H2: 10, H3: 10}},
		},
		RatioElse:   LevelValues{H3: 15},
		Bold:        LevelValues{H1: 15, H2: 15, H3: 10},
		AllCaps:     LevelValues{H1: 20, H2: 10},
		Numbered:    LevelValues{H1: 15, H2: 20},
		Subnumbered: LevelValues{H2: 25, H3: 10},
		Lettered:    LevelValues{H2: 15, H3: 20},
		Roman:       LevelValues{H2: 10, H3: 15},
		InnerColon:  LevelValues{H2: 10, H3: 15},
		EndColon:    LevelValues{H1: 10, H2: 20},
		Institution: LevelValues{H2: 15, H3: 10},
		OneWord:     LevelValues{H1: 15, H2: 10},
		FewWords:    LevelValues{H1: 10, H2: 15, H3: 5},
		SomeWords:   LevelValues{H2: 10, H3: 10},
		ManyWords:   LevelValues{H3: 5},
	}
}

type numField struct {
	field string
	v     float64
}

func levelFields(prefix string, v LevelValues) []numField {
	return []numField{
		{prefix + ".h1", float64(v.H1)},
		{prefix + ".h2", float64(v.H2)},
		{prefix + ".h3", float64(v.H3)},
	}
}

func (w ClassifyWeights) fields() []numField {
	var out []numField
	for i, b := range w.Position {
		p := fmt.Sprintf("classify.weights.position[%d]", i)
		out = append(out, numField{p + ".limit", b.Limit})
		out = append(out, levelFields(p+".points", b.Points)...)
	}
	for i, b := range w.Ratio {
		p := fmt.Sprintf("classify.weights.ratio[%d]", i)
		out = append(out, numField{p + ".limit", b.Limit})
		out = append(out, levelFields(p+".points", b.Points)...)
	}
	for _, lv := range []struct {
		name string
		v    LevelValues
	}{
		{"position_else", w.PositionElse},
		{"ratio_else", w.RatioElse},
		{"bold", w.Bold},
		{"all_caps", w.AllCaps},
		{"numbered", w.Numbered},
		{"subnumbered", w.Subnumbered},
		{"lettered", w.Lettered},
		{"roman", w.Roman},
		{"inner_colon", w.InnerColon},
		{"end_colon", w.EndColon},
		{"institution", w.Institution},
		{"one_word", w.OneWord},
		{"few_words", w.FewWords},
		{"some_words", w.SomeWords},
		{"many_words", w.ManyWords},
	} {
		out = append(out, levelFields("classify.weights."+lv.name, lv.v)...)
	}
	return out
}

// Validate rejects negative weights, empty ranges and ratio guides that are
// not strictly decreasing.
func (c Config) Validate() error {
	fw := c.Filter.Weights
	tw := c.Title.Weights
	nonNeg := []numField{
		{"filter.threshold", c.Filter.Threshold},
		{"filter.weights.size_max", fw.SizeMax},
		{"filter.weights.size_scale", fw.SizeScale},
		{"filter.weights.bold", fw.Bold},
		{"filter.weights.brevity_base", fw.BrevityBase},
		{"filter.weights.brevity_per_word", fw.BrevityPerWord},
		{"filter.weights.top", fw.Top},
		{"filter.weights.top_y", fw.TopY},
		{"filter.weights.no_terminal_punctuation", fw.NoTerminal},
		{"filter.weights.all_caps", fw.AllCaps},
		{"filter.weights.numbered", fw.Numbered},
		{"classify.lexical.h1", float64(c.Classify.Lexical.H1)},
		{"classify.lexical.h2", float64(c.Classify.Lexical.H2)},
		{"classify.lexical.h3", float64(c.Classify.Lexical.H3)},
		{"classify.floors.h1", float64(c.Classify.Floors.H1)},
		{"classify.floors.h2", float64(c.Classify.Floors.H2)},
		{"classify.floors.h3", float64(c.Classify.Floors.H3)},
		{"classify.bold_words_h1", float64(c.Classify.BoldWordsH1)},
		{"classify.bold_words_h2", float64(c.Classify.BoldWordsH2)},
		{"refine.min_h2", float64(c.Refine.MinH2)},
		{"title.weights.size_max", tw.SizeMax},
		{"title.weights.size_scale", tw.SizeScale},
		{"title.weights.bold", tw.Bold},
		{"title.weights.first_page", tw.FirstPage},
		{"title.weights.second_page", tw.SecondPage},
		{"title.weights.top", tw.Top},
		{"title.weights.upper", tw.Upper},
		{"title.weights.words_base", tw.WordsBase},
		{"title.weights.clean", tw.Clean},
	}
	nonNeg = append(nonNeg, c.Classify.Weights.fields()...)
	for _, f := range nonNeg {
		if f.v < 0 {
			return &ConfigError{Field: f.field, Reason: fmt.Sprintf("must not be negative, got %v", f.v)}
		}
	}

	if c.Filter.MinLength < 0 || c.Filter.MaxLength < c.Filter.MinLength {
		return &ConfigError{Field: "filter.min_length/max_length", Reason: "must form a non-empty range"}
	}
	r := c.Classify.Ratios
	if r.H3 <= 0 || r.H2 <= r.H3 || r.H1 <= r.H2 {
		return &ConfigError{Field: "classify.ratios", Reason: fmt.Sprintf("must satisfy h1 > h2 > h3 > 0, got %v/%v/%v", r.H1, r.H2, r.H3)}
	}
	cw := c.Classify.Weights
	for i := 1; i < len(cw.Position); i++ {
		if cw.Position[i].Limit <= cw.Position[i-1].Limit {
			return &ConfigError{Field: "classify.weights.position", Reason: "limits must be strictly increasing"}
		}
	}
	for i := 1; i < len(cw.Ratio); i++ {
		if cw.Ratio[i].Limit >= cw.Ratio[i-1].Limit {
			return &ConfigError{Field: "classify.weights.ratio", Reason: "limits must be strictly decreasing"}
		}
	}
	if c.Title.MaxPage < 1 {
		return &ConfigError{Field: "title.max_page", Reason: "must be at least 1"}
	}
	if c.Title.SizeTolerance <= 0 || c.Title.SizeTolerance > 1 {
		return &ConfigError{Field: "title.size_tolerance", Reason: "must be in (0, 1]"}
	}
	if c.Title.MinLength < 0 || c.Title.MaxLength < c.Title.MinLength {
		return &ConfigError{Field: "title.min_length/max_length", Reason: "must form a non-empty range"}
	}
	if tw.MinWords < 0 || tw.MaxWords < tw.MinWords {
		return &ConfigError{Field: "title.weights.min_words/max_words", Reason: "must form a non-empty range"}
	}
	if c.Assemble.MaxHeadings < 1 {
		return &ConfigError{Field: "assemble.max_headings", Reason: "must be at least 1"}
	}
	return nil
}

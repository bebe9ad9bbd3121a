// Package outline turns positioned, font-annotated text spans into a document
// outline: a title and a flat, reading-ordered list of H1/H2/H3 headings.
//
// The pipeline runs synchronously per document:
//
//	Normalize -> Profile -> Filter -> Classify -> Refine -> SelectTitle -> Assemble
//
// Every stage is total. Empty input yields UntitledDocument and no headings.
// An Analyzer holds no per-document state and is safe for concurrent use.
package outline

import (
	"log/slog"
)

// Analyzer runs the outline pipeline with a validated configuration.
type Analyzer struct {
	cfg        Config
	classifier *Classifier
	titles     *TitleSelector
	logger     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for per-stage diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer validates cfg and returns an Analyzer. An invalid configuration
// is returned as a *ConfigError.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{
		cfg:        cfg,
		classifier: NewClassifier(cfg.Classify),
		titles:     NewTitleSelector(cfg.Title),
	}
	for _, o := range opts {
		o(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a, nil
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Report is the outline plus the intermediate results that produced it.
type Report struct {
	Profile    FontProfile
	Candidates []HeadingCandidate
	Outline    Outline
}

// Analyze returns the outline of one document.
func (a *Analyzer) Analyze(spans []TextSpan) Outline {
	return a.Inspect(spans).Outline
}

// Inspect runs the pipeline and keeps the font profile and the classified,
// refined candidates for diagnostics.
func (a *Analyzer) Inspect(spans []TextSpan) Report {
	normalized := Normalize(spans)

	profile := Profile(normalized)
	if profile.LowConfidence() {
		a.logger.Debug("no spans to profile, using default body size", "body_size", profile.BodySize)
	} else {
		a.logger.Debug("font analysis",
			"body_size", profile.BodySize,
			"mean", profile.MeanSize,
			"median", profile.MedianSize,
			"min", profile.MinSize,
			"max", profile.MaxSize,
			"distinct_sizes", len(profile.Histogram))
	}

	candidates := Filter(normalized, profile, a.cfg.Filter)
	a.logger.Debug("heading candidates", "spans", len(normalized), "candidates", len(candidates))

	classified := a.classifier.Classify(candidates, profile)
	refined := Refine(classified, a.cfg.Refine.MinH2)

	title := a.titles.Select(normalized)
	out := Assemble(title, refined, a.cfg.Assemble)

	counts := map[Level]int{}
	for _, h := range out.Headings {
		counts[h.Level]++
	}
	a.logger.Info("outline assembled",
		"title", title.Text,
		"headings", len(out.Headings),
		"h1", counts[H1],
		"h2", counts[H2],
		"h3", counts[H3])

	return Report{Profile: profile, Candidates: refined, Outline: out}
}

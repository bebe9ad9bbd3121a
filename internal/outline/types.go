package outline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
)

// UntitledDocument is the title used when no span qualifies as a title.
const UntitledDocument = "Untitled Document"

// Position is a span's bounding box in page units, y growing down the page.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextSpan is one run of text sharing a font, as handed over by a document reader.
type TextSpan struct {
	Text     string   `json:"text"`
	Page     int      `json:"page"`
	FontSize float64  `json:"font_size"`
	IsBold   bool     `json:"is_bold"`
	FontName string   `json:"font_name,omitempty"`
	Position Position `json:"position"`
}

// NormalizedSpan annotates a TextSpan with normalized text, script and language.
type NormalizedSpan struct {
	TextSpan
	Normalized string
	Script     Script
	Language   language.Tag
}

// WordCount counts whitespace-separated words of the normalized text.
func (s NormalizedSpan) WordCount() int {
	return wordCount(s.Normalized)
}

// Level is a heading level. The zero value is not a valid level.
type Level int

const (
	LevelUnknown Level = iota
	H1
	H2
	H3
)

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of H1, H2, H3.
func (l Level) Valid() bool {
	return l >= H1 && l <= H3
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid heading level %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("invalid heading level %q", string(b))
	}
	return nil
}

// ClassificationScores are the per-level affinities computed by the classifier.
type ClassificationScores struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
}

// HeadingCandidate is a span that survived filtering, with its scores.
type HeadingCandidate struct {
	NormalizedSpan
	FilterScore int
	Factors     []string
	Scores      ClassificationScores
	Level       Level
}

// Heading is one entry of the final outline.
type Heading struct {
	Level Level
	Text  string
	Page  int
	X     float64
	Y     float64
}

type headingJSON struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// MarshalJSON writes only level, text and page; positions stay internal.
func (h Heading) MarshalJSON() ([]byte, error) {
	return encodeJSON(headingJSON{Level: h.Level, Text: h.Text, Page: h.Page})
}

func (h *Heading) UnmarshalJSON(b []byte) error {
	var v headingJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*h = Heading{Level: v.Level, Text: v.Text, Page: v.Page}
	return nil
}

// Title is the selected document title. Only Text is serialized.
type Title struct {
	Text  string
	Page  int
	Score int
}

func (t Title) MarshalJSON() ([]byte, error) {
	return encodeJSON(t.Text)
}

func (t *Title) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = Title{Text: s}
	return nil
}

// Outline is the terminal artifact of the pipeline.
type Outline struct {
	Title    Title     `json:"title"`
	Headings []Heading `json:"headings"`
}

// encodeJSON encodes v without escaping HTML characters, which are common
// in headings ("R&D", "<Draft>").
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

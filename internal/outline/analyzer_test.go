package outline

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultConfig(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return a
}

func paperSpans() []TextSpan {
	spans := []TextSpan{span("Machine Learning in Healthcare", 1, 24, true, 50)}
	for i := 0; i < 50; i++ {
		spans = append(spans, span("This is a body paragraph repeated many times...", 1, 12, false, 300))
	}
	return append(spans,
		span("1. Introduction", 2, 18, true, 80),
		span("Background", 2, 16, false, 200),
	)
}

func TestAnalyzePaper(t *testing.T) {
	got := newTestAnalyzer(t).Analyze(paperSpans())
	if got.Title.Text != "Machine Learning in Healthcare" {
		t.Errorf("title = %q", got.Title.Text)
	}
	want := []Heading{
		{Level: H1, Text: "1. Introduction", Page: 2, X: 72, Y: 80},
		{Level: H1, Text: "Background", Page: 2, X: 72, Y: 200},
	}
	if !reflect.DeepEqual(got.Headings, want) {
		t.Errorf("headings = %+v, want %+v", got.Headings, want)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	got := newTestAnalyzer(t).Analyze(nil)
	if got.Title.Text != UntitledDocument {
		t.Errorf("title = %q, want %q", got.Title.Text, UntitledDocument)
	}
	if got.Headings == nil || len(got.Headings) != 0 {
		t.Errorf("headings = %#v, want empty non-nil", got.Headings)
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"title":"Untitled Document","headings":[]}`; string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

func TestAnalyzeCapsHeadings(t *testing.T) {
	var spans []TextSpan
	for i := 1; i <= 80; i++ {
		spans = append(spans, span(fmt.Sprintf("Topic %d", i), i, 18, true, 100))
	}
	got := newTestAnalyzer(t).Analyze(spans)
	if got.Title.Text != "Topic 1" {
		t.Fatalf("title = %q, want Topic 1", got.Title.Text)
	}
	if len(got.Headings) != 50 {
		t.Fatalf("len(headings) = %d, want 50", len(got.Headings))
	}
	if first, last := got.Headings[0], got.Headings[49]; first.Text != "Topic 2" || last.Text != "Topic 51" {
		t.Errorf("kept %q..%q, want Topic 2..Topic 51", first.Text, last.Text)
	}
}

func TestAnalyzeReadingOrder(t *testing.T) {
	spans := []TextSpan{
		span("Study Report Title", 1, 28, true, 40),
		span("Results", 3, 18, true, 100),
		span("Methods", 2, 18, true, 400),
		span("Overview", 2, 18, true, 90),
		span("This is ordinary body text that goes on.", 1, 12, false, 300),
	}
	got := newTestAnalyzer(t).Analyze(spans)
	var texts []string
	for i, h := range got.Headings {
		texts = append(texts, h.Text)
		if i > 0 {
			prev := got.Headings[i-1]
			if prev.Page > h.Page || (prev.Page == h.Page && prev.Y > h.Y) {
				t.Errorf("heading %d out of order: %+v after %+v", i, h, prev)
			}
		}
		if !h.Level.Valid() {
			t.Errorf("heading %q has invalid level", h.Text)
		}
	}
	want := []string{"Overview", "Methods", "Results"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("headings = %v, want %v", texts, want)
	}
}

func TestAnalyzeDropsSpansWithoutPage(t *testing.T) {
	spans := append(paperSpans(),
		span("Introduction", 0, 18, true, 80),
		span("Methods", -3, 18, true, 120),
	)
	got := newTestAnalyzer(t).Analyze(spans)
	for _, h := range got.Headings {
		if h.Page < 1 {
			t.Errorf("heading %q has page %d", h.Text, h.Page)
		}
	}
	if len(got.Headings) != 2 {
		t.Errorf("headings = %+v, want the two paged ones", got.Headings)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := newTestAnalyzer(t)
	first := a.Analyze(paperSpans())
	for i := 0; i < 5; i++ {
		if got := a.Analyze(paperSpans()); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestInspectKeepsTitleCandidate(t *testing.T) {
	r := newTestAnalyzer(t).Inspect(paperSpans())
	if r.Profile.BodySize != 12 {
		t.Errorf("body size = %v, want 12", r.Profile.BodySize)
	}
	if len(r.Candidates) != 3 {
		t.Fatalf("candidates = %d, want 3", len(r.Candidates))
	}
	if c := r.Candidates[0]; c.Text != "Machine Learning in Healthcare" || c.FilterScore != 67 {
		t.Errorf("first candidate = %q/%d", c.Text, c.FilterScore)
	}
}

func TestOutlineJSON(t *testing.T) {
	got := newTestAnalyzer(t).Analyze(paperSpans())
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"title":"Machine Learning in Healthcare","headings":[` +
		`{"level":"H1","text":"1. Introduction","page":2},` +
		`{"level":"H1","text":"Background","page":2}]}`
	if string(b) != want {
		t.Errorf("json =\n%s\nwant\n%s", b, want)
	}
}

func TestOutlineJSONRoundTrip(t *testing.T) {
	in := Outline{
		Title: Title{Text: "Report"},
		Headings: []Heading{
			{Level: H1, Text: "Scope", Page: 1},
			{Level: H3, Text: "Limits", Page: 4},
		},
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Outline
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestHeadingRejectsBadLevel(t *testing.T) {
	var h Heading
	if err := json.Unmarshal([]byte(`{"level":"H4","text":"x","page":1}`), &h); err == nil {
		t.Error("expected error for level H4")
	}
	if _, err := json.Marshal(Heading{Text: "x", Page: 1}); err == nil {
		t.Error("expected error marshaling unset level")
	}
}

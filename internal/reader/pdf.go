package reader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// defaultPageHeight is US Letter, used when a page has no usable MediaBox.
const defaultPageHeight = 792.0

// boldMarkers are font name fragments that indicate a heavy weight.
var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demibold"}

// PDFReader extracts spans from the text layer of a PDF with rsc.io/pdf.
// Consecutive glyphs sharing a font, a size and a baseline become one span.
type PDFReader struct{}

// NewPDFReader returns a text-layer reader.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

func (r *PDFReader) Read(ctx context.Context, path string) (spans []outline.TextSpan, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// rsc.io/pdf panics on some malformed content streams.
	defer func() {
		if p := recover(); p != nil {
			spans, err = nil, fmt.Errorf("%w: %v", ErrMalformed, p)
		}
	}()

	doc, err := rpdf.NewReader(f, st.Size())
	if err != nil {
		if errors.Is(err, rpdf.ErrInvalidPassword) {
			return nil, ErrEncrypted
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	n := doc.NumPage()
	if n == 0 {
		return nil, ErrNoPages
	}
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		spans = append(spans, pageSpans(pageGlyphs(page), i, pageHeight(page))...)
	}
	if len(spans) == 0 {
		return nil, ErrNoText
	}
	return spans, nil
}

func pageHeight(p rpdf.Page) float64 {
	box := p.V.Key("MediaBox")
	if box.Len() != 4 {
		return defaultPageHeight
	}
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if h <= 0 {
		return defaultPageHeight
	}
	return h
}

// pageSpans groups the glyphs of one page into spans. PDF y grows upwards,
// span positions are converted to grow down from the top of the page.
func pageSpans(glyphs []rpdf.Text, page int, height float64) []outline.TextSpan {
	var (
		out []outline.TextSpan
		cur *run
	)
	flush := func() {
		if cur == nil {
			return
		}
		if s, ok := cur.span(page, height); ok {
			out = append(out, s)
		}
		cur = nil
	}
	for _, g := range glyphs {
		if cur != nil && !cur.continues(g) {
			flush()
		}
		if cur == nil {
			if g.S == " " {
				continue
			}
			cur = &run{font: g.Font, size: g.FontSize, baseline: g.Y, x0: g.X, x1: g.X}
		}
		cur.add(g)
	}
	flush()
	return out
}

type run struct {
	font     string
	size     float64
	baseline float64
	x0, x1   float64
	text     strings.Builder
}

func (r *run) continues(g rpdf.Text) bool {
	if g.Font != r.font || math.Abs(g.FontSize-r.size) > 0.01 {
		return false
	}
	if math.Abs(g.Y-r.baseline) > r.size*0.3 {
		return false
	}
	// A jump back to the left margin or a wide gap starts a new run.
	return g.X >= r.x1-r.size && g.X-r.x1 < r.size*3
}

// add appends a glyph. Space glyphs and gaps wider than a fifth of the size
// both become a single space.
func (r *run) add(g rpdf.Text) {
	space := g.S == " " || g.X-r.x1 > r.size*0.2
	if space && r.text.Len() > 0 && !strings.HasSuffix(r.text.String(), " ") {
		r.text.WriteByte(' ')
	}
	if g.S != " " {
		r.text.WriteString(g.S)
	}
	r.x1 = math.Max(r.x1, g.X+g.W)
}

func (r *run) span(page int, height float64) (outline.TextSpan, bool) {
	text := strings.TrimSpace(r.text.String())
	if text == "" {
		return outline.TextSpan{}, false
	}
	return outline.TextSpan{
		Text:     text,
		Page:     page,
		FontSize: r.size,
		IsBold:   isBoldFont(r.font),
		FontName: r.font,
		Position: outline.Position{
			X:      r.x0,
			Y:      height - r.baseline - r.size,
			Width:  r.x1 - r.x0,
			Height: r.size,
		},
	}, true
}

// isBoldFont guesses the weight from a font name such as "ABCDEF+Arial-BoldMT".
func isBoldFont(name string) bool {
	if _, after, ok := strings.Cut(name, "+"); ok {
		name = after
	}
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

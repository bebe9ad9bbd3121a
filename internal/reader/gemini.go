package reader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	genai "google.golang.org/genai"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// ErrBadResponse is returned when the model reply holds no usable span list.
var ErrBadResponse = errors.New("reader: unusable model response")

// generator is the part of the genai client the reader needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiReader asks a Gemini model to lay out the text of a PDF. It serves as
// the fallback for scanned documents without a text layer.
type GeminiReader struct {
	gen    generator
	model  string
	logger *slog.Logger
}

// NewGeminiReader builds a reader backed by the Gemini API.
func NewGeminiReader(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiReader, error) {
	if apiKey == "" {
		return nil, errors.New("reader: missing Gemini API key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newGeminiReader(c.Models, model, logger), nil
}

func newGeminiReader(gen generator, model string, logger *slog.Logger) *GeminiReader {
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiReader{gen: gen, model: model, logger: logger}
}

const spanPrompt = `You are a PDF layout extractor. Return ONLY valid JSON, no markdown code fences, no explanations.

List every line of text in this PDF in reading order using exactly this structure:
{
  "spans": [
    {"text": "1. Introduction", "page": 1, "font_size": 18, "is_bold": true, "x": 72, "y": 80}
  ]
}

RULES:
- page: 1-based page number
- font_size: estimated size in points; body text is usually 10 to 12
- is_bold: true when the line is set in a visibly heavier weight
- x, y: top-left corner of the line in points, y measured from the top of the page
- one entry per visual line; do not merge headings with body text
- Return ONLY the JSON object`

type geminiSpan struct {
	Text     string  `json:"text"`
	Page     int     `json:"page"`
	FontSize float64 `json:"font_size"`
	IsBold   bool    `json:"is_bold"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type geminiLayout struct {
	Spans []geminiSpan `json:"spans"`
}

func (g *GeminiReader) Read(ctx context.Context, path string) ([]outline.TextSpan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: spanPrompt},
				{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: b}},
			},
		},
	}
	res, err := g.gen.GenerateContent(ctx, g.model, content, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	js := res.Text()
	g.logger.DebugContext(ctx, "gemini response", "model", g.model, "bytes", len(js))

	layout, err := parseLayout(js)
	if err != nil {
		return nil, err
	}
	spans := make([]outline.TextSpan, 0, len(layout.Spans))
	for _, s := range layout.Spans {
		text := strings.TrimSpace(s.Text)
		if text == "" || s.Page < 1 || s.FontSize <= 0 {
			continue
		}
		spans = append(spans, outline.TextSpan{
			Text:     text,
			Page:     s.Page,
			FontSize: s.FontSize,
			IsBold:   s.IsBold,
			Position: outline.Position{X: s.X, Y: s.Y, Height: s.FontSize},
		})
	}
	if len(spans) == 0 {
		return nil, ErrNoText
	}
	return spans, nil
}

// parseLayout decodes the model reply, tolerating code fences and text
// around the JSON object.
func parseLayout(js string) (geminiLayout, error) {
	var out geminiLayout
	js = stripCodeFences(js)
	err := json.Unmarshal([]byte(js), &out)
	if err == nil {
		return out, nil
	}
	s := findFirstJSON(js)
	if s == "" {
		return out, fmt.Errorf("%w: no JSON object found: %v", ErrBadResponse, err)
	}
	if err2 := json.Unmarshal([]byte(s), &out); err2 != nil {
		return out, fmt.Errorf("%w: %v (original error: %v)", ErrBadResponse, err2, err)
	}
	return out, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// findFirstJSON returns the first balanced {...} block of s, ignoring braces
// inside JSON strings.
func findFirstJSON(s string) string {
	start, depth := -1, 0
	inString, escaped := false, false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

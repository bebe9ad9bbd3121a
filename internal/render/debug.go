package render

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

type sizeCount struct {
	Size  float64 `json:"size"`
	Count int     `json:"count"`
}

type debugProfile struct {
	BodySize   float64     `json:"body_size"`
	MeanSize   float64     `json:"mean_size"`
	MedianSize float64     `json:"median_size"`
	MinSize    float64     `json:"min_size"`
	MaxSize    float64     `json:"max_size"`
	Spans      int         `json:"spans"`
	Sizes      []sizeCount `json:"sizes"`
}

type debugCandidate struct {
	Text        string                       `json:"text"`
	Page        int                          `json:"page"`
	Y           float64                      `json:"y"`
	FontSize    float64                      `json:"font_size"`
	IsBold      bool                         `json:"is_bold"`
	Script      string                       `json:"script"`
	Language    string                       `json:"language"`
	FilterScore int                          `json:"filter_score"`
	Factors     []string                     `json:"factors"`
	Scores      outline.ClassificationScores `json:"scores"`
	Level       string                       `json:"level"`
}

type debugReport struct {
	Profile    debugProfile     `json:"font_profile"`
	Candidates []debugCandidate `json:"candidates"`
	Title      outline.Title    `json:"title"`
	TitleScore int              `json:"title_score"`
	TitlePage  int              `json:"title_page"`
}

// Debug writes the font profile and every scored candidate of r as JSON.
func Debug(w io.Writer, r outline.Report) error {
	p := r.Profile
	rep := debugReport{
		Profile: debugProfile{
			BodySize:   p.BodySize,
			MeanSize:   p.MeanSize,
			MedianSize: p.MedianSize,
			MinSize:    p.MinSize,
			MaxSize:    p.MaxSize,
			Spans:      p.Spans,
			Sizes:      make([]sizeCount, 0, len(p.Histogram)),
		},
		Candidates: make([]debugCandidate, 0, len(r.Candidates)),
		Title:      r.Outline.Title,
		TitleScore: r.Outline.Title.Score,
		TitlePage:  r.Outline.Title.Page,
	}
	for size, n := range p.Histogram {
		rep.Profile.Sizes = append(rep.Profile.Sizes, sizeCount{Size: size, Count: n})
	}
	sort.Slice(rep.Profile.Sizes, func(i, j int) bool {
		return rep.Profile.Sizes[i].Size < rep.Profile.Sizes[j].Size
	})
	for _, c := range r.Candidates {
		rep.Candidates = append(rep.Candidates, debugCandidate{
			Text:        c.Text,
			Page:        c.Page,
			Y:           c.Position.Y,
			FontSize:    c.FontSize,
			IsBold:      c.IsBold,
			Script:      c.Script.String(),
			Language:    c.Language.String(),
			FilterScore: c.FilterScore,
			Factors:     c.Factors,
			Scores:      c.Scores,
			Level:       c.Level.String(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

package outline

import "strings"

// Assemble builds the final outline from the title and the refined, reading
// ordered candidates. Only the first cfg.MaxHeadings headings are kept; their
// scoring fields are dropped.
func Assemble(title Title, refined []HeadingCandidate, cfg AssembleConfig) Outline {
	headings := make([]Heading, 0, min(len(refined), cfg.MaxHeadings))
	for _, c := range refined {
		if len(headings) >= cfg.MaxHeadings {
			break
		}
		text := strings.TrimSpace(c.Text)
		if cfg.ExcludeTitle && title.Page > 0 && c.Page == title.Page && text == title.Text {
			continue
		}
		headings = append(headings, Heading{
			Level: c.Level,
			Text:  text,
			Page:  c.Page,
			X:     c.Position.X,
			Y:     c.Position.Y,
		})
	}
	return Outline{Title: title, Headings: headings}
}

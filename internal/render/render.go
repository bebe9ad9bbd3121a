// Package render writes outlines as JSON or as a Markdown table of contents.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// Format is an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts json, markdown or md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json or markdown)", s)
}

// Ext is the file extension for f, dot included.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".json"
}

// Write renders o in format f.
func Write(w io.Writer, f Format, o outline.Outline) error {
	if f == FormatMarkdown {
		return Markdown(w, o)
	}
	return JSON(w, o)
}

// JSON writes the outline as indented JSON.
func JSON(w io.Writer, o outline.Outline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(o)
}

// Markdown writes the title as a level-one heading followed by a nested
// list of links, one per heading, indented by level.
func Markdown(w io.Writer, o outline.Outline) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(o.Title.Text))
	if len(o.Headings) == 0 {
		b.WriteString("_No headings found._\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("## Contents\n\n")
	seen := anchors{}
	for _, h := range o.Headings {
		indent := strings.Repeat("  ", max(int(h.Level)-1, 0))
		fmt.Fprintf(&b, "%s- [%s](#%s) (p. %d)\n", indent, escape(h.Text), seen.next(h.Text), h.Page)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`, "`", "\\`")

func escape(s string) string {
	return mdEscaper.Replace(s)
}

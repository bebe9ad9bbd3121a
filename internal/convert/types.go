package convert

import (
	"github.com/thywilljoshua/pdf-outline/internal/outline"
	"github.com/thywilljoshua/pdf-outline/internal/render"
)

// Options control where and how outlines are written.
type Options struct {
	// OutDir receives one file per document. Empty writes to the converter's
	// stream instead.
	OutDir string
	Format render.Format
	// Debug also writes <name>.debug.json with the font profile and the
	// scored candidates.
	Debug bool
}

// Result describes one converted document.
type Result struct {
	Path    string          `json:"path"`
	Output  string          `json:"output,omitempty"`
	Debug   string          `json:"debug,omitempty"`
	Spans   int             `json:"spans"`
	Outline outline.Outline `json:"outline"`
}

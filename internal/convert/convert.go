// Package convert runs one document through reading, analysis and rendering.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
	"github.com/thywilljoshua/pdf-outline/internal/reader"
	"github.com/thywilljoshua/pdf-outline/internal/render"
)

// ErrUnreadable wraps reader failures. The document still gets an outline,
// built from no spans.
var ErrUnreadable = errors.New("document unreadable")

// Converter turns documents into outline files. It is safe for concurrent
// use by a batch runner.
type Converter struct {
	reader   reader.Reader
	analyzer *outline.Analyzer
	opts     Options
	logger   *slog.Logger

	mu  sync.Mutex // guards out
	out io.Writer
}

// New returns a converter. Outlines go to out when opts.OutDir is empty.
func New(r reader.Reader, a *outline.Analyzer, opts Options, out io.Writer, logger *slog.Logger) *Converter {
	if opts.Format == "" {
		opts.Format = render.FormatJSON
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{reader: r, analyzer: a, opts: opts, logger: logger, out: out}
}

// Run reads, analyzes and writes one document. A read failure is logged, the
// empty outline is still written, and the failure is returned wrapped in
// ErrUnreadable so callers can count it.
func (c *Converter) Run(ctx context.Context, path string) (Result, error) {
	res := Result{Path: path}
	spans, readErr := c.reader.Read(ctx, path)
	if readErr != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		c.logger.WarnContext(ctx, "treating document as empty", "path", path, "error", readErr)
		spans = nil
	}
	res.Spans = len(spans)

	report := c.analyzer.Inspect(spans)
	res.Outline = report.Outline

	var buf bytes.Buffer
	if err := render.Write(&buf, c.opts.Format, report.Outline); err != nil {
		return res, fmt.Errorf("render %s: %w", path, err)
	}
	out, err := c.emit(path, c.opts.Format.Ext(), buf.Bytes())
	if err != nil {
		return res, err
	}
	res.Output = out

	if c.opts.Debug {
		buf.Reset()
		if err := render.Debug(&buf, report); err != nil {
			return res, fmt.Errorf("debug report %s: %w", path, err)
		}
		dir := c.opts.OutDir
		if dir == "" {
			dir = "."
		}
		res.Debug = filepath.Join(dir, baseName(path)+".debug.json")
		if err := writeFile(res.Debug, buf.Bytes()); err != nil {
			return res, err
		}
	}

	if readErr != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, readErr)
	}
	return res, nil
}

// emit writes data to OutDir/<name><ext>, or to the stream when no
// directory is set. It returns the file written, if any.
func (c *Converter) emit(path, ext string, data []byte) (string, error) {
	if c.opts.OutDir == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, err := c.out.Write(data); err != nil {
			return "", fmt.Errorf("write outline: %w", err)
		}
		return "", nil
	}
	file := filepath.Join(c.opts.OutDir, baseName(path)+ext)
	return file, writeFile(file, data)
}

func writeFile(file string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

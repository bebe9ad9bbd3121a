// Package reader turns documents into positioned text spans for the outline
// pipeline. Readers are composed with middleware for validation, timeouts,
// retries, circuit breaking and fallback.
package reader

import (
	"context"
	"errors"
	"fmt"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

// Reader extracts the text spans of one document.
type Reader interface {
	Read(ctx context.Context, path string) ([]outline.TextSpan, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, path string) ([]outline.TextSpan, error)

func (f ReaderFunc) Read(ctx context.Context, path string) ([]outline.TextSpan, error) {
	return f(ctx, path)
}

var (
	ErrNotPDF       = errors.New("reader: not a pdf file")
	ErrEmptyFile    = errors.New("reader: file is empty")
	ErrTooLarge     = errors.New("reader: file too large")
	ErrTooManyPages = errors.New("reader: too many pages")
	ErrNoPages      = errors.New("reader: document has no pages")
	ErrEncrypted    = errors.New("reader: document is password protected")
	ErrMalformed    = errors.New("reader: malformed document")
	// ErrNoText is returned when a document parses but yields no text,
	// typically a scanned PDF.
	ErrNoText = errors.New("reader: no extractable text")
)

// Permanent reports whether retrying a read that failed with err is pointless.
func Permanent(err error) bool {
	var open *ErrCircuitOpen
	switch {
	case errors.Is(err, ErrNotPDF), errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrTooLarge), errors.Is(err, ErrTooManyPages),
		errors.Is(err, ErrNoPages), errors.Is(err, ErrEncrypted),
		errors.Is(err, ErrMalformed), errors.Is(err, ErrNoText):
		return true
	case errors.As(err, &open):
		return true
	}
	return false
}

// ErrCircuitOpen is returned when a breaker rejects a read without trying it.
type ErrCircuitOpen struct {
	Reader string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("reader: circuit open: %s", e.Reader)
}

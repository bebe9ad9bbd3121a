package reader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Default input limits.
const (
	DefaultMaxBytes = 100 << 20
	DefaultMaxPages = 1000
)

// Info describes a document that passed validation.
type Info struct {
	Path  string
	Size  int64
	Pages int
}

// Validator checks a file before any text is read from it.
type Validator struct {
	MaxBytes int64
	MaxPages int
}

// NewValidator returns a validator with the given limits. Non-positive
// limits fall back to the defaults.
func NewValidator(maxBytes int64, maxPages int) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Validator{MaxBytes: maxBytes, MaxPages: maxPages}
}

// Check validates the file at path: it must exist, carry a .pdf extension,
// be non-empty and within the size limit, parse with pdfcpu, have between
// one and MaxPages pages and not be encrypted.
func (v *Validator) Check(ctx context.Context, path string) (Info, error) {
	info := Info{Path: path}
	st, err := os.Stat(path)
	if err != nil {
		return info, err
	}
	if st.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return info, fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	info.Size = st.Size()
	if info.Size == 0 {
		return info, ErrEmptyFile
	}
	if info.Size > v.MaxBytes {
		return info, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size, v.MaxBytes)
	}
	if err := ctx.Err(); err != nil {
		return info, err
	}

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()
	pc, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		if mentionsPassword(err) {
			return info, fmt.Errorf("%w: %v", ErrEncrypted, err)
		}
		return info, fmt.Errorf("%w: pdfcpu read: %v", ErrMalformed, err)
	}
	if pc.Encrypt != nil {
		return info, ErrEncrypted
	}
	info.Pages = pc.PageCount
	if info.Pages == 0 {
		return info, ErrNoPages
	}
	if info.Pages > v.MaxPages {
		return info, fmt.Errorf("%w: %d pages, limit %d", ErrTooManyPages, info.Pages, v.MaxPages)
	}
	return info, nil
}

func mentionsPassword(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}

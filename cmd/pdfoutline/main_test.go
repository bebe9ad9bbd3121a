package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thywilljoshua/pdf-outline/internal/batch"
	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errb bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errb.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "pdfoutline ") {
		t.Errorf("version output = %q", out)
	}
}

func TestExtractRequiresArgs(t *testing.T) {
	if _, _, err := execute(t, "extract"); err == nil {
		t.Error("expected error without inputs")
	}
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	if _, _, err := execute(t, "extract", "--format", "xml", "doc.pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExtractUnreadableInputs(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	stdout, _, err := execute(t, "extract", "--out", outDir, "--log-level", "error", notes, filepath.Join(dir, "missing.pdf"))
	if err == nil || !strings.Contains(err.Error(), "2 of 2") {
		t.Fatalf("err = %v", err)
	}

	var sum batch.Summary
	if err := json.Unmarshal([]byte(stdout), &sum); err != nil {
		t.Fatalf("summary %q: %v", stdout, err)
	}
	if sum.Total != 2 || sum.Errors != 2 || sum.Processed != 0 || len(sum.ErrorDetails) != 2 {
		t.Errorf("summary = %+v", sum)
	}

	b, err := os.ReadFile(filepath.Join(outDir, "notes.json"))
	if err != nil {
		t.Fatal(err)
	}
	var o outline.Outline
	if err := json.Unmarshal(b, &o); err != nil {
		t.Fatal(err)
	}
	if o.Title.Text != outline.UntitledDocument || len(o.Headings) != 0 {
		t.Errorf("outline = %+v", o)
	}
}

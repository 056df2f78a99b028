// Package plandoc persists generated execution plans as titled markdown documents.
package plandoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer writes plan documents into a target directory, creating it on demand.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter constructs a Writer for the given directory.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Save writes the plan as a titled markdown document to a timestamped path
// derived from repo and issue number, and returns that path.
func (w *Writer) Save(repo string, issueNumber int, plan string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", w.dir, err)
	}

	ts := w.now()
	name := fmt.Sprintf("execution_plan_%s_issue_%d_%s.md",
		strings.ReplaceAll(repo, "/", "_"), issueNumber, ts.Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	var doc strings.Builder
	fmt.Fprintf(&doc, "# GitHub Issue Analysis: %s#%d\n\n", repo, issueNumber)
	fmt.Fprintf(&doc, "**Generated on:** %s\n\n", ts.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&doc, "**Repository:** %s\n", repo)
	fmt.Fprintf(&doc, "**Issue Number:** %d\n\n", issueNumber)
	doc.WriteString("---\n\n")
	doc.WriteString(plan)

	if err := os.WriteFile(path, []byte(doc.String()), 0o644); err != nil {
		return "", fmt.Errorf("write plan document %q: %w", path, err)
	}
	return path, nil
}

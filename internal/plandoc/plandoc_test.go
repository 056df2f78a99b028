package plandoc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	path, err := w.Save("acme/rocket", 42, "1. Do the thing.\n")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "execution_plan_acme_rocket_issue_42_20260314_150926.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "# GitHub Issue Analysis: acme/rocket#42\n")
	assert.Contains(t, content, "**Generated on:** 2026-03-14 15:09:26\n")
	assert.Contains(t, content, "**Repository:** acme/rocket\n")
	assert.Contains(t, content, "**Issue Number:** 42\n")
	assert.Contains(t, content, "---\n\n1. Do the thing.\n")
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	w := NewWriter(dir)

	path, err := w.Save("acme/rocket", 1, "plan")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

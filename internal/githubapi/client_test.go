package githubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExec returns a Client whose gh invocations are answered in-process.
func fakeExec(t *testing.T, fn func(args []string) (string, string, error)) *Client {
	t.Helper()
	return &Client{
		exec: func(_ context.Context, args ...string) ([]byte, []byte, error) {
			stdout, stderr, err := fn(args)
			return []byte(stdout), []byte(stderr), err
		},
	}
}

func TestFetchIssue(t *testing.T) {
	payload := `{
		"number": 42,
		"title": "Crash on startup",
		"body": "It crashes.",
		"labels": [{"name": "bug"}, {"name": "p1"}],
		"url": "https://github.com/acme/rocket/issues/42",
		"author": {"login": "coyote"},
		"createdAt": "2026-01-02T03:04:05Z",
		"state": "OPEN",
		"assignees": [{"login": "roadrunner"}]
	}`

	var gotArgs []string
	client := fakeExec(t, func(args []string) (string, string, error) {
		gotArgs = args
		return payload, "", nil
	})

	issue, err := client.FetchIssue(context.Background(), "acme/rocket", 42)
	require.NoError(t, err)

	assert.Equal(t, []string{"issue", "view", "42", "--repo", "acme/rocket", "--json", issueFields}, gotArgs)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "Crash on startup", issue.Title)
	assert.Equal(t, "It crashes.", issue.Body)
	assert.Equal(t, []string{"bug", "p1"}, issue.Labels)
	assert.Equal(t, "https://github.com/acme/rocket/issues/42", issue.URL)
	assert.Equal(t, "coyote", issue.Author)
	assert.Equal(t, "2026-01-02T03:04:05Z", issue.CreatedAt)
	assert.Equal(t, "OPEN", issue.State)
	assert.Equal(t, []string{"roadrunner"}, issue.Assignees)
}

func TestFetchIssueEmptyCollections(t *testing.T) {
	client := fakeExec(t, func([]string) (string, string, error) {
		return `{"number": 7, "title": "t", "labels": [], "assignees": []}`, "", nil
	})

	issue, err := client.FetchIssue(context.Background(), "acme/rocket", 7)
	require.NoError(t, err)

	// Serializes as [] rather than null.
	assert.NotNil(t, issue.Labels)
	assert.NotNil(t, issue.Assignees)
	assert.Empty(t, issue.Labels)
	assert.Empty(t, issue.Assignees)
}

func TestFetchIssueExecError(t *testing.T) {
	client := fakeExec(t, func([]string) (string, string, error) {
		return "", "gh: issue not found", errors.New("exit status 1")
	})

	_, err := client.FetchIssue(context.Background(), "acme/rocket", 999)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "gh: issue not found", execErr.Stderr)
}

func TestFetchIssueParseError(t *testing.T) {
	raw := "not json at all"
	client := fakeExec(t, func([]string) (string, string, error) {
		return raw, "", nil
	})

	_, err := client.FetchIssue(context.Background(), "acme/rocket", 1)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, raw, parseErr.Raw)
}

func TestFetchIssueInvalidInput(t *testing.T) {
	client := fakeExec(t, func([]string) (string, string, error) {
		t.Fatal("gh must not run for invalid input")
		return "", "", nil
	})

	_, err := client.FetchIssue(context.Background(), "not-a-slug", 1)
	assert.Error(t, err)

	_, err = client.FetchIssue(context.Background(), "acme/rocket", 0)
	assert.Error(t, err)
}

func TestParseErrorExcerptCapped(t *testing.T) {
	raw := strings.Repeat("x", maxRawExcerpt+500)
	client := fakeExec(t, func([]string) (string, string, error) {
		return raw, "", nil
	})

	_, err := client.FetchIssue(context.Background(), "acme/rocket", 1)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Len(t, parseErr.Raw, maxRawExcerpt)
}

func treePayload(entries ...treeEntry) string {
	raw, _ := json.Marshal(treeResponse{Tree: entries})
	return string(raw)
}

func TestListFilesFilters(t *testing.T) {
	payload := treePayload(
		treeEntry{Path: "src/a.py", Type: "blob"},
		treeEntry{Path: "src/b.md", Type: "blob"},
		treeEntry{Path: "src/sub", Type: "tree"},
		treeEntry{Path: "src/c.py", Type: "blob"},
		treeEntry{Path: "docs/d.py", Type: "blob"},
	)
	client := fakeExec(t, func(args []string) (string, string, error) {
		return payload, "", nil
	})

	listing, err := client.ListFiles(context.Background(), "acme/rocket", ListOptions{
		Extensions:   []string{".py"},
		PathPrefixes: []string{"src/"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.py", "src/c.py"}, listing.Files)
	assert.Equal(t, 2, listing.Count)
	assert.True(t, listing.FilteredByExtensions)
	assert.True(t, listing.FilteredByPrefixes)
}

func TestListFilesNoFilters(t *testing.T) {
	payload := treePayload(
		treeEntry{Path: "a.go", Type: "blob"},
		treeEntry{Path: "dir", Type: "tree"},
		treeEntry{Path: "b.go", Type: "blob"},
	)
	client := fakeExec(t, func(args []string) (string, string, error) {
		assert.Equal(t, []string{"api", "repos/acme/rocket/git/trees/HEAD?recursive=1"}, args)
		return payload, "", nil
	})

	listing, err := client.ListFiles(context.Background(), "acme/rocket", ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go", "b.go"}, listing.Files)
	assert.False(t, listing.FilteredByExtensions)
	assert.False(t, listing.FilteredByPrefixes)
}

func TestListFilesMaxFiles(t *testing.T) {
	entries := make([]treeEntry, 0, 10)
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		entries = append(entries, treeEntry{Path: p + ".go", Type: "blob"})
	}
	client := fakeExec(t, func([]string) (string, string, error) {
		return treePayload(entries...), "", nil
	})

	listing, err := client.ListFiles(context.Background(), "acme/rocket", ListOptions{MaxFiles: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, listing.Files)
}

func TestListFilesCaseInsensitiveExtensions(t *testing.T) {
	payload := treePayload(
		treeEntry{Path: "README.MD", Type: "blob"},
		treeEntry{Path: "notes.md", Type: "blob"},
		treeEntry{Path: "main.go", Type: "blob"},
	)
	client := fakeExec(t, func([]string) (string, string, error) {
		return payload, "", nil
	})

	listing, err := client.ListFiles(context.Background(), "acme/rocket", ListOptions{Extensions: []string{".MD"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"README.MD", "notes.md"}, listing.Files)
}

func TestListFilesBlankPrefixesIgnored(t *testing.T) {
	payload := treePayload(
		treeEntry{Path: "a.go", Type: "blob"},
		treeEntry{Path: "src/b.go", Type: "blob"},
	)
	client := fakeExec(t, func([]string) (string, string, error) {
		return payload, "", nil
	})

	listing, err := client.ListFiles(context.Background(), "acme/rocket", ListOptions{PathPrefixes: []string{"  ", ""}})
	require.NoError(t, err)

	// All prefixes were blank, so no prefix filter applies.
	assert.Equal(t, []string{"a.go", "src/b.go"}, listing.Files)
	assert.False(t, listing.FilteredByPrefixes)
}

func contentsPayload(typ, encoding, content string) string {
	raw, _ := json.Marshal(map[string]string{
		"type":     typ,
		"encoding": encoding,
		"content":  content,
	})
	return string(raw)
}

func TestFetchFile(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("package main\n"))
	// The contents API chunks base64 with embedded newlines.
	wrapped := encoded[:10] + "\n" + encoded[10:] + "\n"

	var gotArgs []string
	client := fakeExec(t, func(args []string) (string, string, error) {
		gotArgs = args
		return contentsPayload("file", "base64", wrapped), "", nil
	})

	snap, err := client.FetchFile(context.Background(), "acme/rocket", "main.go", "", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"api", "repos/acme/rocket/contents/main.go"}, gotArgs)
	assert.Equal(t, "package main\n", snap.Content)
	assert.Equal(t, DefaultBranchRef, snap.Ref)
	assert.False(t, snap.Truncated)
}

func TestFetchFileExplicitRef(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hi"))

	var gotArgs []string
	client := fakeExec(t, func(args []string) (string, string, error) {
		gotArgs = args
		return contentsPayload("file", "base64", encoded), "", nil
	})

	snap, err := client.FetchFile(context.Background(), "acme/rocket", "main.go", "v1.2.3", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "repos/acme/rocket/contents/main.go", "-F", "ref=v1.2.3"}, gotArgs)
	assert.Equal(t, "v1.2.3", snap.Ref)
}

func TestFetchFileTruncation(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello world"))
	client := fakeExec(t, func([]string) (string, string, error) {
		return contentsPayload("file", "base64", encoded), "", nil
	})

	snap, err := client.FetchFile(context.Background(), "acme/rocket", "a.txt", "", 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", snap.Content)
	assert.True(t, snap.Truncated)
}

func TestFetchFileTruncationCountsRunes(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("héllo wörld"))
	client := fakeExec(t, func([]string) (string, string, error) {
		return contentsPayload("file", "base64", encoded), "", nil
	})

	snap, err := client.FetchFile(context.Background(), "acme/rocket", "a.txt", "", 5)
	require.NoError(t, err)
	assert.Equal(t, "héllo", snap.Content)
	assert.True(t, snap.Truncated)
}

func TestFetchFileDirectory(t *testing.T) {
	client := fakeExec(t, func([]string) (string, string, error) {
		return contentsPayload("dir", "", ""), "", nil
	})

	_, err := client.FetchFile(context.Background(), "acme/rocket", "src", "", 0)
	var typeErr *TypeMismatchError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "dir", typeErr.DataType)
}

func TestFetchFileUnexpectedEncoding(t *testing.T) {
	client := fakeExec(t, func([]string) (string, string, error) {
		return contentsPayload("file", "none", ""), "", nil
	})

	_, err := client.FetchFile(context.Background(), "acme/rocket", "big.bin", "", 0)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "none", encErr.Encoding)
}

func TestFetchFileBadBase64(t *testing.T) {
	client := fakeExec(t, func([]string) (string, string, error) {
		return contentsPayload("file", "base64", "%%%not-base64%%%"), "", nil
	})

	_, err := client.FetchFile(context.Background(), "acme/rocket", "a.txt", "", 0)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "base64", decErr.Encoding)
}

func TestFetchFileInvalidInput(t *testing.T) {
	client := fakeExec(t, func([]string) (string, string, error) {
		t.Fatal("gh must not run for invalid input")
		return "", "", nil
	})

	_, err := client.FetchFile(context.Background(), "acme/rocket", "  ", "", 0)
	assert.Error(t, err)
}

func TestExtensionOf(t *testing.T) {
	cases := map[string]string{
		"main.go":        ".go",
		"README.MD":      ".md",
		"archive.tar.gz": ".gz",
		".gitignore":     ".gitignore",
		"Makefile":       "",
	}
	for path, want := range cases {
		assert.Equal(t, want, extensionOf(path), "path %q", path)
	}
}

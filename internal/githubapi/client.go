// Package githubapi provides read-only repository queries using the GitHub CLI.
//
// Every operation is a single blocking gh invocation with no retries. The gh
// binary is expected to be pre-authenticated; no token handling happens here.
package githubapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultBranchRef is the sentinel ref reported when no explicit ref was requested.
	DefaultBranchRef = "DEFAULT_BRANCH"
	// DefaultMaxFiles is the listing cap applied when the caller gives none.
	DefaultMaxFiles = 80
	// DefaultMaxChars is the content cap applied when the caller gives none.
	DefaultMaxChars = 8000

	issueFields = "number,title,body,labels,url,author,createdAt,state,assignees"
)

// execFunc runs a gh invocation and returns its stdout, stderr and exit error.
type execFunc func(ctx context.Context, args ...string) (stdout, stderr []byte, err error)

// Client issues stateless queries against remote repositories via gh.
// Two concurrent calls are safe; the client holds no cross-call state.
type Client struct {
	logger *slog.Logger
	exec   execFunc
}

// NewClient constructs a gh-backed Client. The optional diag writer receives
// a copy of gh stderr for live diagnostics; stderr is always captured for
// error reporting regardless.
func NewClient(logger *slog.Logger, diag io.Writer) *Client {
	return &Client{
		logger: logger,
		exec:   ghExec(diag),
	}
}

// ghExec builds the default execFunc running the gh binary.
func ghExec(diag io.Writer) execFunc {
	return func(ctx context.Context, args ...string) ([]byte, []byte, error) {
		cmd := exec.CommandContext(ctx, "gh", args...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		if diag != nil {
			cmd.Stderr = io.MultiWriter(&stderr, diag)
		} else {
			cmd.Stderr = &stderr
		}
		err := cmd.Run()
		return stdout.Bytes(), stderr.Bytes(), err
	}
}

// FetchIssue retrieves the fixed metadata field set of a single issue.
func (c *Client) FetchIssue(ctx context.Context, repo string, number int) (*Issue, error) {
	if err := validateRepo(repo); err != nil {
		return nil, err
	}
	if number <= 0 {
		return nil, fmt.Errorf("issue number must be positive, got %d", number)
	}

	out, err := c.runGH(ctx, "issue", "view", strconv.Itoa(number), "--repo", repo, "--json", issueFields)
	if err != nil {
		return nil, err
	}

	var resp issueResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, newParseError(out, err)
	}
	return resp.toIssue(), nil
}

// ListFiles retrieves the full recursive tree of the default branch in one
// call and returns the first MaxFiles blob paths surviving the filters, in
// tree order. Filters are literal: see ListOptions.
func (c *Client) ListFiles(ctx context.Context, repo string, opts ListOptions) (*FileListing, error) {
	if err := validateRepo(repo); err != nil {
		return nil, err
	}

	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	var prefixes []string
	for _, p := range opts.PathPrefixes {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			prefixes = append(prefixes, trimmed)
		}
	}
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}

	out, err := c.runGH(ctx, "api", fmt.Sprintf("repos/%s/git/trees/HEAD?recursive=1", repo))
	if err != nil {
		return nil, err
	}

	var resp treeResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, newParseError(out, err)
	}

	files := make([]string, 0, maxFiles)
	for _, entry := range resp.Tree {
		if entry.Type != "blob" || entry.Path == "" {
			continue
		}
		if len(prefixes) > 0 && !hasAnyPrefix(entry.Path, prefixes) {
			continue
		}
		if len(exts) > 0 {
			if _, ok := exts[extensionOf(entry.Path)]; !ok {
				continue
			}
		}
		files = append(files, entry.Path)
		if len(files) >= maxFiles {
			break
		}
	}

	return &FileListing{
		Repo:                 repo,
		Count:                len(files),
		Files:                files,
		FilteredByExtensions: len(exts) > 0,
		FilteredByPrefixes:   len(prefixes) > 0,
	}, nil
}

// FetchFile retrieves one file's content at the given ref (empty means the
// default branch), decodes it as lossy UTF-8 and truncates it to maxChars
// characters. A zero or negative maxChars falls back to DefaultMaxChars.
func (c *Client) FetchFile(ctx context.Context, repo, path, ref string, maxChars int) (*FileSnapshot, error) {
	if err := validateRepo(repo); err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	args := []string{"api", fmt.Sprintf("repos/%s/contents/%s", repo, path)}
	if ref != "" {
		args = append(args, "-F", "ref="+ref)
	}

	out, err := c.runGH(ctx, args...)
	if err != nil {
		return nil, err
	}

	var resp contentsResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, newParseError(out, err)
	}
	if resp.Type != "file" {
		return nil, &TypeMismatchError{DataType: resp.Type}
	}
	if resp.Encoding != "base64" {
		return nil, &EncodingError{Encoding: resp.Encoding}
	}

	// The contents API wraps the base64 payload with newlines.
	raw, err := base64.StdEncoding.DecodeString(stripWhitespace(resp.Content))
	if err != nil {
		return nil, &DecodeError{Encoding: resp.Encoding, Err: err}
	}

	text := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	runes := []rune(text)
	truncated := len(runes) > maxChars
	if truncated {
		text = string(runes[:maxChars])
	}

	reportedRef := ref
	if reportedRef == "" {
		reportedRef = DefaultBranchRef
	}

	return &FileSnapshot{
		Repo:      repo,
		Path:      path,
		Ref:       reportedRef,
		Truncated: truncated,
		Content:   text,
	}, nil
}

// runGH executes gh with the given arguments, converting a process failure
// into an ExecError carrying the captured stderr.
func (c *Client) runGH(ctx context.Context, args ...string) ([]byte, error) {
	if c.logger != nil {
		c.logger.Debug("running gh", "args", args)
	}
	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, &ExecError{Stderr: string(stderr), Err: err}
	}
	return stdout, nil
}

// validateRepo checks the owner/name slug shape.
func validateRepo(repo string) error {
	parts := strings.Split(strings.TrimSpace(repo), "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("invalid repository slug %q, expected owner/name", repo)
	}
	return nil
}

// hasAnyPrefix reports whether path starts with at least one prefix. The
// check is a raw string-prefix test without path-boundary awareness.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// extensionOf returns the lower-cased final dot-delimited suffix of path
// including the leading dot, or "" when the path contains no dot.
func extensionOf(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return "." + strings.ToLower(path[idx+1:])
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

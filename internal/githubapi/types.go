// Package githubapi provides minimal GitHub data models and gh response shapes.
package githubapi

// Issue holds the metadata of a single GitHub issue. Field names follow the
// gh CLI JSON field spelling so the struct serializes directly into the tool
// success envelope.
type Issue struct {
	// Number is the issue number within the repository.
	Number int `json:"number"`
	// Title is the issue title.
	Title string `json:"title"`
	// Body is the raw markdown body of the issue.
	Body string `json:"body"`
	// Labels lists the label names in the order reported by GitHub.
	Labels []string `json:"labels"`
	// URL is the canonical URL of the issue.
	URL string `json:"url"`
	// Author is the GitHub login of the issue author.
	Author string `json:"author"`
	// CreatedAt is the ISO timestamp of issue creation.
	CreatedAt string `json:"createdAt"`
	// State is the issue state as reported upstream (open/closed).
	State string `json:"state"`
	// Assignees lists assignee logins in the order reported by GitHub.
	Assignees []string `json:"assignees"`
}

// FileListing is the result of a filtered recursive tree listing.
type FileListing struct {
	// Repo is the owner/name slug the listing was taken from.
	Repo string `json:"repo"`
	// Count equals len(Files).
	Count int `json:"count"`
	// Files holds repository-relative blob paths in tree order.
	Files []string `json:"files"`
	// FilteredByExtensions reports whether a non-empty extension filter was applied.
	FilteredByExtensions bool `json:"filtered_by_extensions"`
	// FilteredByPrefixes reports whether a non-empty prefix filter was applied.
	FilteredByPrefixes bool `json:"filtered_by_prefixes"`
}

// FileSnapshot is the decoded, possibly truncated content of a single file.
type FileSnapshot struct {
	// Repo is the owner/name slug the file was read from.
	Repo string `json:"repo"`
	// Path is the repository-relative file path.
	Path string `json:"path"`
	// Ref is the requested ref, or DefaultBranchRef when none was given.
	Ref string `json:"ref"`
	// Truncated reports whether Content was cut at the character limit.
	Truncated bool `json:"truncated"`
	// Content is a prefix of the decoded file text, at most the requested
	// number of characters long.
	Content string `json:"content"`
}

// ListOptions narrows a recursive tree listing.
type ListOptions struct {
	// MaxFiles caps the number of returned paths; zero or negative values
	// fall back to DefaultMaxFiles.
	MaxFiles int
	// Extensions keeps only paths whose final dot-delimited suffix matches
	// one of the entries (compared lower-cased, including the leading dot).
	Extensions []string
	// PathPrefixes keeps only paths starting with one of the entries. The
	// match is a literal string-prefix test with no path-separator
	// awareness, so prefix "src" also matches "srcfoo/x".
	PathPrefixes []string
}

// issueResponse mirrors the gh issue view --json output.
type issueResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	URL    string `json:"url"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	CreatedAt string `json:"createdAt"`
	State     string `json:"state"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
}

func (r *issueResponse) toIssue() *Issue {
	issue := &Issue{
		Number:    r.Number,
		Title:     r.Title,
		Body:      r.Body,
		Labels:    make([]string, 0, len(r.Labels)),
		URL:       r.URL,
		Author:    r.Author.Login,
		CreatedAt: r.CreatedAt,
		State:     r.State,
		Assignees: make([]string, 0, len(r.Assignees)),
	}
	for _, l := range r.Labels {
		issue.Labels = append(issue.Labels, l.Name)
	}
	for _, a := range r.Assignees {
		issue.Assignees = append(issue.Assignees, a.Login)
	}
	return issue
}

// treeResponse mirrors the git/trees API output.
type treeResponse struct {
	Tree []treeEntry `json:"tree"`
}

// treeEntry is a single node of the recursive tree. Only blob entries are
// file-like and eligible for listing.
type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// contentsResponse mirrors the repos contents API output for a single entry.
type contentsResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

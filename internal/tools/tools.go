// Package tools binds the repository browser and the research client into
// the tool contract exposed to the planner.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/issue-planner/planctl/internal/githubapi"
	"github.com/issue-planner/planctl/internal/toolcall"
)

// Browser is the read-only repository query surface. Implemented by
// githubapi.Client.
type Browser interface {
	FetchIssue(ctx context.Context, repo string, number int) (*githubapi.Issue, error)
	ListFiles(ctx context.Context, repo string, opts githubapi.ListOptions) (*githubapi.FileListing, error)
	FetchFile(ctx context.Context, repo, path, ref string, maxChars int) (*githubapi.FileSnapshot, error)
}

// Researcher is the web search/scrape surface. Implemented by firecrawl.Client.
type Researcher interface {
	Search(ctx context.Context, query string, limit int) (json.RawMessage, error)
	Scrape(ctx context.Context, url string) (json.RawMessage, error)
}

// ResearcherFactory constructs a Researcher on demand. It is invoked per
// call so that a missing credential surfaces exactly when research is first
// attempted, before any network activity.
type ResearcherFactory func() (Researcher, error)

// Provider assembles the five planner tools.
type Provider struct {
	browser  Browser
	research ResearcherFactory
}

// NewProvider constructs a Provider over the given capabilities.
func NewProvider(browser Browser, research ResearcherFactory) *Provider {
	return &Provider{browser: browser, research: research}
}

// Registry returns the tool registry in declaration order.
func (p *Provider) Registry() *toolcall.Registry {
	return toolcall.NewRegistry(
		p.fetchIssueTool(),
		p.listFilesTool(),
		p.fetchFileTool(),
		p.searchTool(),
		p.scrapeTool(),
	)
}

type issueArgs struct {
	Repo        string `json:"repo" jsonschema_description:"Repository in 'owner/name' format."`
	IssueNumber int    `json:"issue_number" jsonschema_description:"The issue number to fetch."`
}

type listFilesArgs struct {
	Repo         string              `json:"repo" jsonschema_description:"Repository in 'owner/name' format."`
	MaxFiles     int                 `json:"max_files,omitempty" jsonschema_description:"Max number of files to return (default 80)."`
	Extensions   toolcall.StringList `json:"extensions,omitempty" jsonschema_description:"File extensions to keep, e.g. ['.py', '.ts']."`
	PathPrefixes toolcall.StringList `json:"path_prefixes,omitempty" jsonschema_description:"Path prefixes to include, e.g. ['src/', 'app/api/']."`
}

type fileArgs struct {
	Repo     string `json:"repo" jsonschema_description:"Repository in 'owner/name' format."`
	Path     string `json:"path" jsonschema_description:"File path in the repo, e.g. 'src/main.py'."`
	Ref      string `json:"ref,omitempty" jsonschema_description:"Branch, tag or commit ref (default: the repo's default branch)."`
	MaxChars int    `json:"max_chars,omitempty" jsonschema_description:"Max characters of decoded content to return (default 8000)."`
}

type searchArgs struct {
	Query string `json:"query" jsonschema_description:"Search query, usually based on the issue title, framework or error message."`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Max number of results to return (default 3)."`
}

type scrapeArgs struct {
	URL string `json:"url" jsonschema_description:"URL to scrape: docs, a blog post, a README in another repo."`
}

func (p *Provider) fetchIssueTool() toolcall.Tool {
	return toolcall.Tool{
		Name:        "get_github_issue",
		Description: "Fetch a GitHub issue (title, body, labels, URL, author, state, assignees) using the GitHub CLI.",
		Args:        &issueArgs{},
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args issueArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return badArgs("get_github_issue", raw, err), nil
			}
			issue, err := p.browser.FetchIssue(ctx, args.Repo, args.IssueNumber)
			if err != nil {
				return browserEnvelope("fetch issue", err, map[string]any{
					"repo":         args.Repo,
					"issue_number": args.IssueNumber,
				}), nil
			}
			return toolcall.Encode(issue), nil
		},
	}
}

func (p *Provider) listFilesTool() toolcall.Tool {
	return toolcall.Tool{
		Name: "list_repo_files_gh",
		Description: "List files in the remote repo's default branch. Reason first about which areas of " +
			"the codebase are likely relevant and pass a small set of path_prefixes instead of scanning the whole project.",
		Args: &listFilesArgs{},
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args listFilesArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return badArgs("list_repo_files_gh", raw, err), nil
			}
			listing, err := p.browser.ListFiles(ctx, args.Repo, githubapi.ListOptions{
				MaxFiles:     args.MaxFiles,
				Extensions:   args.Extensions,
				PathPrefixes: args.PathPrefixes,
			})
			if err != nil {
				return browserEnvelope("list repo files", err, map[string]any{
					"repo": args.Repo,
				}), nil
			}
			return toolcall.Encode(listing), nil
		},
	}
}

func (p *Provider) fetchFileTool() toolcall.Tool {
	return toolcall.Tool{
		Name:        "get_repo_file_gh",
		Description: "Read one file's contents from the remote repo, decoded as text and truncated to max_chars characters.",
		Args:        &fileArgs{},
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args fileArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return badArgs("get_repo_file_gh", raw, err), nil
			}
			snapshot, err := p.browser.FetchFile(ctx, args.Repo, args.Path, args.Ref, args.MaxChars)
			if err != nil {
				ref := args.Ref
				if ref == "" {
					ref = githubapi.DefaultBranchRef
				}
				return browserEnvelope("fetch file", err, map[string]any{
					"repo": args.Repo,
					"path": args.Path,
					"ref":  ref,
				}), nil
			}
			return toolcall.Encode(snapshot), nil
		},
	}
}

func (p *Provider) searchTool() toolcall.Tool {
	return toolcall.Tool{
		Name:        "firecrawl_search",
		Description: "Run a Firecrawl web search for docs related to the issue or tech stack.",
		Args:        &searchArgs{},
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args searchArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid firecrawl_search arguments: %w", err)
			}
			client, err := p.research()
			if err != nil {
				return "", err
			}
			result, err := client.Search(ctx, args.Query, args.Limit)
			if err != nil {
				return "", err
			}
			return string(result), nil
		},
	}
}

func (p *Provider) scrapeTool() toolcall.Tool {
	return toolcall.Tool{
		Name:        "firecrawl_scrape",
		Description: "Scrape a single URL with Firecrawl, rendered as markdown, for deeper research.",
		Args:        &scrapeArgs{},
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args scrapeArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid firecrawl_scrape arguments: %w", err)
			}
			client, err := p.research()
			if err != nil {
				return "", err
			}
			result, err := client.Scrape(ctx, args.URL)
			if err != nil {
				return "", err
			}
			return string(result), nil
		},
	}
}

// badArgs shapes an undecodable argument payload into an error envelope so
// the model can correct the call.
func badArgs(tool string, raw json.RawMessage, err error) string {
	return toolcall.ErrorEnvelope(fmt.Sprintf("invalid %s arguments: %v", tool, err), map[string]any{
		"args": string(raw),
	})
}

// browserEnvelope converts a repository browser failure into an error
// envelope, attaching the diagnostic field matching the failure kind.
func browserEnvelope(op string, err error, params map[string]any) string {
	ctx := make(map[string]any, len(params)+1)
	for k, v := range params {
		ctx[k] = v
	}

	var execErr *githubapi.ExecError
	var parseErr *githubapi.ParseError
	var typeErr *githubapi.TypeMismatchError
	var encErr *githubapi.EncodingError
	var decErr *githubapi.DecodeError
	switch {
	case errors.As(err, &execErr):
		ctx["stderr"] = execErr.Stderr
		return toolcall.ErrorEnvelope(fmt.Sprintf("Failed to %s via GitHub CLI", op), ctx)
	case errors.As(err, &parseErr):
		ctx["raw"] = parseErr.Raw
		return toolcall.ErrorEnvelope(fmt.Sprintf("Failed to parse JSON from gh (%s)", op), ctx)
	case errors.As(err, &typeErr):
		ctx["data_type"] = typeErr.DataType
		return toolcall.ErrorEnvelope("Path is not a file", ctx)
	case errors.As(err, &encErr):
		ctx["encoding"] = encErr.Encoding
		return toolcall.ErrorEnvelope("Unexpected encoding", ctx)
	case errors.As(err, &decErr):
		ctx["encoding"] = decErr.Encoding
		return toolcall.ErrorEnvelope(fmt.Sprintf("Failed to decode file content: %v", decErr.Err), ctx)
	default:
		return toolcall.ErrorEnvelope(err.Error(), ctx)
	}
}

// Package firecrawl is a small client for the Firecrawl v1 search and scrape API.
//
// Unlike the gh-backed repository browser, this client reports failures as
// plain errors: research is best-effort and a missing credential is a setup
// defect, not data the planner should reason over.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultBaseURL is the public Firecrawl API endpoint.
const DefaultBaseURL = "https://api.firecrawl.dev"

// DefaultSearchLimit caps search results when the caller gives no limit.
const DefaultSearchLimit = 3

// ErrMissingAPIKey indicates that no Firecrawl credential is configured.
var ErrMissingAPIKey = errors.New("FIRECRAWL_API_KEY is not set")

// Client issues search and scrape requests against the Firecrawl API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New constructs a Client. It fails with ErrMissingAPIKey before any network
// activity when the key is empty.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search runs a web search and returns the structured result payload verbatim.
func (c *Client) Search(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return c.post(ctx, "/v1/search", map[string]any{
		"query": query,
		"limit": limit,
	})
}

// Scrape fetches a single URL rendered as markdown and returns the payload verbatim.
func (c *Client) Scrape(ctx context.Context, url string) (json.RawMessage, error) {
	return c.post(ctx, "/v1/scrape", map[string]any{
		"url":     url,
		"formats": []string{"markdown"},
	})
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode firecrawl request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build firecrawl request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read firecrawl response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("firecrawl request %s: status %d: %s", path, resp.StatusCode, out)
	}
	return json.RawMessage(out), nil
}

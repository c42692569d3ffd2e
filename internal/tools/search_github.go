package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SearchGitHubTool searches GitHub repositories via the public REST API.
type SearchGitHubTool struct {
	// BaseURL overrides the GitHub API root, for tests.
	BaseURL string
}

type searchGitHubArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type githubSearchResponse struct {
	Items []struct {
		FullName    string `json:"full_name"`
		Description string `json:"description"`
		Stars       int    `json:"stargazers_count"`
		HTMLURL     string `json:"html_url"`
	} `json:"items"`
}

func (t *SearchGitHubTool) Name() string { return "search_github" }

func (t *SearchGitHubTool) Description() string {
	return "Search GitHub for repositories matching a query. Returns repository names, descriptions, star counts, and URLs."
}

func (t *SearchGitHubTool) Parameters() json.RawMessage {
	return Schema{
		Type: "object",
		Properties: map[string]SchemaProperty{
			"query":       {Type: "string", Description: "The search query, e.g. 'swiftui markdown parser'"},
			"max_results": {Type: "integer", Description: "Maximum number of repositories to return (default: 5)"},
		},
		Required: []string{"query"},
	}.MustMarshal()
}

func (t *SearchGitHubTool) Site() Site { return SiteServer }

func (t *SearchGitHubTool) Execute(ctx context.Context, arguments string) (*ToolResult, error) {
	var args searchGitHubArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Query == "" {
		return ErrorResult("query is required"), nil
	}
	if args.MaxResults <= 0 {
		args.MaxResults = 5
	}

	base := t.BaseURL
	if base == "" {
		base = "https://api.github.com"
	}

	endpoint := fmt.Sprintf("%s/search/repositories?q=%s&per_page=%d&sort=stars",
		base, url.QueryEscape(args.Query), args.MaxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ErrorResult(fmt.Sprintf("build request: %v", err)), nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "clippy-sidecar")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return ErrorResult(fmt.Sprintf("github search failed: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrorResult(fmt.Sprintf("github search failed: HTTP %d", resp.StatusCode)), nil
	}

	var parsed githubSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ErrorResult(fmt.Sprintf("decode github response: %v", err)), nil
	}

	if len(parsed.Items) == 0 {
		return &ToolResult{Output: fmt.Sprintf("No repositories found for %q", args.Query)}, nil
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("GitHub repositories for %q:\n\n", args.Query))
	for i, repo := range parsed.Items {
		out.WriteString(fmt.Sprintf("%d. %s (%d stars)\n   %s\n", i+1, repo.FullName, repo.Stars, repo.HTMLURL))
		if repo.Description != "" {
			out.WriteString(fmt.Sprintf("   %s\n", repo.Description))
		}
		if i < len(parsed.Items)-1 {
			out.WriteString("\n")
		}
	}

	return &ToolResult{Output: out.String()}, nil
}

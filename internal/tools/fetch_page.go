package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxPageChars = 4000

// FetchPageTool fetches a web page and extracts its readable text, so the
// model can answer questions about a link the user copied.
type FetchPageTool struct{}

type fetchPageArgs struct {
	URL string `json:"url"`
}

func (t *FetchPageTool) Name() string { return "fetch_page" }

func (t *FetchPageTool) Description() string {
	return "Fetch a web page and return its title and main text content. Useful when the user's clipboard or message contains a URL."
}

func (t *FetchPageTool) Parameters() json.RawMessage {
	return Schema{
		Type: "object",
		Properties: map[string]SchemaProperty{
			"url": {Type: "string", Description: "The http(s) URL to fetch"},
		},
		Required: []string{"url"},
	}.MustMarshal()
}

func (t *FetchPageTool) Site() Site { return SiteServer }

func (t *FetchPageTool) Execute(ctx context.Context, arguments string) (*ToolResult, error) {
	var args fetchPageArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if !strings.HasPrefix(args.URL, "http://") && !strings.HasPrefix(args.URL, "https://") {
		return ErrorResult("url must start with http:// or https://"), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, nil)
	if err != nil {
		return ErrorResult(fmt.Sprintf("build request: %v", err)), nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko)")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return ErrorResult(fmt.Sprintf("fetch failed: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrorResult(fmt.Sprintf("fetch failed: HTTP %d", resp.StatusCode)), nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ErrorResult(fmt.Sprintf("parse page: %v", err)), nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var text strings.Builder
	doc.Find("p, h1, h2, h3, li").Each(func(_ int, s *goquery.Selection) {
		if text.Len() >= maxPageChars {
			return
		}
		line := strings.TrimSpace(s.Text())
		if line == "" {
			return
		}
		text.WriteString(line)
		text.WriteString("\n")
	})

	body := text.String()
	if len(body) > maxPageChars {
		body = body[:maxPageChars] + "\n[truncated]"
	}
	if title == "" && body == "" {
		return &ToolResult{Output: fmt.Sprintf("No readable text found at %s", args.URL)}, nil
	}

	return &ToolResult{Output: fmt.Sprintf("Title: %s\n\n%s", title, body)}, nil
}

package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

const maxFetchedContentLength = 50000

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

type FetchURLTool struct {
	client *http.Client
	l      pkgLog.Logger
}

func NewFetchURLTool(client *http.Client, l pkgLog.Logger) *FetchURLTool {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FetchURLTool{client: client, l: l}
}

func (t *FetchURLTool) Name() string {
	return "fetch_url"
}

func (t *FetchURLTool) Description() string {
	return "Fetches content from a URL. Use this to read web pages, APIs, or any HTTP resource."
}

func (t *FetchURLTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "The URL to fetch (must be http or https)",
			},
		},
		"required": []string{"url"},
	}
}

type FetchURLInput struct {
	URL string `json:"url"`
}

type FetchURLOutput struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

func (t *FetchURLTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params FetchURLInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(params.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("only HTTP and HTTPS URLs are supported")
	}

	t.l.Infof(ctx, "fetch_url: %s", params.URL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, params.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	httpReq.Header.Set("User-Agent", "WhatsApp-Bot/1.0")
	httpReq.Header.Set("Accept", "text/html,application/json,text/plain,*/*")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	// Read one byte past the cap to detect truncation.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchedContentLength+1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	content := string(raw)
	truncated := false
	if len(content) > maxFetchedContentLength {
		content = content[:maxFetchedContentLength]
		truncated = true
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		content = stripHTML(content)
	}
	if truncated {
		content += "\n\n[Content truncated...]"
	}

	return &agent.Output{Data: FetchURLOutput{
		URL:         params.URL,
		ContentType: contentType,
		Content:     content,
	}}, nil
}

func stripHTML(content string) string {
	content = scriptRe.ReplaceAllString(content, "")
	content = styleRe.ReplaceAllString(content, "")
	content = tagRe.ReplaceAllString(content, " ")
	content = spaceRe.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// Verify interface compliance
var _ agent.Tool = (*FetchURLTool)(nil)

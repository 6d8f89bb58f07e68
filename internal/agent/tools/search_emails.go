package tools

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/agent"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

const defaultEmailResults = 5

type SearchEmailsTool struct {
	l pkgLog.Logger
}

func NewSearchEmailsTool(l pkgLog.Logger) *SearchEmailsTool {
	return &SearchEmailsTool{l: l}
}

func (t *SearchEmailsTool) Name() string {
	return "search_emails"
}

func (t *SearchEmailsTool) Description() string {
	return `Searches the user's Gmail inbox. Uses Gmail search syntax (e.g. "from:alice subject:meeting", "newer_than:7d", "is:unread").`
}

func (t *SearchEmailsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Gmail search query",
			},
			"max_results": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of emails to return (default 5)",
			},
		},
		"required": []string{"query"},
	}
}

type SearchEmailsInput struct {
	Query      string `json:"query"`
	MaxResults int64  `json:"max_results"`
}

func (t *SearchEmailsTool) Execute(ctx context.Context, req agent.Request) (*agent.Output, error) {
	var params SearchEmailsInput
	if err := decodeInput(req.Invocation.Input, &params); err != nil {
		return nil, err
	}
	if params.MaxResults <= 0 {
		params.MaxResults = defaultEmailResults
	}

	t.l.Infof(ctx, "search_emails: %q (max %d)", params.Query, params.MaxResults)

	results, err := req.Google.Gmail.Search(ctx, params.Query, params.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}

	return &agent.Output{Data: results}, nil
}

// Verify interface compliance
var _ agent.Tool = (*SearchEmailsTool)(nil)

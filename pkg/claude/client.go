package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type claudeImpl struct {
	apiKey     string
	model      string
	apiURL     string
	maxTokens  int
	httpClient *http.Client
}

func newClaudeImpl(cfg Config) *claudeImpl {
	return &claudeImpl{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		apiURL:     cfg.APIURL,
		maxTokens:  cfg.MaxTokens,
		httpClient: cfg.HTTPClient,
	}
}

// messagesRequest is the wire format of POST /v1/messages.
type messagesRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"`
	Tools     []Tool         `json:"tools,omitempty"`
	Messages  []MessageParam `json:"messages"`
}

// apiError is the wire format of a non-2xx response.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateMessage sends a generation request to the Messages API.
func (c *claudeImpl) CreateMessage(ctx context.Context, req *Request) (*Message, error) {
	if err := validateHistory(req.Messages); err != nil {
		return nil, err
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    req.System,
		Tools:     req.Tools,
		Messages:  req.Messages,
	})
	if err != nil {
		return nil, fmt.Errorf("claude: failed to marshal request: %w", err)
	}

	url := c.apiURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("claude: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("claude: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("claude: API error %d (%s): %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("claude: API error %d: %s", resp.StatusCode, string(raw))
	}

	var result Message
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("claude: failed to decode response: %w", err)
	}

	return &result, nil
}

// Model returns the model being used.
func (c *claudeImpl) Model() string {
	return c.model
}

// validateHistory enforces the tool_use/tool_result pairing invariant:
// every assistant message containing tool_use blocks must be immediately
// followed by a user message whose tool_result blocks match the tool_use
// IDs one-to-one, in order.
func validateHistory(messages []MessageParam) error {
	for i, msg := range messages {
		if msg.Role != RoleAssistant {
			continue
		}

		var uses []ContentBlock
		for _, block := range msg.Content {
			if block.Type == BlockTypeToolUse {
				uses = append(uses, block)
			}
		}
		if len(uses) == 0 {
			continue
		}

		if i+1 >= len(messages) {
			return fmt.Errorf("claude: history invalid: tool_use at message %d has no tool_result turn", i)
		}

		next := messages[i+1]
		if next.Role != RoleUser {
			return fmt.Errorf("claude: history invalid: message %d after tool_use is not a user turn", i+1)
		}

		var results []ContentBlock
		for _, block := range next.Content {
			if block.Type == BlockTypeToolResult {
				results = append(results, block)
			}
		}
		if len(results) != len(uses) {
			return fmt.Errorf("claude: history invalid: %d tool_use blocks but %d tool_result blocks at message %d",
				len(uses), len(results), i+1)
		}
		for j := range uses {
			if results[j].ToolUseID != uses[j].ID {
				return fmt.Errorf("claude: history invalid: tool_result %d references %q, want %q",
					j, results[j].ToolUseID, uses[j].ID)
			}
		}
	}
	return nil
}

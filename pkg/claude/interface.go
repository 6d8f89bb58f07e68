package claude

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// IClaude defines the interface for the Anthropic Messages API client.
// Implementations are safe for concurrent use.
type IClaude interface {
	// CreateMessage sends the system prompt, tools and conversation
	// history to the model and returns its reply.
	CreateMessage(ctx context.Context, req *Request) (*Message, error)

	// Model returns the model being used.
	Model() string
}

// Config holds client configuration.
type Config struct {
	APIKey     string
	Model      string
	APIURL     string
	MaxTokens  int
	HTTPClient *http.Client
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("claude: API key is required")
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return nil
}

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultAPIURL    = "https://api.anthropic.com"
	defaultMaxTokens = 1024
	defaultTimeout   = 60 * time.Second

	apiVersion = "2023-06-01"
)

// New creates a new Claude client with the given configuration.
func New(cfg Config) (IClaude, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newClaudeImpl(cfg), nil
}

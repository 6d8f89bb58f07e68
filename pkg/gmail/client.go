package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail API service.
type Client struct {
	service *gmail.Service
}

// NewClientFromTokenSource creates a Gmail client from a per-user OAuth token source.
func NewClientFromTokenSource(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{service: svc}, nil
}

// NewClientFromHTTP creates a Gmail client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &Client{service: svc}, nil
}

// Search runs a Gmail search query and returns header summaries for the hits.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]EmailSummary, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	listResp, err := c.service.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}

	summaries := make([]EmailSummary, 0, len(listResp.Messages))
	for _, msg := range listResp.Messages {
		detail, err := c.service.Users.Messages.Get("me", msg.Id).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to load email %s: %w", msg.Id, err)
		}

		var headers []*gmail.MessagePartHeader
		if detail.Payload != nil {
			headers = detail.Payload.Headers
		}
		summaries = append(summaries, EmailSummary{
			ID:       detail.Id,
			ThreadID: detail.ThreadId,
			From:     header(headers, "From"),
			To:       header(headers, "To"),
			Subject:  header(headers, "Subject"),
			Date:     header(headers, "Date"),
			Snippet:  detail.Snippet,
		})
	}
	return summaries, nil
}

// Send sends a plain text email as the authenticated user.
func (c *Client) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	raw := strings.Join([]string{
		"To: " + req.To,
		"Subject: " + req.Subject,
		"Content-Type: text/plain; charset=utf-8",
		"",
		req.Body,
	}, "\r\n")

	msg := &gmail.Message{
		Raw:      base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(raw)),
		ThreadId: req.ThreadID,
	}

	sent, err := c.service.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return &SendResult{MessageID: sent.Id, ThreadID: sent.ThreadId}, nil
}

func header(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

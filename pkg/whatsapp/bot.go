package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

// Interactive list length limits, per the Cloud API docs.
const (
	MaxBodyLength        = 1024
	MaxButtonLength      = 20
	MaxRowTitleLength    = 24
	MaxDescriptionLength = 72
	MaxHeaderLength      = 60
	MaxFooterLength      = 60
	MaxRowsPerSection    = 10
)

// Bot is the WhatsApp Cloud API client.
type Bot struct {
	accessToken   string
	phoneNumberID string
	apiURL        string
	httpClient    *http.Client
}

// NewBot creates a new Cloud API client for the given business phone number.
func NewBot(accessToken, phoneNumberID string) *Bot {
	return &Bot{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		apiURL:        "https://graph.facebook.com/v21.0",
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetAPIURL overrides the default Graph API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SendText sends a plain text message to a WhatsApp user.
func (b *Bot) SendText(to, body string) error {
	payload := sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             TextBody{Body: body},
	}
	return b.post(payload)
}

// SendList sends an interactive list message. Over-long fields are
// truncated to the Cloud API limits rather than rejected.
func (b *Bot) SendList(msg ListMessage) error {
	interactive := Interactive{
		Type:   "list",
		Body:   TextBody{Body: truncate(msg.Body, MaxBodyLength)},
		Action: ListAction{Button: truncate(msg.Button, MaxButtonLength)},
	}

	if msg.Header != "" {
		interactive.Header = &ListHeader{Type: "text", Text: truncate(msg.Header, MaxHeaderLength)}
	}
	if msg.Footer != "" {
		interactive.Footer = &TextBody{Body: truncate(msg.Footer, MaxFooterLength)}
	}

	for sIdx, section := range msg.Sections {
		rows := section.Rows
		if len(rows) > MaxRowsPerSection {
			rows = rows[:MaxRowsPerSection]
		}
		out := ListSection{Title: truncate(section.Title, MaxRowTitleLength)}
		for rIdx, row := range rows {
			id := row.ID
			if id == "" {
				id = fmt.Sprintf("row_%d_%d", sIdx, rIdx)
			}
			out.Rows = append(out.Rows, ListRow{
				ID:          id,
				Title:       truncate(row.Title, MaxRowTitleLength),
				Description: truncate(row.Description, MaxDescriptionLength),
			})
		}
		interactive.Action.Sections = append(interactive.Action.Sections, out)
	}

	payload := sendInteractiveRequest{
		MessagingProduct: "whatsapp",
		To:               msg.To,
		Type:             "interactive",
		Interactive:      interactive,
	}
	return b.post(payload)
}

func (b *Bot) post(payload any) error {
	url := fmt.Sprintf("%s/%s/messages", b.apiURL, b.phoneNumberID)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: failed to marshal message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("whatsapp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.accessToken)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("whatsapp: API error %d (%s): %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return fmt.Errorf("whatsapp: API error %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

// truncate caps s at max characters without splitting a multi-byte
// rune at the boundary.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

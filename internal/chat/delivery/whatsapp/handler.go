package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pkgResponse "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/response"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/whatsapp"
)

// processTimeout bounds one agent run kicked off by a webhook message.
const processTimeout = 2 * time.Minute

// Verify answers Meta's webhook verification handshake (GET).
func (h *Handler) Verify(c *gin.Context) {
	challenge, err := h.security.VerifySubscription(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		h.l.Warnf(c.Request.Context(), "webhook verification rejected: %v", err)
		c.String(http.StatusForbidden, "forbidden")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive processes inbound webhook events (POST). Messages are queued
// on the per-chat serializer and the webhook is acknowledged
// immediately; Meta retries deliveries that don't get a fast 200.
func (h *Handler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if err := h.security.ValidateSignature(body, signature); err != nil {
		h.l.Errorf(ctx, "webhook signature verification failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.l.Errorf(ctx, "failed to parse webhook payload: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	accepted := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				if h.enqueue(ctx, msg) {
					accepted++
				}
			}
		}
	}

	pkgResponse.OK(c, gin.H{"status": "accepted", "messages": accepted})
}

// enqueue extracts the message text and queues the agent run. Returns
// false for unsupported message types and rate-limited senders.
func (h *Handler) enqueue(ctx context.Context, msg whatsapp.Message) bool {
	text := messageText(msg)
	if text == "" {
		h.l.Debugf(ctx, "ignoring %s message from %s", msg.Type, msg.From)
		return false
	}

	if err := h.security.CheckRateLimit(msg.From); err != nil {
		h.l.Warnf(ctx, "dropping message: %v", err)
		return false
	}

	chatID := msg.From
	h.serializer.Enqueue(chatID, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		h.processor.HandleMessage(runCtx, chatID, text)
	})
	return true
}

// messageText flattens the supported message types to plain text. A
// tapped list row comes back as the row title.
func messageText(msg whatsapp.Message) string {
	switch msg.Type {
	case "text":
		if msg.Text != nil {
			return msg.Text.Body
		}
	case "interactive":
		if msg.Interactive != nil && msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.Title
		}
	}
	return ""
}

// Package whatsapp is the inbound delivery layer: it terminates the
// WhatsApp Cloud API webhook and feeds messages to the agent.
package whatsapp

import (
	"context"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/serializer"
	pkgLog "github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

// MessageProcessor runs the agent for one inbound message.
type MessageProcessor interface {
	HandleMessage(ctx context.Context, chatID, text string)
}

type Handler struct {
	processor  MessageProcessor
	serializer *serializer.Serializer
	security   *SecurityValidator
	l          pkgLog.Logger
}

func NewHandler(
	processor MessageProcessor,
	securityConfig SecurityConfig,
	ser *serializer.Serializer,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		processor:  processor,
		serializer: ser,
		security:   NewSecurityValidator(securityConfig),
		l:          l,
	}
}

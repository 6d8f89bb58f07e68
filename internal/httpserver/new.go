package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/log"
)

// WebhookHandler terminates the WhatsApp Cloud API webhook.
type WebhookHandler interface {
	Verify(c *gin.Context)
	Receive(c *gin.Context)
}

// AuthFlow drives the Google OAuth pages.
type AuthFlow interface {
	AuthURL(phone string) string
	Exchange(ctx context.Context, code, state string) error
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Chat domain
	webhookHandler WebhookHandler

	// Google OAuth pages
	authFlow AuthFlow

	// Onboarding QR: wa.me link target
	botPhoneNumber string
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Chat domain
	WebhookHandler WebhookHandler

	// Google OAuth pages
	AuthFlow AuthFlow

	// Onboarding QR: the bot's WhatsApp number in international format
	// without "+", e.g. "15551234567".
	BotPhoneNumber string
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.Default(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		webhookHandler: cfg.WebhookHandler,
		authFlow:       cfg.AuthFlow,
		botPhoneNumber: cfg.BotPhoneNumber,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}

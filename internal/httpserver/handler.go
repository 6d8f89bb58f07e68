package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hugodowson2242/whatsapp-calendar-bot/internal/model"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
	return nil
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "HTTP mode: production")
	} else {
		srv.l.Infof(ctx, "HTTP mode: %s", srv.environment)
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the chat webhook, OAuth pages and the
// onboarding QR page.
func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.GET("/webhook", srv.webhookHandler.Verify)
		srv.gin.POST("/webhook", srv.webhookHandler.Receive)
		srv.l.Infof(ctx, "WhatsApp webhook routes registered at /webhook")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping webhook routes")
	}

	if srv.authFlow != nil {
		srv.gin.GET("/auth", srv.authRedirect)
		srv.gin.GET("/auth/callback", srv.authCallback)
		srv.l.Infof(ctx, "Google OAuth routes registered at /auth")
	} else {
		srv.l.Infof(ctx, "Auth flow not configured, skipping OAuth routes")
	}

	if srv.botPhoneNumber != "" {
		srv.gin.GET("/qr", srv.onboardingQR)
		srv.l.Infof(ctx, "Onboarding QR route registered at /qr")
	}
}

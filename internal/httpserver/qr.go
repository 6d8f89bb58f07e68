package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// onboardingQR serves a QR code that opens a WhatsApp chat with the
// bot, for printing or scanning during onboarding.
// @Summary Onboarding QR code
// @Description PNG QR code linking to the bot's WhatsApp chat
// @Tags Onboarding
// @Produce png
// @Success 200 {file} binary
// @Router /qr [get]
func (srv *HTTPServer) onboardingQR(c *gin.Context) {
	link := fmt.Sprintf("https://wa.me/%s", srv.botPhoneNumber)

	png, err := qrcode.Encode(link, qrcode.Medium, 300)
	if err != nil {
		srv.l.Errorf(c.Request.Context(), "qr encode: %v", err)
		c.String(http.StatusInternalServerError, "Error generating QR")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const authSuccessPage = `<html>
  <head><title>Success</title></head>
  <body style="display:flex;justify-content:center;align-items:center;height:100vh;margin:0;flex-direction:column;">
    <h1>Google account connected!</h1>
    <p>You can close this window and go back to WhatsApp.</p>
  </body>
</html>`

// authRedirect sends the user to the Google consent page for their
// phone number.
// @Summary Start Google authorization
// @Description Redirects to the Google OAuth consent page
// @Tags Auth
// @Param phone query string true "WhatsApp phone number"
// @Success 302
// @Failure 400 {string} string "missing phone"
// @Router /auth [get]
func (srv *HTTPServer) authRedirect(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte("<h1>Missing phone parameter</h1>"))
		return
	}
	c.Redirect(http.StatusFound, srv.authFlow.AuthURL(phone))
}

// authCallback finishes the OAuth flow: exchanges the code and stores
// the refresh token for the phone number carried in state.
// @Summary Google authorization callback
// @Description Exchanges the authorization code for tokens
// @Tags Auth
// @Param code query string true "authorization code"
// @Param state query string true "phone number"
// @Success 200 {string} string "HTML confirmation"
// @Failure 400 {string} string "missing code or state"
// @Router /auth/callback [get]
func (srv *HTTPServer) authCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte("<h1>Missing code or state</h1>"))
		return
	}

	if err := srv.authFlow.Exchange(c.Request.Context(), code, state); err != nil {
		srv.l.Errorf(c.Request.Context(), "oauth callback: %v", err)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8",
			[]byte("<h1>Authentication failed</h1><p>Please try again from WhatsApp.</p>"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(authSuccessPage))
}

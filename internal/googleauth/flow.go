// Package googleauth handles the per-user Google OAuth flow and builds
// the per-run API client set from stored refresh tokens.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes requested during authorization. Kept minimal: event writes,
// docs editing, read-only drive search, read+send mail.
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
}

// TokenSaver persists refresh tokens per phone number.
type TokenSaver interface {
	SaveRefreshToken(phone, token string) error
}

// Flow drives the authorization-code exchange for WhatsApp users. The
// user's phone number rides in the OAuth state parameter so the
// callback knows whose token arrived.
type Flow struct {
	config  *oauth2.Config
	baseURL string
	tokens  TokenSaver
}

// NewFlow builds a Flow. baseURL is the public URL of this service; the
// redirect URI is derived from it.
func NewFlow(clientID, clientSecret, baseURL string, tokens TokenSaver) *Flow {
	return &Flow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/callback",
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
		baseURL: baseURL,
		tokens:  tokens,
	}
}

// AuthURL returns the Google consent page URL for a phone number.
// Offline access plus forced consent guarantees a refresh token.
func (f *Flow) AuthURL(phone string) string {
	return f.config.AuthCodeURL(phone,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// LoginURL returns this service's /auth entry point for a phone number,
// which redirects to Google. This is what gets sent over WhatsApp.
func (f *Flow) LoginURL(phone string) string {
	return fmt.Sprintf("%s/auth?phone=%s", f.baseURL, url.QueryEscape(phone))
}

// Exchange trades an authorization code for tokens and stores the
// refresh token under the phone number carried in state.
func (f *Flow) Exchange(ctx context.Context, code, state string) error {
	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return errors.New("no refresh token received; the user may have already authorized this app")
	}
	if err := f.tokens.SaveRefreshToken(state, token.RefreshToken); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// TokenSource returns a self-refreshing token source for a stored
// refresh token.
func (f *Flow) TokenSource(ctx context.Context, refreshToken string) oauth2.TokenSource {
	return f.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}

// Package google reads busy times from Google Calendar and creates Google
// Meet links through calendar events.
package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Endpoint is Google's OAuth 2.0 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// Credentials identify the Google account whose calendar is used.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Configured reports whether every credential is present.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// TokenSource exchanges the stored refresh token for access tokens.
func (c Credentials) TokenSource(ctx context.Context) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar"},
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken})
}

func httpClient(ctx context.Context, source oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, source)
	client.Timeout = 15 * time.Second
	return client
}

func responseError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("google %s failed: status=%d body=%s", op, resp.StatusCode, string(body))
}

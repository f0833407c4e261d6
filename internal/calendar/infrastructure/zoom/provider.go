// Package zoom creates Zoom meetings with a server-to-server OAuth app.
package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultBaseURL  = "https://api.zoom.us/v2"
	defaultTokenURL = "https://zoom.us/oauth/token"
)

// Config holds the server-to-server app credentials.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	// UserID hosts the meetings; "me" is the app's own user.
	UserID   string
	BaseURL  string
	TokenURL string
}

// Configured reports whether every credential is present.
func (c Config) Configured() bool {
	return c.AccountID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// Provider implements services.MeetingLinkProvider for Zoom.
type Provider struct {
	client  *http.Client
	baseURL string
	userID  string
	logger  *slog.Logger
}

// NewProvider creates a Zoom provider. Tokens are fetched with the
// account_credentials grant and cached until expiry.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.UserID == "" {
		cfg.UserID = "me"
	}
	oauth := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {cfg.AccountID},
		},
	}
	client := oauth.Client(ctx)
	client.Timeout = 15 * time.Second
	return &Provider{
		client:  client,
		baseURL: cfg.BaseURL,
		userID:  cfg.UserID,
		logger:  logger,
	}
}

// Platform implements services.MeetingLinkProvider.
func (p *Provider) Platform() domain.MeetingPlatform { return domain.PlatformZoom }

type meetingRequest struct {
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
	Agenda    string `json:"agenda,omitempty"`
}

// scheduledMeeting is Zoom's meeting type for a one-off meeting with a fixed time.
const scheduledMeeting = 2

// CreateMeeting schedules a Zoom meeting and returns its join URL.
func (p *Provider) CreateMeeting(ctx context.Context, req services.MeetingRequest) (string, error) {
	body, err := json.Marshal(meetingRequest{
		Topic:     req.Topic,
		Type:      scheduledMeeting,
		StartTime: req.Start.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  int(req.Duration / time.Minute),
		Timezone:  "UTC",
		Agenda:    fmt.Sprintf("Interview %s", req.InterviewID),
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/users/%s/meetings", p.baseURL, url.PathEscape(p.userID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("zoom create meeting failed: status=%d body=%s", resp.StatusCode, string(msg))
	}

	var created struct {
		ID      int64  `json:"id"`
		JoinURL string `json:"join_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode zoom response: %w", err)
	}
	if created.JoinURL == "" {
		return "", fmt.Errorf("zoom meeting %d has no join url", created.ID)
	}
	p.logger.Info("zoom meeting created", "interview_id", req.InterviewID, "meeting_id", created.ID)
	return created.JoinURL, nil
}

package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	"golang.org/x/oauth2"
)

// MeetProvider creates Google Meet links by inserting a calendar event with
// a conference create request.
type MeetProvider struct {
	source     oauth2.TokenSource
	logger     *slog.Logger
	baseURL    string
	calendarID string
}

// NewMeetProvider creates a Meet link provider on the primary calendar.
func NewMeetProvider(source oauth2.TokenSource, logger *slog.Logger) *MeetProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetProvider{
		source:     source,
		logger:     logger,
		baseURL:    defaultBaseURL,
		calendarID: "primary",
	}
}

// WithBaseURL overrides the Calendar API base URL.
func (p *MeetProvider) WithBaseURL(baseURL string) *MeetProvider {
	if baseURL != "" {
		p.baseURL = baseURL
	}
	return p
}

// WithCalendarID sets the calendar that holds interview events.
func (p *MeetProvider) WithCalendarID(calendarID string) *MeetProvider {
	if calendarID != "" {
		p.calendarID = calendarID
	}
	return p
}

// Platform implements services.MeetingLinkProvider.
func (p *MeetProvider) Platform() domain.MeetingPlatform { return domain.PlatformGoogleMeet }

type meetEvent struct {
	Summary        string        `json:"summary"`
	Description    string        `json:"description,omitempty"`
	Start          eventTime     `json:"start"`
	End            eventTime     `json:"end"`
	ConferenceData conferenceReq `json:"conferenceData"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type conferenceReq struct {
	CreateRequest struct {
		RequestID             string `json:"requestId"`
		ConferenceSolutionKey struct {
			Type string `json:"type"`
		} `json:"conferenceSolutionKey"`
	} `json:"createRequest"`
}

// CreateMeeting inserts the interview event and returns its Meet link. The
// request ID is derived from the interview and start time so a retried
// request for the same schedule yields the same conference.
func (p *MeetProvider) CreateMeeting(ctx context.Context, req services.MeetingRequest) (string, error) {
	event := meetEvent{
		Summary:     req.Topic,
		Description: fmt.Sprintf("Interview %s", req.InterviewID),
		Start:       eventTime{DateTime: req.Start.UTC().Format(time.RFC3339)},
		End:         eventTime{DateTime: req.Start.Add(req.Duration).UTC().Format(time.RFC3339)},
	}
	event.ConferenceData.CreateRequest.RequestID = fmt.Sprintf("%s-%d", req.InterviewID, req.Start.Unix())
	event.ConferenceData.CreateRequest.ConferenceSolutionKey.Type = "hangoutsMeet"
	body, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1", p.baseURL, url.PathEscape(p.calendarID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := httpClient(ctx, p.source).Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", responseError("meet", resp)
	}

	var created struct {
		ID          string `json:"id"`
		HangoutLink string `json:"hangoutLink"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode event response: %w", err)
	}
	if created.HangoutLink == "" {
		return "", fmt.Errorf("google event %s has no meet link", created.ID)
	}
	p.logger.Info("google meet created", "interview_id", req.InterviewID, "event_id", created.ID)
	return created.HangoutLink, nil
}

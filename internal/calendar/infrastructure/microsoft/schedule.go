// Package microsoft reads busy times from Outlook calendars through the
// Microsoft Graph getSchedule endpoint.
package microsoft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// graphDateTime is the zone-less layout Graph uses for dateTimeTimeZone values.
const graphDateTime = "2006-01-02T15:04:05"

// BusyLabel is used when Graph withholds the event subject.
const BusyLabel = "Busy"

// Credentials identify an Entra ID app registration with Calendars.Read
// application permission.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// Configured reports whether every credential is present.
func (c Credentials) Configured() bool {
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}

// TokenSource returns app-only tokens from the client credentials grant.
func (c Credentials) TokenSource(ctx context.Context) oauth2.TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", c.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	return cfg.TokenSource(ctx)
}

// ScheduleSource reads busy periods for a mailbox.
type ScheduleSource struct {
	source    oauth2.TokenSource
	logger    *slog.Logger
	baseURL   string
	mailboxes func(employerID string) []string
	client    *http.Client
}

// NewScheduleSource creates a busy-time source querying mailbox for every employer.
func NewScheduleSource(source oauth2.TokenSource, mailbox string, logger *slog.Logger) *ScheduleSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleSource{
		source:    source,
		logger:    logger,
		baseURL:   defaultBaseURL,
		mailboxes: func(string) []string { return []string{mailbox} },
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: &oauthTransport{base: http.DefaultTransport, source: source},
		},
	}
}

// WithBaseURL overrides the Graph base URL.
func (s *ScheduleSource) WithBaseURL(baseURL string) *ScheduleSource {
	if baseURL != "" {
		s.baseURL = baseURL
	}
	return s
}

// WithMailboxResolver maps each employer to the mailboxes to query.
func (s *ScheduleSource) WithMailboxResolver(resolve func(employerID string) []string) *ScheduleSource {
	if resolve != nil {
		s.mailboxes = resolve
	}
	return s
}

type dateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type scheduleRequest struct {
	Schedules []string         `json:"schedules"`
	StartTime dateTimeTimeZone `json:"startTime"`
	EndTime   dateTimeTimeZone `json:"endTime"`
}

type scheduleResponse struct {
	Value []struct {
		ScheduleID    string `json:"scheduleId"`
		ScheduleItems []struct {
			Status  string           `json:"status"`
			Subject string           `json:"subject"`
			Start   dateTimeTimeZone `json:"start"`
			End     dateTimeTimeZone `json:"end"`
		} `json:"scheduleItems"`
		Error *struct {
			Message      string `json:"message"`
			ResponseCode string `json:"responseCode"`
		} `json:"error"`
	} `json:"value"`
}

// BusyTimes returns the employer's busy periods inside window. Items shown
// as free are skipped.
func (s *ScheduleSource) BusyTimes(ctx context.Context, employerID string, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	mailboxes := s.mailboxes(employerID)
	if len(mailboxes) == 0 || mailboxes[0] == "" {
		return nil, nil
	}
	payload := scheduleRequest{
		Schedules: mailboxes,
		StartTime: dateTimeTimeZone{DateTime: window.Start.UTC().Format(graphDateTime), TimeZone: "UTC"},
		EndTime:   dateTimeTimeZone{DateTime: window.End.UTC().Format(graphDateTime), TimeZone: "UTC"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	// Graph resolves the organizer from the first mailbox for app-only calls.
	endpoint := fmt.Sprintf("%s/users/%s/calendar/getSchedule", s.baseURL, mailboxes[0])
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var decoded scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode schedule response: %w", err)
	}

	var busy []schedDomain.BusySlot
	for _, sched := range decoded.Value {
		if sched.Error != nil {
			s.logger.Warn("schedule lookup error", "mailbox", sched.ScheduleID, "employer_id", employerID, "message", sched.Error.Message)
			continue
		}
		for _, item := range sched.ScheduleItems {
			if !blocksTime(item.Status) {
				continue
			}
			start, err := parseGraphTime(item.Start)
			if err != nil {
				s.logger.Warn("skipping schedule item", "mailbox", sched.ScheduleID, "error", err)
				continue
			}
			end, err := parseGraphTime(item.End)
			if err != nil {
				s.logger.Warn("skipping schedule item", "mailbox", sched.ScheduleID, "error", err)
				continue
			}
			label := item.Subject
			if label == "" {
				label = BusyLabel
			}
			busy = append(busy, schedDomain.NewBusySlot(start, end, label))
		}
	}
	return busy, nil
}

func blocksTime(status string) bool {
	switch status {
	case "free", "unknown":
		return false
	default:
		return true
	}
}

func parseGraphTime(v dateTimeTimeZone) (time.Time, error) {
	loc := time.UTC
	if v.TimeZone != "" && v.TimeZone != "UTC" {
		l, err := time.LoadLocation(v.TimeZone)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown time zone %q: %w", v.TimeZone, err)
		}
		loc = l
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.0000000", v.DateTime, loc)
	if err != nil {
		t, err = time.ParseInLocation(graphDateTime, v.DateTime, loc)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("microsoft graph getSchedule failed: status=%d body=%s", resp.StatusCode, string(body))
}

type oauthTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *oauthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, err
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.base.RoundTrip(req)
}

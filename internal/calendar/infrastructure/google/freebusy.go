package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"golang.org/x/oauth2"
)

// BusyLabel names busy periods read from Google, which exposes no titles.
const BusyLabel = "Busy"

// FreeBusySource reads busy periods with the Calendar freeBusy endpoint.
type FreeBusySource struct {
	source      oauth2.TokenSource
	logger      *slog.Logger
	baseURL     string
	calendarIDs func(employerID string) []string
}

// NewFreeBusySource creates a busy-time source for the primary calendar.
func NewFreeBusySource(source oauth2.TokenSource, logger *slog.Logger) *FreeBusySource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FreeBusySource{
		source:      source,
		logger:      logger,
		baseURL:     defaultBaseURL,
		calendarIDs: func(string) []string { return []string{"primary"} },
	}
}

// WithBaseURL overrides the Calendar API base URL.
func (s *FreeBusySource) WithBaseURL(baseURL string) *FreeBusySource {
	if baseURL != "" {
		s.baseURL = baseURL
	}
	return s
}

// WithCalendarID queries one fixed calendar for every employer.
func (s *FreeBusySource) WithCalendarID(calendarID string) *FreeBusySource {
	if calendarID != "" {
		s.calendarIDs = func(string) []string { return []string{calendarID} }
	}
	return s
}

// WithCalendarResolver maps each employer to the calendars to query.
func (s *FreeBusySource) WithCalendarResolver(resolve func(employerID string) []string) *FreeBusySource {
	if resolve != nil {
		s.calendarIDs = resolve
	}
	return s
}

type freeBusyRequest struct {
	TimeMin string         `json:"timeMin"`
	TimeMax string         `json:"timeMax"`
	Items   []freeBusyItem `json:"items"`
}

type freeBusyItem struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"busy"`
		Errors []struct {
			Domain string `json:"domain"`
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"calendars"`
}

// BusyTimes returns the employer's busy periods inside window.
func (s *FreeBusySource) BusyTimes(ctx context.Context, employerID string, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	ids := s.calendarIDs(employerID)
	if len(ids) == 0 {
		return nil, nil
	}
	payload := freeBusyRequest{
		TimeMin: window.Start.UTC().Format(time.RFC3339),
		TimeMax: window.End.UTC().Format(time.RFC3339),
	}
	for _, id := range ids {
		payload.Items = append(payload.Items, freeBusyItem{ID: id})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/freeBusy", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient(ctx, s.source).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError("freebusy", resp)
	}

	var decoded freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode freebusy response: %w", err)
	}

	var busy []schedDomain.BusySlot
	for id, cal := range decoded.Calendars {
		for _, e := range cal.Errors {
			s.logger.Warn("freebusy calendar error", "calendar_id", id, "employer_id", employerID, "reason", e.Reason)
		}
		for _, b := range cal.Busy {
			busy = append(busy, schedDomain.NewBusySlot(b.Start.UTC(), b.End.UTC(), BusyLabel))
		}
	}
	return busy, nil
}

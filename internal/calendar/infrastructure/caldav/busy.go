// Package caldav reads busy times from a CalDAV calendar (Apple Calendar,
// Fastmail, Nextcloud and similar servers).
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
)

// Common CalDAV server URLs.
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// BusySource treats every opaque, non-cancelled event as busy time.
type BusySource struct {
	baseURL      string
	username     string
	password     string // app-specific password for Apple
	calendarPath string
	logger       *slog.Logger
	httpClient   *http.Client
}

// NewBusySource creates a CalDAV busy-time source.
func NewBusySource(baseURL, username, password string, logger *slog.Logger) *BusySource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusySource{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithCalendarPath pins the calendar to read. Otherwise the first calendar
// of the principal's home set is used.
func (s *BusySource) WithCalendarPath(path string) *BusySource {
	s.calendarPath = path
	return s
}

// BusyTimes returns busy periods overlapping window. Recurring events are
// expanded client-side.
func (s *BusySource) BusyTimes(ctx context.Context, employerID string, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(s.httpClient, s.username, s.password), s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	calPath, err := s.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Props: []string{ical.PropVersion},
			Comps: []caldav.CalendarCompRequest{{
				Name: ical.CompEvent,
				Props: []string{
					ical.PropSummary, ical.PropDateTimeStart, ical.PropDateTimeEnd, ical.PropDuration,
					ical.PropUID, ical.PropStatus, ical.PropTransparency, ical.PropRecurrenceRule,
				},
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: window.Start,
				End:   window.End,
			}},
		},
	}
	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	var busy []schedDomain.BusySlot
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		slots, err := BusySlotsFromCalendar(obj.Data, window)
		if err != nil {
			s.logger.Warn("skipping unreadable caldav event", "path", obj.Path, "employer_id", employerID, "error", err)
			continue
		}
		busy = append(busy, slots...)
	}
	return busy, nil
}

func (s *BusySource) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if s.calendarPath != "" {
		return s.calendarPath, nil
	}
	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}
	return cals[0].Path, nil
}

// BusySlotsFromCalendar extracts the busy periods of every event in cal that
// overlap window. Transparent and cancelled events are free time.
func BusySlotsFromCalendar(cal *ical.Calendar, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	var busy []schedDomain.BusySlot
	for _, event := range cal.Events() {
		if !blocksTime(event) {
			continue
		}
		start, err := event.DateTimeStart(time.UTC)
		if err != nil {
			return nil, err
		}
		end, err := event.DateTimeEnd(time.UTC)
		if err != nil {
			return nil, err
		}
		length := end.Sub(start)
		if length <= 0 {
			continue
		}
		label := "Busy"
		if summary, err := event.Props.Text(ical.PropSummary); err == nil && summary != "" {
			label = summary
		}

		starts := []time.Time{start}
		set, err := event.RecurrenceSet(time.UTC)
		if err != nil {
			return nil, err
		}
		if set != nil {
			starts = set.Between(window.Start.Add(-length), window.End, false)
		}
		for _, occurrence := range starts {
			slot := schedDomain.NewBusySlot(occurrence.UTC(), occurrence.Add(length).UTC(), label)
			if slot.Overlaps(window) {
				busy = append(busy, slot)
			}
		}
	}
	return busy, nil
}

func blocksTime(event ical.Event) bool {
	if prop := event.Props.Get(ical.PropTransparency); prop != nil && strings.EqualFold(prop.Value, "TRANSPARENT") {
		return false
	}
	if prop := event.Props.Get(ical.PropStatus); prop != nil && strings.EqualFold(prop.Value, "CANCELLED") {
		return false
	}
	return true
}

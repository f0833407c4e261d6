package services

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"github.com/google/uuid"
)

// BusyTimeSource supplies an employer's busy periods inside a window.
type BusyTimeSource interface {
	BusyTimes(ctx context.Context, employerID string, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error)
}

// TeamRoster lists the user IDs that may interview for an employer.
type TeamRoster interface {
	Members(ctx context.Context, employerID string) ([]string, error)
}

// MeetingRequest describes the meeting a provider should create.
type MeetingRequest struct {
	InterviewID   uuid.UUID
	EmployerID    string
	InterviewerID string
	Topic         string
	Start         time.Time
	Duration      time.Duration
}

// MeetingLinkProvider creates a video meeting on one platform.
type MeetingLinkProvider interface {
	Platform() domain.MeetingPlatform
	CreateMeeting(ctx context.Context, req MeetingRequest) (string, error)
}

// NoBusyTimes is a BusyTimeSource for employers without a connected calendar.
type NoBusyTimes struct{}

func (NoBusyTimes) BusyTimes(context.Context, string, schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	return nil, nil
}

// MultiBusyTimeSource merges several sources. A failing source fails the lookup.
type MultiBusyTimeSource []BusyTimeSource

func (m MultiBusyTimeSource) BusyTimes(ctx context.Context, employerID string, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	var out []schedDomain.BusySlot
	for _, src := range m {
		busy, err := src.BusyTimes(ctx, employerID, window)
		if err != nil {
			return nil, err
		}
		out = append(out, busy...)
	}
	return out, nil
}

package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"github.com/google/uuid"
)

const interviewColumns = `
	id, application_id, candidate_id, employer_id, duration_minutes, status,
	proposed_slots, selected_slots, busy_slots, scheduled_at, meeting_platform,
	interviewer_id, meeting_link, meeting_link_status, meeting_link_error,
	reschedule_count, cancel_reason, created_at, updated_at, version
`

// interviewRow is the driver-neutral column set of the interviews table.
type interviewRow struct {
	ID              uuid.UUID
	ApplicationID   uuid.UUID
	CandidateID     string
	EmployerID      string
	DurationMinutes int
	Status          string
	ProposedSlots   []byte
	SelectedSlots   []byte
	BusySlots       []byte
	ScheduledAt     *time.Time
	MeetingPlatform *string
	InterviewerID   *string
	MeetingLink     *string
	LinkStatus      string
	LinkError       *string
	RescheduleCount int
	CancelReason    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

type encodedSlots struct {
	proposed []byte
	selected []byte
	busy     []byte
}

func encodeSlots(i *domain.Interview) (encodedSlots, error) {
	var (
		out encodedSlots
		err error
	)
	if out.proposed, err = json.Marshal(i.ProposedSlots()); err != nil {
		return out, fmt.Errorf("encode proposed slots: %w", err)
	}
	if out.selected, err = json.Marshal(i.SelectedSlots()); err != nil {
		return out, fmt.Errorf("encode selected slots: %w", err)
	}
	if out.busy, err = json.Marshal(i.BusySlots()); err != nil {
		return out, fmt.Errorf("encode busy slots: %w", err)
	}
	return out, nil
}

func platformString(p *domain.MeetingPlatform) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func (row interviewRow) toInterview() (*domain.Interview, error) {
	state := domain.InterviewState{
		ID:              row.ID,
		ApplicationID:   row.ApplicationID,
		CandidateID:     row.CandidateID,
		EmployerID:      row.EmployerID,
		DurationMinutes: row.DurationMinutes,
		Status:          domain.Status(row.Status),
		ScheduledAt:     row.ScheduledAt,
		InterviewerID:   row.InterviewerID,
		MeetingLink:     row.MeetingLink,
		LinkStatus:      domain.LinkStatus(row.LinkStatus),
		LinkError:       row.LinkError,
		RescheduleCount: row.RescheduleCount,
		CancelReason:    row.CancelReason,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Version:         row.Version,
	}
	if row.MeetingPlatform != nil {
		p := domain.MeetingPlatform(*row.MeetingPlatform)
		state.MeetingPlatform = &p
	}
	if err := decode(row.ProposedSlots, &state.ProposedSlots); err != nil {
		return nil, fmt.Errorf("decode proposed slots of %s: %w", row.ID, err)
	}
	if err := decode(row.SelectedSlots, &state.SelectedSlots); err != nil {
		return nil, fmt.Errorf("decode selected slots of %s: %w", row.ID, err)
	}
	if err := decode(row.BusySlots, &state.BusySlots); err != nil {
		return nil, fmt.Errorf("decode busy slots of %s: %w", row.ID, err)
	}
	return domain.RehydrateInterview(state), nil
}

func decode[T schedDomain.ProposedSlot | schedDomain.BusySlot](raw []byte, into *[]T) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, into)
}

var awaitingStatuses = []string{
	string(domain.StatusAwaitingCandidate),
	string(domain.StatusAwaitingConfirmation),
}

package queries

import (
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	"github.com/google/uuid"
)

// InterviewDTO is the read model shared by the HTTP, CLI and MCP adapters.
// Nullable fields are null until the interview is scheduled.
type InterviewDTO struct {
	ID                uuid.UUID                  `json:"id"`
	ApplicationID     uuid.UUID                  `json:"applicationId"`
	CandidateID       string                     `json:"candidateId"`
	EmployerID        string                     `json:"employerId"`
	DurationMinutes   int                        `json:"duration"`
	Status            string                     `json:"status"`
	Stage             string                     `json:"stage"`
	ProposedSlots     []schedDomain.ProposedSlot `json:"proposedSlots"`
	AvailableSlots    []schedDomain.ProposedSlot `json:"availableSlots"`
	SelectedSlots     []schedDomain.ProposedSlot `json:"selectedSlots"`
	BusySlots         []schedDomain.BusySlot     `json:"busySlots"`
	ScheduledAt       *time.Time                 `json:"scheduledAt"`
	MeetingPlatform   *string                    `json:"meetingPlatform"`
	InterviewerID     *string                    `json:"interviewerId"`
	MeetingLink       *string                    `json:"meetingLink"`
	MeetingLinkStatus string                     `json:"meetingLinkStatus"`
	MeetingLinkError  *string                    `json:"meetingLinkError"`
	RescheduleCount   int                        `json:"rescheduleCount"`
	CancelReason      *string                    `json:"cancelReason"`
	CreatedAt         time.Time                  `json:"createdAt"`
	UpdatedAt         time.Time                  `json:"updatedAt"`
	Version           int                        `json:"version"`
}

// ToDTO converts an interview into its read model at now.
func ToDTO(i *domain.Interview, now time.Time) InterviewDTO {
	dto := InterviewDTO{
		ID:                i.ID(),
		ApplicationID:     i.ApplicationID(),
		CandidateID:       i.CandidateID(),
		EmployerID:        i.EmployerID(),
		DurationMinutes:   i.DurationMinutes(),
		Status:            string(i.Status()),
		Stage:             string(i.Stage()),
		ProposedSlots:     i.ProposedSlots(),
		AvailableSlots:    []schedDomain.ProposedSlot{},
		SelectedSlots:     i.SelectedSlots(),
		BusySlots:         i.BusySlots(),
		ScheduledAt:       i.ScheduledAt(),
		InterviewerID:     i.InterviewerID(),
		MeetingLink:       i.MeetingLink(),
		MeetingLinkStatus: string(i.MeetingLinkStatus()),
		MeetingLinkError:  i.MeetingLinkError(),
		RescheduleCount:   i.RescheduleCount(),
		CancelReason:      i.CancelReason(),
		CreatedAt:         i.CreatedAt(),
		UpdatedAt:         i.UpdatedAt(),
		Version:           i.Version(),
	}
	if i.Status() == domain.StatusAwaitingCandidate {
		dto.AvailableSlots = append(dto.AvailableSlots, i.AvailableSlots(now)...)
	}
	if p := i.MeetingPlatform(); p != nil {
		platform := string(*p)
		dto.MeetingPlatform = &platform
	}
	return dto
}

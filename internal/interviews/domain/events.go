package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Interview"

// Routing keys published to the event bus.
const (
	RoutingKeyCreated              = "interviews.interview.created"
	RoutingKeyAvailabilityProposed = "interviews.interview.availability_proposed"
	RoutingKeySlotsSelected        = "interviews.interview.slots_selected"
	RoutingKeyScheduled            = "interviews.interview.scheduled"
	RoutingKeyRescheduled          = "interviews.interview.rescheduled"
	RoutingKeyCompleted            = "interviews.interview.completed"
	RoutingKeyCancelled            = "interviews.interview.cancelled"
	RoutingKeyLinkCreated          = "interviews.meeting_link.created"
	RoutingKeyLinkFailed           = "interviews.meeting_link.failed"
)

// InterviewCreated is emitted when scheduling starts for an application.
type InterviewCreated struct {
	sharedDomain.BaseEvent
	InterviewID     uuid.UUID `json:"interview_id"`
	ApplicationID   uuid.UUID `json:"application_id"`
	CandidateID     string    `json:"candidate_id"`
	EmployerID      string    `json:"employer_id"`
	DurationMinutes int       `json:"duration_minutes"`
}

func NewInterviewCreated(i *Interview, now time.Time) *InterviewCreated {
	return &InterviewCreated{
		BaseEvent:       sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyCreated, now),
		InterviewID:     i.ID(),
		ApplicationID:   i.applicationID,
		CandidateID:     i.candidateID,
		EmployerID:      i.employerID,
		DurationMinutes: i.DurationMinutes(),
	}
}

// AvailabilityProposed is emitted when the employer hands slots to the candidate.
type AvailabilityProposed struct {
	sharedDomain.BaseEvent
	InterviewID uuid.UUID `json:"interview_id"`
	CandidateID string    `json:"candidate_id"`
	SlotCount   int       `json:"slot_count"`
}

func NewAvailabilityProposed(i *Interview, now time.Time) *AvailabilityProposed {
	return &AvailabilityProposed{
		BaseEvent:   sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyAvailabilityProposed, now),
		InterviewID: i.ID(),
		CandidateID: i.candidateID,
		SlotCount:   len(i.proposedSlots),
	}
}

// SlotsSelected is emitted when the candidate returns a selection.
type SlotsSelected struct {
	sharedDomain.BaseEvent
	InterviewID uuid.UUID   `json:"interview_id"`
	EmployerID  string      `json:"employer_id"`
	SlotIDs     []uuid.UUID `json:"slot_ids"`
}

func NewSlotsSelected(i *Interview, now time.Time) *SlotsSelected {
	ids := make([]uuid.UUID, len(i.selectedSlots))
	for n, s := range i.selectedSlots {
		ids[n] = s.ID
	}
	return &SlotsSelected{
		BaseEvent:   sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeySlotsSelected, now),
		InterviewID: i.ID(),
		EmployerID:  i.employerID,
		SlotIDs:     ids,
	}
}

// InterviewScheduled is emitted on employer confirmation.
type InterviewScheduled struct {
	sharedDomain.BaseEvent
	InterviewID     uuid.UUID `json:"interview_id"`
	CandidateID     string    `json:"candidate_id"`
	EmployerID      string    `json:"employer_id"`
	InterviewerID   string    `json:"interviewer_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetingPlatform string    `json:"meeting_platform"`
}

func NewInterviewScheduled(i *Interview, now time.Time) *InterviewScheduled {
	return &InterviewScheduled{
		BaseEvent:       sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyScheduled, now),
		InterviewID:     i.ID(),
		CandidateID:     i.candidateID,
		EmployerID:      i.employerID,
		InterviewerID:   *i.interviewerID,
		ScheduledAt:     *i.scheduledAt,
		DurationMinutes: i.DurationMinutes(),
		MeetingPlatform: string(*i.meetingPlatform),
	}
}

// InterviewRescheduled is emitted when a scheduled interview goes back to the candidate.
type InterviewRescheduled struct {
	sharedDomain.BaseEvent
	InterviewID     uuid.UUID `json:"interview_id"`
	CandidateID     string    `json:"candidate_id"`
	PreviousStart   time.Time `json:"previous_start"`
	RescheduleCount int       `json:"reschedule_count"`
}

func NewInterviewRescheduled(i *Interview, previousStart, now time.Time) *InterviewRescheduled {
	return &InterviewRescheduled{
		BaseEvent:       sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyRescheduled, now),
		InterviewID:     i.ID(),
		CandidateID:     i.candidateID,
		PreviousStart:   previousStart,
		RescheduleCount: i.rescheduleCount,
	}
}

// InterviewCompleted is emitted when the employer marks the interview held.
type InterviewCompleted struct {
	sharedDomain.BaseEvent
	InterviewID uuid.UUID `json:"interview_id"`
	CandidateID string    `json:"candidate_id"`
	EmployerID  string    `json:"employer_id"`
}

func NewInterviewCompleted(i *Interview, now time.Time) *InterviewCompleted {
	return &InterviewCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyCompleted, now),
		InterviewID: i.ID(),
		CandidateID: i.candidateID,
		EmployerID:  i.employerID,
	}
}

// InterviewCancelled is emitted on cancellation; the notification service
// tells the candidate.
type InterviewCancelled struct {
	sharedDomain.BaseEvent
	InterviewID    uuid.UUID  `json:"interview_id"`
	CandidateID    string     `json:"candidate_id"`
	EmployerID     string     `json:"employer_id"`
	PreviousStatus string     `json:"previous_status"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	Reason         string     `json:"reason,omitempty"`
}

func NewInterviewCancelled(i *Interview, previous Status, now time.Time) *InterviewCancelled {
	reason := ""
	if i.cancelReason != nil {
		reason = *i.cancelReason
	}
	return &InterviewCancelled{
		BaseEvent:      sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyCancelled, now),
		InterviewID:    i.ID(),
		CandidateID:    i.candidateID,
		EmployerID:     i.employerID,
		PreviousStatus: string(previous),
		ScheduledAt:    i.scheduledAt,
		Reason:         reason,
	}
}

// MeetingLinkCreated is emitted once a video link is attached.
type MeetingLinkCreated struct {
	sharedDomain.BaseEvent
	InterviewID uuid.UUID `json:"interview_id"`
	CandidateID string    `json:"candidate_id"`
	MeetingLink string    `json:"meeting_link"`
}

func NewMeetingLinkCreated(i *Interview, now time.Time) *MeetingLinkCreated {
	return &MeetingLinkCreated{
		BaseEvent:   sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyLinkCreated, now),
		InterviewID: i.ID(),
		CandidateID: i.candidateID,
		MeetingLink: *i.meetingLink,
	}
}

// MeetingLinkFailed is emitted when link creation fails.
type MeetingLinkFailed struct {
	sharedDomain.BaseEvent
	InterviewID uuid.UUID `json:"interview_id"`
	Kind        string    `json:"kind"`
}

func NewMeetingLinkFailed(i *Interview, kind string, now time.Time) *MeetingLinkFailed {
	return &MeetingLinkFailed{
		BaseEvent:   sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyLinkFailed, now),
		InterviewID: i.ID(),
		Kind:        kind,
	}
}

package domain

import (
	"time"

	"github.com/cockroachdb/errors"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// ExpiredReason is the cancel reason recorded by ExpireIfStale.
const ExpiredReason = "expired: no selectable time slots left"

// Interview is the aggregate that moves one interview from availability
// through confirmation to completion.
type Interview struct {
	sharedDomain.BaseAggregateRoot
	applicationID   uuid.UUID
	candidateID     string
	employerID      string
	duration        time.Duration
	status          Status
	proposedSlots   []schedDomain.ProposedSlot
	selectedSlots   []schedDomain.ProposedSlot
	busySlots       []schedDomain.BusySlot
	scheduledAt     *time.Time
	meetingPlatform *MeetingPlatform
	interviewerID   *string
	meetingLink     *string
	linkStatus      LinkStatus
	linkError       *string
	rescheduleCount int
	cancelReason    *string
}

// NewInterview opens scheduling for an application.
func NewInterview(applicationID uuid.UUID, candidateID, employerID string, duration time.Duration, now time.Time) (*Interview, error) {
	if applicationID == uuid.Nil {
		return nil, sharedDomain.NewInvalidInputError("application ID is required", "")
	}
	if candidateID == "" || employerID == "" {
		return nil, sharedDomain.NewInvalidInputError("candidate and employer are required", "")
	}
	if err := schedDomain.ValidateDuration(duration); err != nil {
		return nil, err
	}

	i := &Interview{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		applicationID:     applicationID,
		candidateID:       candidateID,
		employerID:        employerID,
		duration:          duration,
		status:            StatusPendingAvailability,
		proposedSlots:     []schedDomain.ProposedSlot{},
		selectedSlots:     []schedDomain.ProposedSlot{},
		busySlots:         []schedDomain.BusySlot{},
		linkStatus:        LinkNone,
	}
	i.AddDomainEvent(NewInterviewCreated(i, now))
	return i, nil
}

// Getters
func (i *Interview) ApplicationID() uuid.UUID { return i.applicationID }
func (i *Interview) CandidateID() string      { return i.candidateID }
func (i *Interview) EmployerID() string       { return i.employerID }
func (i *Interview) Duration() time.Duration  { return i.duration }
func (i *Interview) DurationMinutes() int     { return int(i.duration / time.Minute) }
func (i *Interview) Status() Status           { return i.status }
func (i *Interview) Stage() Stage             { return StageOf(i.status) }
func (i *Interview) ScheduledAt() *time.Time  { return i.scheduledAt }
func (i *Interview) InterviewerID() *string   { return i.interviewerID }
func (i *Interview) MeetingLink() *string     { return i.meetingLink }
func (i *Interview) MeetingLinkStatus() LinkStatus {
	return i.linkStatus
}
func (i *Interview) MeetingLinkError() *string { return i.linkError }
func (i *Interview) RescheduleCount() int      { return i.rescheduleCount }
func (i *Interview) CancelReason() *string     { return i.cancelReason }

func (i *Interview) MeetingPlatform() *MeetingPlatform { return i.meetingPlatform }

func (i *Interview) ProposedSlots() []schedDomain.ProposedSlot {
	return append([]schedDomain.ProposedSlot{}, i.proposedSlots...)
}

func (i *Interview) SelectedSlots() []schedDomain.ProposedSlot {
	return append([]schedDomain.ProposedSlot{}, i.selectedSlots...)
}

func (i *Interview) BusySlots() []schedDomain.BusySlot {
	return append([]schedDomain.BusySlot{}, i.busySlots...)
}

// AvailableSlots returns the proposed slots a candidate could still pick at now.
func (i *Interview) AvailableSlots(now time.Time) []schedDomain.ProposedSlot {
	var out []schedDomain.ProposedSlot
	for _, s := range i.proposedSlots {
		if !schedDomain.IsFuture(s.TimeInterval, now) {
			continue
		}
		if _, busy := schedDomain.FirstConflict(s.TimeInterval, i.busySlots); busy {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ScheduledSlot returns the confirmed slot, if any.
func (i *Interview) ScheduledSlot() (schedDomain.ProposedSlot, bool) {
	if i.scheduledAt == nil {
		return schedDomain.ProposedSlot{}, false
	}
	return schedDomain.NewProposedSlot(*i.scheduledAt, i.duration), true
}

// authorize checks the actor's role and, for parties, that they own this interview.
func (i *Interview) authorize(actor sharedDomain.Actor, action string, roles ...sharedDomain.Role) error {
	if err := actor.Require(action, roles...); err != nil {
		return err
	}
	switch actor.Role {
	case sharedDomain.RoleEmployer:
		if actor.ID != i.employerID {
			return sharedDomain.NewForbiddenError(action+" another employer's interview", actor.Role)
		}
	case sharedDomain.RoleCandidate:
		if actor.ID != i.candidateID {
			return sharedDomain.NewForbiddenError(action+" another candidate's interview", actor.Role)
		}
	}
	return nil
}

func (i *Interview) requireStatus(action string, allowed ...Status) error {
	for _, s := range allowed {
		if i.status == s {
			return nil
		}
	}
	return sharedDomain.NewInvalidTransitionError("interview", string(i.status), action)
}

// ProposeAvailability records the employer's slots and hands the interview to
// the candidate. Every slot must match the interview duration, start in the
// future, avoid recorded busy periods and not overlap another slot.
func (i *Interview) ProposeAvailability(actor sharedDomain.Actor, slots []schedDomain.ProposedSlot, now time.Time) error {
	if err := i.authorize(actor, "propose availability", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin); err != nil {
		return err
	}
	if err := i.requireStatus("propose availability for", StatusPendingAvailability); err != nil {
		return err
	}

	valid, err := i.validateProposal(slots, now)
	if err != nil {
		return err
	}

	i.proposedSlots = valid
	i.status = StatusAwaitingCandidate
	i.Touch(now)
	i.AddDomainEvent(NewAvailabilityProposed(i, now))
	return nil
}

func (i *Interview) validateProposal(slots []schedDomain.ProposedSlot, now time.Time) ([]schedDomain.ProposedSlot, error) {
	if len(slots) == 0 {
		return nil, errors.WithHint(ErrNoValidSlots, "Propose at least one future time slot.")
	}

	out := make([]schedDomain.ProposedSlot, 0, len(slots))
	for _, s := range slots {
		if s.Duration() != i.duration {
			return nil, errors.Wrapf(ErrSlotDurationMismatch, "slot %s lasts %s, interview lasts %s", s.ID, s.Duration(), i.duration)
		}
		if !schedDomain.IsFuture(s.TimeInterval, now) {
			return nil, sharedDomain.NewPastTimeError(s.Start, now)
		}
		if hit, busy := schedDomain.FirstConflict(s.TimeInterval, i.busySlots); busy {
			return nil, sharedDomain.NewBusyConflictError(hit.Label, hit.Start, hit.End)
		}
		for _, prev := range out {
			if schedDomain.Overlaps(prev.TimeInterval, s.TimeInterval) {
				return nil, sharedDomain.NewBusyConflictError(schedDomain.LabelSelectedSlot, prev.Start, prev.End)
			}
		}
		out = append(out, s)
	}
	return schedDomain.SortSlots(out), nil
}

// SelectSlots records the candidate's chosen subset of the proposed slots.
// externalBusy is the employer's current calendar; it is checked alongside
// the interview's own exclusions.
func (i *Interview) SelectSlots(actor sharedDomain.Actor, slotIDs []uuid.UUID, externalBusy []schedDomain.BusySlot, now time.Time) error {
	if err := i.authorize(actor, "select slots", sharedDomain.RoleCandidate, sharedDomain.RoleAdmin); err != nil {
		return err
	}
	if err := i.requireStatus("select slots for", StatusAwaitingCandidate); err != nil {
		return err
	}

	busy := append(i.BusySlots(), externalBusy...)
	selected, err := schedDomain.Reconcile(i.proposedSlots, slotIDs, busy, now)
	if err != nil {
		return err
	}

	i.selectedSlots = selected
	i.status = StatusAwaitingConfirmation
	i.Touch(now)
	i.AddDomainEvent(NewSlotsSelected(i, now))
	return nil
}

// Confirmation is the employer's final choice.
type Confirmation struct {
	SlotID        *uuid.UUID
	InterviewerID string
	Platform      string
}

// Confirm schedules the interview. Missing slot or interviewer fails with
// IncompleteSelection before anything changes. roster holds the user IDs of
// the employer's team.
func (i *Interview) Confirm(actor sharedDomain.Actor, c Confirmation, roster []string, now time.Time) error {
	if err := i.authorize(actor, "confirm", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin); err != nil {
		return err
	}
	if err := i.requireStatus("confirm", StatusAwaitingConfirmation); err != nil {
		return err
	}

	var missing []string
	if c.SlotID == nil || *c.SlotID == uuid.Nil {
		missing = append(missing, "time slot")
	}
	if c.InterviewerID == "" {
		missing = append(missing, "interviewer")
	}
	if len(missing) > 0 {
		return sharedDomain.NewIncompleteSelectionError(missing...)
	}

	platform, err := ParseMeetingPlatform(c.Platform)
	if err != nil {
		return err
	}

	slot, ok := schedDomain.FindSlot(i.selectedSlots, *c.SlotID)
	if !ok {
		return errors.WithHint(errors.Wrapf(ErrSlotNotSelected, "slot %s", *c.SlotID),
			"Pick one of the slots the candidate selected.")
	}
	if !contains(roster, c.InterviewerID) {
		return errors.WithHint(errors.Wrapf(ErrUnknownInterviewer, "interviewer %s", c.InterviewerID),
			"Choose an interviewer from your team.")
	}
	if !schedDomain.IsFuture(slot.TimeInterval, now) {
		return sharedDomain.NewPastTimeError(slot.Start, now)
	}

	start := slot.Start
	interviewer := c.InterviewerID
	i.scheduledAt = &start
	i.meetingPlatform = &platform
	i.interviewerID = &interviewer
	i.meetingLink = nil
	i.linkStatus = LinkPending
	i.linkError = nil
	i.status = StatusScheduled
	i.Touch(now)
	i.AddDomainEvent(NewInterviewScheduled(i, now))
	return nil
}

// Complete closes a scheduled interview once its start time has passed.
func (i *Interview) Complete(actor sharedDomain.Actor, now time.Time) error {
	if err := i.authorize(actor, "complete", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin); err != nil {
		return err
	}
	if err := i.requireStatus("complete", StatusScheduled); err != nil {
		return err
	}
	if now.Before(*i.scheduledAt) {
		return errors.WithHintf(ErrNotYetHeld, "The interview starts at %s.", i.scheduledAt.Format(time.RFC3339))
	}

	i.status = StatusCompleted
	i.Touch(now)
	i.AddDomainEvent(NewInterviewCompleted(i, now))
	return nil
}

// Cancel closes a non-terminal interview. The emitted event drives the
// candidate notification.
func (i *Interview) Cancel(actor sharedDomain.Actor, reason string, now time.Time) error {
	if err := i.authorize(actor, "cancel", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin, sharedDomain.RoleSystem); err != nil {
		return err
	}
	if i.status.IsTerminal() {
		return sharedDomain.NewInvalidTransitionError("interview", string(i.status), "cancel")
	}

	previous := i.status
	if reason != "" {
		i.cancelReason = &reason
	}
	if i.linkStatus == LinkPending {
		i.linkStatus = LinkNone
	}
	i.status = StatusCancelled
	i.Touch(now)
	i.AddDomainEvent(NewInterviewCancelled(i, previous, now))
	return nil
}

// Reschedule returns a scheduled interview to the candidate. The previous
// slot becomes a "Previously Scheduled" busy period and extra slots are
// merged into the proposal. When nothing selectable remains, ExpireIfStale
// cancels the interview on the next sweep.
func (i *Interview) Reschedule(actor sharedDomain.Actor, extra []schedDomain.ProposedSlot, now time.Time) error {
	if err := i.authorize(actor, "reschedule", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin); err != nil {
		return err
	}
	if err := i.requireStatus("reschedule", StatusScheduled); err != nil {
		return err
	}

	previous, _ := i.ScheduledSlot()
	busy := append(i.BusySlots(), previous.AsBusy(schedDomain.LabelPreviouslyScheduled))

	for _, s := range extra {
		if s.Duration() != i.duration {
			return errors.Wrapf(ErrSlotDurationMismatch, "slot %s lasts %s, interview lasts %s", s.ID, s.Duration(), i.duration)
		}
		if !schedDomain.IsFuture(s.TimeInterval, now) {
			return sharedDomain.NewPastTimeError(s.Start, now)
		}
		if hit, conflict := schedDomain.FirstConflict(s.TimeInterval, busy); conflict {
			return sharedDomain.NewBusyConflictError(hit.Label, hit.Start, hit.End)
		}
	}
	i.busySlots = busy
	i.proposedSlots = schedDomain.MergeSlots(i.proposedSlots, extra)
	i.selectedSlots = []schedDomain.ProposedSlot{}
	i.scheduledAt = nil
	i.meetingPlatform = nil
	i.interviewerID = nil
	i.meetingLink = nil
	i.linkStatus = LinkNone
	i.linkError = nil
	i.rescheduleCount++
	i.status = StatusAwaitingCandidate
	i.Touch(now)
	i.AddDomainEvent(NewInterviewRescheduled(i, previous.Start, now))
	return nil
}

// UpdateStatus applies a direct status change. Only COMPLETED and CANCELLED
// may be set this way.
func (i *Interview) UpdateStatus(actor sharedDomain.Actor, target Status, reason string, now time.Time) error {
	switch {
	case !target.IsPatchable():
		return errors.WithHint(errors.Wrapf(ErrStatusNotPatchable, "status %s", target),
			"Only COMPLETED or CANCELLED can be set directly.")
	case target == StatusCompleted:
		return i.Complete(actor, now)
	default:
		return i.Cancel(actor, reason, now)
	}
}

// ExpireIfStale cancels an interview stuck waiting on a party when none of
// the slots that party could act on are still in the future. It reports
// whether the interview changed.
func (i *Interview) ExpireIfStale(now time.Time) bool {
	switch i.status {
	case StatusAwaitingCandidate:
		if len(i.AvailableSlots(now)) > 0 {
			return false
		}
	case StatusAwaitingConfirmation:
		for _, s := range i.selectedSlots {
			if schedDomain.IsFuture(s.TimeInterval, now) {
				return false
			}
		}
	default:
		return false
	}
	return i.Cancel(sharedDomain.SystemActor, ExpiredReason, now) == nil
}

// RecordMeetingLink stores a created meeting link.
func (i *Interview) RecordMeetingLink(link string, now time.Time) error {
	if err := i.requireStatus("attach a meeting link to", StatusScheduled); err != nil {
		return err
	}
	if link == "" {
		return sharedDomain.NewInvalidInputError("meeting link is empty", "")
	}
	i.meetingLink = &link
	i.linkStatus = LinkCreated
	i.linkError = nil
	i.Touch(now)
	i.AddDomainEvent(NewMeetingLinkCreated(i, now))
	return nil
}

// RecordMeetingLinkFailure stores why link creation failed. The interview
// stays scheduled.
func (i *Interview) RecordMeetingLinkFailure(kind string, now time.Time) error {
	if err := i.requireStatus("record a meeting link failure on", StatusScheduled); err != nil {
		return err
	}
	i.linkStatus = LinkFailed
	i.linkError = &kind
	i.Touch(now)
	i.AddDomainEvent(NewMeetingLinkFailed(i, kind, now))
	return nil
}

// RequestMeetingLinkRetry marks a failed or pending link for another attempt.
func (i *Interview) RequestMeetingLinkRetry(actor sharedDomain.Actor, now time.Time) error {
	if err := i.authorize(actor, "retry the meeting link", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin, sharedDomain.RoleSystem); err != nil {
		return err
	}
	if !i.NeedsMeetingLink() {
		return sharedDomain.NewInvalidTransitionError("meeting link", string(i.linkStatus), "retry")
	}
	i.linkStatus = LinkPending
	i.linkError = nil
	i.Touch(now)
	return nil
}

// VisibleTo reports whether actor may read this interview.
func (i *Interview) VisibleTo(actor sharedDomain.Actor) bool {
	switch actor.Role {
	case sharedDomain.RoleAdmin, sharedDomain.RoleSystem:
		return true
	case sharedDomain.RoleEmployer:
		return actor.ID == i.employerID
	case sharedDomain.RoleCandidate:
		return actor.ID == i.candidateID
	default:
		return false
	}
}

// NeedsMeetingLink reports whether a link should be (re)requested.
func (i *Interview) NeedsMeetingLink() bool {
	return i.status == StatusScheduled && (i.linkStatus == LinkPending || i.linkStatus == LinkFailed)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// InterviewState is the persisted form used to rehydrate an Interview.
type InterviewState struct {
	ID              uuid.UUID
	ApplicationID   uuid.UUID
	CandidateID     string
	EmployerID      string
	DurationMinutes int
	Status          Status
	ProposedSlots   []schedDomain.ProposedSlot
	SelectedSlots   []schedDomain.ProposedSlot
	BusySlots       []schedDomain.BusySlot
	ScheduledAt     *time.Time
	MeetingPlatform *MeetingPlatform
	InterviewerID   *string
	MeetingLink     *string
	LinkStatus      LinkStatus
	LinkError       *string
	RescheduleCount int
	CancelReason    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

// RehydrateInterview recreates an interview from persisted state.
func RehydrateInterview(s InterviewState) *Interview {
	linkStatus := s.LinkStatus
	if linkStatus == "" {
		linkStatus = LinkNone
	}
	return &Interview{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(s.ID, s.CreatedAt, s.UpdatedAt, s.Version),
		applicationID:     s.ApplicationID,
		candidateID:       s.CandidateID,
		employerID:        s.EmployerID,
		duration:          time.Duration(s.DurationMinutes) * time.Minute,
		status:            s.Status,
		proposedSlots:     nonNilSlots(s.ProposedSlots),
		selectedSlots:     nonNilSlots(s.SelectedSlots),
		busySlots:         nonNilBusy(s.BusySlots),
		scheduledAt:       s.ScheduledAt,
		meetingPlatform:   s.MeetingPlatform,
		interviewerID:     s.InterviewerID,
		meetingLink:       s.MeetingLink,
		linkStatus:        linkStatus,
		linkError:         s.LinkError,
		rescheduleCount:   s.RescheduleCount,
		cancelReason:      s.CancelReason,
	}
}

// State returns the persisted form of the interview.
func (i *Interview) State() InterviewState {
	return InterviewState{
		ID:              i.ID(),
		ApplicationID:   i.applicationID,
		CandidateID:     i.candidateID,
		EmployerID:      i.employerID,
		DurationMinutes: i.DurationMinutes(),
		Status:          i.status,
		ProposedSlots:   i.ProposedSlots(),
		SelectedSlots:   i.SelectedSlots(),
		BusySlots:       i.BusySlots(),
		ScheduledAt:     i.scheduledAt,
		MeetingPlatform: i.meetingPlatform,
		InterviewerID:   i.interviewerID,
		MeetingLink:     i.meetingLink,
		LinkStatus:      i.linkStatus,
		LinkError:       i.linkError,
		RescheduleCount: i.rescheduleCount,
		CancelReason:    i.cancelReason,
		CreatedAt:       i.CreatedAt(),
		UpdatedAt:       i.UpdatedAt(),
		Version:         i.Version(),
	}
}

func nonNilSlots(s []schedDomain.ProposedSlot) []schedDomain.ProposedSlot {
	if s == nil {
		return []schedDomain.ProposedSlot{}
	}
	return s
}

func nonNilBusy(b []schedDomain.BusySlot) []schedDomain.BusySlot {
	if b == nil {
		return []schedDomain.BusySlot{}
	}
	return b
}

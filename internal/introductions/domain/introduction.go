package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// DefaultExpiryWindow is how long a request waits for the candidate.
const DefaultExpiryWindow = 14 * 24 * time.Hour

// Introduction gates an employer's access to one candidate's contact details.
type Introduction struct {
	sharedDomain.BaseAggregateRoot
	candidateID      string
	employerID       string
	status           Status
	requestedAt      *time.Time
	respondedAt      *time.Time
	protectionEndsAt *time.Time
}

// NewIntroduction creates an introduction in NONE.
func NewIntroduction(candidateID, employerID string, now time.Time) (*Introduction, error) {
	if candidateID == "" || employerID == "" {
		return nil, sharedDomain.NewInvalidInputError("candidate and employer are required", "")
	}
	return &Introduction{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		candidateID:       candidateID,
		employerID:        employerID,
		status:            StatusNone,
	}, nil
}

func (i *Introduction) CandidateID() string          { return i.candidateID }
func (i *Introduction) EmployerID() string           { return i.employerID }
func (i *Introduction) Status() Status               { return i.status }
func (i *Introduction) Stage() Stage                 { return StageOf(i.status) }
func (i *Introduction) RequestedAt() *time.Time      { return i.requestedAt }
func (i *Introduction) RespondedAt() *time.Time      { return i.respondedAt }
func (i *Introduction) ProtectionEndsAt() *time.Time { return i.protectionEndsAt }
func (i *Introduction) ExposesContact() bool         { return i.status.ExposesContact() }

func (i *Introduction) authorize(actor sharedDomain.Actor, action string, roles ...sharedDomain.Role) error {
	if err := actor.Require(action, roles...); err != nil {
		return err
	}
	switch actor.Role {
	case sharedDomain.RoleEmployer:
		if actor.ID != i.employerID {
			return sharedDomain.NewForbiddenError(action+" for another employer", actor.Role)
		}
	case sharedDomain.RoleCandidate:
		if actor.ID != i.candidateID {
			return sharedDomain.NewForbiddenError(action+" for another candidate", actor.Role)
		}
	}
	return nil
}

func (i *Introduction) transition(to Status, now time.Time) {
	from := i.status
	i.status = to
	i.Touch(now)
	i.AddDomainEvent(NewStatusChanged(i, from, now))
}

func (i *Introduction) invalid(action string) error {
	return sharedDomain.NewInvalidTransitionError("introduction", string(i.status), action)
}

// RecordProfileView moves NONE to PROFILE_VIEWED. It reports whether the
// introduction changed.
func (i *Introduction) RecordProfileView(now time.Time) bool {
	if i.status != StatusNone {
		return false
	}
	i.transition(StatusProfileViewed, now)
	return true
}

// Request asks the candidate for an introduction. A second request while
// one is pending fails with AlreadyRequested and leaves requestedAt alone.
func (i *Introduction) Request(actor sharedDomain.Actor, now time.Time) error {
	if err := i.authorize(actor, "request an introduction", sharedDomain.RoleEmployer); err != nil {
		return err
	}
	switch i.status {
	case StatusNone, StatusProfileViewed:
	case StatusIntroRequested:
		return NewAlreadyRequestedError(*i.requestedAt)
	default:
		return i.invalid("request")
	}
	requested := now
	i.requestedAt = &requested
	i.transition(StatusIntroRequested, now)
	return nil
}

// Accept is the candidate agreeing to share contact details. The protection
// period is recorded for display only.
func (i *Introduction) Accept(actor sharedDomain.Actor, now time.Time, protectionPeriod time.Duration) error {
	if err := i.respond(actor, "accept", now); err != nil {
		return err
	}
	if protectionPeriod > 0 {
		ends := now.Add(protectionPeriod)
		i.protectionEndsAt = &ends
	}
	i.transition(StatusIntroduced, now)
	return nil
}

// Decline is the candidate refusing the introduction.
func (i *Introduction) Decline(actor sharedDomain.Actor, now time.Time) error {
	if err := i.respond(actor, "decline", now); err != nil {
		return err
	}
	i.transition(StatusCandidateDeclined, now)
	return nil
}

func (i *Introduction) respond(actor sharedDomain.Actor, action string, now time.Time) error {
	if err := i.authorize(actor, action+" an introduction", sharedDomain.RoleCandidate); err != nil {
		return err
	}
	if i.status != StatusIntroRequested {
		return i.invalid(action)
	}
	responded := now
	i.respondedAt = &responded
	return nil
}

// StartInterviewing moves INTRODUCED to INTERVIEWING. Scheduling an
// interview triggers it as the system actor.
func (i *Introduction) StartInterviewing(actor sharedDomain.Actor, now time.Time) error {
	if err := i.authorize(actor, "start interviewing", sharedDomain.RoleEmployer, sharedDomain.RoleSystem); err != nil {
		return err
	}
	if i.status != StatusIntroduced {
		return i.invalid("start interviewing on")
	}
	i.transition(StatusInterviewing, now)
	return nil
}

// ExtendOffer moves INTERVIEWING to OFFER_EXTENDED.
func (i *Introduction) ExtendOffer(actor sharedDomain.Actor, now time.Time) error {
	if err := i.authorize(actor, "extend an offer", sharedDomain.RoleEmployer); err != nil {
		return err
	}
	if i.status != StatusInterviewing {
		return i.invalid("extend an offer on")
	}
	i.transition(StatusOfferExtended, now)
	return nil
}

// MarkHired moves OFFER_EXTENDED to HIRED.
func (i *Introduction) MarkHired(actor sharedDomain.Actor, now time.Time) error {
	if err := i.authorize(actor, "mark hired", sharedDomain.RoleEmployer); err != nil {
		return err
	}
	if i.status != StatusOfferExtended {
		return i.invalid("mark hired")
	}
	i.transition(StatusHired, now)
	return nil
}

// CloseNoHire ends an active introduction without a hire.
func (i *Introduction) CloseNoHire(actor sharedDomain.Actor, now time.Time) error {
	if err := i.authorize(actor, "close an introduction", sharedDomain.RoleEmployer); err != nil {
		return err
	}
	switch i.status {
	case StatusIntroduced, StatusInterviewing, StatusOfferExtended:
	default:
		return i.invalid("close")
	}
	i.transition(StatusClosedNoHire, now)
	return nil
}

// ExpireIfDue expires a request left unanswered for longer than window. It
// reports whether the introduction changed.
func (i *Introduction) ExpireIfDue(now time.Time, window time.Duration) bool {
	if i.status != StatusIntroRequested || i.requestedAt == nil {
		return false
	}
	if now.Before(i.requestedAt.Add(window)) {
		return false
	}
	i.transition(StatusExpired, now)
	return true
}

// IntroductionState is the persisted form used to rehydrate an Introduction.
type IntroductionState struct {
	ID               uuid.UUID
	CandidateID      string
	EmployerID       string
	Status           Status
	RequestedAt      *time.Time
	RespondedAt      *time.Time
	ProtectionEndsAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int
}

// RehydrateIntroduction recreates an introduction from persisted state.
func RehydrateIntroduction(s IntroductionState) *Introduction {
	return &Introduction{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(s.ID, s.CreatedAt, s.UpdatedAt, s.Version),
		candidateID:       s.CandidateID,
		employerID:        s.EmployerID,
		status:            s.Status,
		requestedAt:       s.RequestedAt,
		respondedAt:       s.RespondedAt,
		protectionEndsAt:  s.ProtectionEndsAt,
	}
}

// State returns the persisted form of the introduction.
func (i *Introduction) State() IntroductionState {
	return IntroductionState{
		ID:               i.ID(),
		CandidateID:      i.candidateID,
		EmployerID:       i.employerID,
		Status:           i.status,
		RequestedAt:      i.requestedAt,
		RespondedAt:      i.respondedAt,
		ProtectionEndsAt: i.protectionEndsAt,
		CreatedAt:        i.CreatedAt(),
		UpdatedAt:        i.UpdatedAt(),
		Version:          i.Version(),
	}
}

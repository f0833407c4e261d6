package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Introduction"

// RoutingKeyStatusChanged is published on every introduction transition.
const RoutingKeyStatusChanged = "introductions.introduction.status_changed"

// StatusChanged is emitted on every transition. Notification consumers
// route on To.
type StatusChanged struct {
	sharedDomain.BaseEvent
	IntroductionID uuid.UUID `json:"introduction_id"`
	CandidateID    string    `json:"candidate_id"`
	EmployerID     string    `json:"employer_id"`
	From           string    `json:"from"`
	To             string    `json:"to"`
}

func NewStatusChanged(i *Introduction, from Status, now time.Time) *StatusChanged {
	return &StatusChanged{
		BaseEvent:      sharedDomain.NewBaseEvent(i.ID(), aggregateType, RoutingKeyStatusChanged, now),
		IntroductionID: i.ID(),
		CandidateID:    i.candidateID,
		EmployerID:     i.employerID,
		From:           string(from),
		To:             string(i.status),
	}
}

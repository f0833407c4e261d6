package domain

import (
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// Status is the lifecycle state of an introduction.
type Status string

const (
	StatusNone              Status = "NONE"
	StatusProfileViewed     Status = "PROFILE_VIEWED"
	StatusIntroRequested    Status = "INTRO_REQUESTED"
	StatusIntroduced        Status = "INTRODUCED"
	StatusCandidateDeclined Status = "CANDIDATE_DECLINED"
	StatusExpired           Status = "EXPIRED"
	StatusInterviewing      Status = "INTERVIEWING"
	StatusOfferExtended     Status = "OFFER_EXTENDED"
	StatusHired             Status = "HIRED"
	StatusClosedNoHire      Status = "CLOSED_NO_HIRE"
)

// AllStatuses lists every status.
var AllStatuses = []Status{
	StatusNone,
	StatusProfileViewed,
	StatusIntroRequested,
	StatusIntroduced,
	StatusCandidateDeclined,
	StatusExpired,
	StatusInterviewing,
	StatusOfferExtended,
	StatusHired,
	StatusClosedNoHire,
}

// ParseStatus accepts only known status values.
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", sharedDomain.NewInvalidInputError("unknown introduction status "+raw, "")
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusHired, StatusClosedNoHire, StatusExpired, StatusCandidateDeclined:
		return true
	default:
		return false
	}
}

// ExposesContact reports whether an employer may see contact details.
func (s Status) ExposesContact() bool {
	switch s {
	case StatusIntroduced, StatusInterviewing, StatusOfferExtended, StatusHired:
		return true
	default:
		return false
	}
}

// Stage groups statuses for the employer's pipeline.
type Stage string

const (
	StageDiscovery Stage = "discovery"
	StagePending   Stage = "pending"
	StageConnected Stage = "connected"
	StageHiring    Stage = "hiring"
	StageHired     Stage = "hired"
	StageClosed    Stage = "closed"
)

// StageOf maps every status to exactly one stage.
func StageOf(s Status) Stage {
	switch s {
	case StatusNone, StatusProfileViewed:
		return StageDiscovery
	case StatusIntroRequested:
		return StagePending
	case StatusIntroduced:
		return StageConnected
	case StatusInterviewing, StatusOfferExtended:
		return StageHiring
	case StatusHired:
		return StageHired
	case StatusCandidateDeclined, StatusExpired, StatusClosedNoHire:
		return StageClosed
	default:
		return StageClosed
	}
}

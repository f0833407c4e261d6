package domain

import (
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// Status is the lifecycle state of an interview. It is the single source of
// truth: nullable fields on Interview are consequences of it.
type Status string

const (
	StatusPendingAvailability  Status = "PENDING_AVAILABILITY"
	StatusAwaitingCandidate    Status = "AWAITING_CANDIDATE"
	StatusAwaitingConfirmation Status = "AWAITING_CONFIRMATION"
	StatusScheduled            Status = "SCHEDULED"
	StatusCompleted            Status = "COMPLETED"
	StatusCancelled            Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPendingAvailability,
	StatusAwaitingCandidate,
	StatusAwaitingConfirmation,
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
}

// ParseStatus accepts only known status values.
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", sharedDomain.NewInvalidInputError("unknown interview status "+raw, "")
}

func (s Status) String() string { return string(s) }

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsPatchable reports whether s may be set directly through a status update.
// Only the closing states are; every other transition has its own command.
func (s Status) IsPatchable() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Stage groups statuses for pipeline views.
type Stage string

const (
	StageScheduling  Stage = "scheduling"
	StageUpcoming    Stage = "upcoming"
	StageInterviewed Stage = "interviewed"
	StageClosed      Stage = "closed"
)

// StageOf maps every status to exactly one stage.
func StageOf(s Status) Stage {
	switch s {
	case StatusPendingAvailability, StatusAwaitingCandidate, StatusAwaitingConfirmation:
		return StageScheduling
	case StatusScheduled:
		return StageUpcoming
	case StatusCompleted:
		return StageInterviewed
	case StatusCancelled:
		return StageClosed
	default:
		return StageClosed
	}
}

// displayRank orders statuses for lists: lower ranks come first.
func displayRank(s Status) int {
	switch s {
	case StatusAwaitingConfirmation:
		return 0
	case StatusAwaitingCandidate:
		return 1
	case StatusPendingAvailability:
		return 2
	case StatusScheduled:
		return 3
	case StatusCompleted:
		return 4
	case StatusCancelled:
		return 5
	default:
		return 6
	}
}

package domain

import (
	"github.com/cockroachdb/errors"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

var (
	// ErrNoValidSlots is returned when a proposal leaves nothing the candidate could pick.
	ErrNoValidSlots = errors.Mark(errors.New("no valid time slots"), sharedDomain.ErrIncompleteSelection)

	// ErrSlotNotSelected is returned when the employer confirms a slot the candidate did not pick.
	ErrSlotNotSelected = errors.Mark(errors.New("slot was not selected by the candidate"), sharedDomain.ErrInvalidInput)

	// ErrUnknownInterviewer is returned when the interviewer is not on the employer's team.
	ErrUnknownInterviewer = errors.Mark(errors.New("interviewer is not a team member"), sharedDomain.ErrInvalidInput)

	// ErrSlotDurationMismatch is returned when a proposed slot length differs from the interview's.
	ErrSlotDurationMismatch = errors.Mark(errors.New("slot length does not match interview duration"), sharedDomain.ErrInvalidInput)

	// ErrNotYetHeld is returned when completing before the scheduled start.
	ErrNotYetHeld = errors.Mark(errors.New("interview has not started yet"), sharedDomain.ErrInvalidTransition)

	// ErrStatusNotPatchable is returned when a status update targets a non-closing status.
	ErrStatusNotPatchable = errors.Mark(errors.New("status cannot be set directly"), sharedDomain.ErrInvalidTransition)
)

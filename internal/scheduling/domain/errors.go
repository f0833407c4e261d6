package domain

import (
	"github.com/cockroachdb/errors"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// ErrSlotNotProposed is returned when a chosen slot is not in the proposed set.
var ErrSlotNotProposed = errors.Mark(errors.New("slot was not proposed"), sharedDomain.ErrInvalidInput)

// NewSlotNotProposedError names the unknown slot.
func NewSlotNotProposedError(id uuid.UUID) error {
	return errors.WithHint(
		errors.Wrapf(ErrSlotNotProposed, "slot %s", id),
		"Choose one of the time slots offered by the employer.",
	)
}

package commands

import (
	"context"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// SelectSlotsCommand carries the candidate's choice among the proposed slots.
type SelectSlotsCommand struct {
	Actor           sharedDomain.Actor
	InterviewID     uuid.UUID
	ExpectedVersion *int
	SlotIDs         []uuid.UUID
}

// SelectSlotsHandler handles SelectSlotsCommand.
type SelectSlotsHandler struct {
	repo       domain.Repository
	busy       services.BusyTimeSource
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewSelectSlotsHandler creates a new handler.
func NewSelectSlotsHandler(
	repo domain.Repository,
	busy services.BusyTimeSource,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *SelectSlotsHandler {
	return &SelectSlotsHandler{repo: repo, busy: busy, outboxRepo: outboxRepo, uow: uow, clock: clock}
}

// Handle executes the command and returns the selected slots.
func (h *SelectSlotsHandler) Handle(ctx context.Context, cmd SelectSlotsCommand) ([]schedDomain.ProposedSlot, error) {
	current, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	// The employer's calendar may have filled up since the proposal.
	var external []schedDomain.BusySlot
	if window, ok := slotsWindow(current.ProposedSlots()); ok {
		external, err = h.busy.BusyTimes(ctx, current.EmployerID(), window)
		if err != nil {
			return nil, err
		}
	}

	now := h.clock.Now()
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) ([]schedDomain.ProposedSlot, error) {
		interview, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
		if err != nil {
			return nil, err
		}
		if err := interview.SelectSlots(cmd.Actor, cmd.SlotIDs, external, now); err != nil {
			return nil, err
		}
		if err := h.repo.Save(ctx, interview); err != nil {
			return nil, err
		}
		if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, interview, cmd.Actor); err != nil {
			return nil, err
		}
		return interview.SelectedSlots(), nil
	})
}

func slotsWindow(slots []schedDomain.ProposedSlot) (schedDomain.TimeInterval, bool) {
	if len(slots) == 0 {
		return schedDomain.TimeInterval{}, false
	}
	window := slots[0].TimeInterval
	for _, s := range slots[1:] {
		if s.Start.Before(window.Start) {
			window.Start = s.Start
		}
		if s.End.After(window.End) {
			window.End = s.End
		}
	}
	return window, true
}

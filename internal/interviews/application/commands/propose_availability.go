package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ProposeAvailabilityCommand carries the employer's offered times. Starts are
// toggled one by one; Pattern adds a weekly grid on top.
type ProposeAvailabilityCommand struct {
	Actor           sharedDomain.Actor
	InterviewID     uuid.UUID
	ExpectedVersion *int
	Starts          []time.Time
	Pattern         *schedDomain.WeeklyPattern
}

// ProposeAvailabilityHandler handles ProposeAvailabilityCommand.
type ProposeAvailabilityHandler struct {
	repo       domain.Repository
	busy       services.BusyTimeSource
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewProposeAvailabilityHandler creates a new handler.
func NewProposeAvailabilityHandler(
	repo domain.Repository,
	busy services.BusyTimeSource,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *ProposeAvailabilityHandler {
	return &ProposeAvailabilityHandler{repo: repo, busy: busy, outboxRepo: outboxRepo, uow: uow, clock: clock}
}

// Handle executes the command and returns the proposed slots.
func (h *ProposeAvailabilityHandler) Handle(ctx context.Context, cmd ProposeAvailabilityCommand) ([]schedDomain.ProposedSlot, error) {
	current, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
	if err != nil {
		return nil, err
	}
	if len(cmd.Starts) == 0 && cmd.Pattern == nil {
		return nil, sharedDomain.NewIncompleteSelectionError("at least one time slot")
	}
	if cmd.Pattern != nil {
		if err := cmd.Pattern.Hours.Validate(); err != nil {
			return nil, err
		}
	}

	now := h.clock.Now()
	external, err := h.busy.BusyTimes(ctx, current.EmployerID(), proposalWindow(cmd, current.Duration()))
	if err != nil {
		return nil, err
	}
	busy := append(current.BusySlots(), external...)

	slots := []schedDomain.ProposedSlot{}
	for _, start := range cmd.Starts {
		proposal, err := schedDomain.ProposeSlot(start, current.Duration(), busy, slots, now)
		if err != nil {
			return nil, err
		}
		slots = proposal.Slots
	}
	if cmd.Pattern != nil {
		slots = schedDomain.MergeSlots(slots, schedDomain.BulkPropose(*cmd.Pattern, current.Duration(), busy, now))
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) ([]schedDomain.ProposedSlot, error) {
		interview, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
		if err != nil {
			return nil, err
		}
		if err := interview.ProposeAvailability(cmd.Actor, slots, now); err != nil {
			return nil, err
		}
		if err := h.repo.Save(ctx, interview); err != nil {
			return nil, err
		}
		if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, interview, cmd.Actor); err != nil {
			return nil, err
		}
		return interview.ProposedSlots(), nil
	})
}

// proposalWindow spans every start and the pattern's week.
func proposalWindow(cmd ProposeAvailabilityCommand, duration time.Duration) schedDomain.TimeInterval {
	var start, end time.Time
	extend := func(s, e time.Time) {
		if start.IsZero() || s.Before(start) {
			start = s
		}
		if e.After(end) {
			end = e
		}
	}
	for _, s := range cmd.Starts {
		extend(s, s.Add(duration))
	}
	if cmd.Pattern != nil {
		extend(cmd.Pattern.WeekStart, cmd.Pattern.WeekStart.AddDate(0, 0, 7))
	}
	return schedDomain.TimeInterval{Start: start, End: end}
}

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

// RescheduleInterviewCommand sends a scheduled interview back to the
// candidate, optionally with new times.
type RescheduleInterviewCommand struct {
	Actor           sharedDomain.Actor
	InterviewID     uuid.UUID
	ExpectedVersion *int
	ExtraStarts     []time.Time
}

// RescheduleInterviewHandler handles RescheduleInterviewCommand.
type RescheduleInterviewHandler struct {
	repo       domain.Repository
	busy       services.BusyTimeSource
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewRescheduleInterviewHandler creates a new handler.
func NewRescheduleInterviewHandler(
	repo domain.Repository,
	busy services.BusyTimeSource,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *RescheduleInterviewHandler {
	return &RescheduleInterviewHandler{repo: repo, busy: busy, outboxRepo: outboxRepo, uow: uow, clock: clock}
}

// Handle executes the command.
func (h *RescheduleInterviewHandler) Handle(ctx context.Context, cmd RescheduleInterviewCommand) (*domain.Interview, error) {
	current, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	extra := []schedDomain.ProposedSlot{}
	if len(cmd.ExtraStarts) > 0 {
		window := proposalWindow(ProposeAvailabilityCommand{Starts: cmd.ExtraStarts}, current.Duration())
		external, err := h.busy.BusyTimes(ctx, current.EmployerID(), window)
		if err != nil {
			return nil, err
		}
		for _, start := range cmd.ExtraStarts {
			proposal, err := schedDomain.ProposeSlot(start, current.Duration(), external, extra, now)
			if err != nil {
				return nil, err
			}
			extra = proposal.Slots
		}
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (*domain.Interview, error) {
		interview, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
		if err != nil {
			return nil, err
		}
		if err := interview.Reschedule(cmd.Actor, extra, now); err != nil {
			return nil, err
		}
		if err := h.repo.Save(ctx, interview); err != nil {
			return nil, err
		}
		if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, interview, cmd.Actor); err != nil {
			return nil, err
		}
		return interview, nil
	})
}

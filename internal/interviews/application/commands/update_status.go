package commands

import (
	"context"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateInterviewStatusCommand sets a closing status directly.
type UpdateInterviewStatusCommand struct {
	Actor           sharedDomain.Actor
	InterviewID     uuid.UUID
	ExpectedVersion *int
	Status          string
	Reason          string
}

// CancelInterviewCommand cancels an interview.
type CancelInterviewCommand struct {
	Actor           sharedDomain.Actor
	InterviewID     uuid.UUID
	ExpectedVersion *int
	Reason          string
}

// UpdateInterviewStatusHandler handles status updates and cancellations.
type UpdateInterviewStatusHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewUpdateInterviewStatusHandler creates a new handler.
func NewUpdateInterviewStatusHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock) *UpdateInterviewStatusHandler {
	return &UpdateInterviewStatusHandler{repo: repo, outboxRepo: outboxRepo, uow: uow, clock: clock}
}

// Handle executes the command. Only COMPLETED and CANCELLED are accepted.
func (h *UpdateInterviewStatusHandler) Handle(ctx context.Context, cmd UpdateInterviewStatusCommand) (*domain.Interview, error) {
	status, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	return h.apply(ctx, cmd.InterviewID, cmd.ExpectedVersion, cmd.Actor, func(i *domain.Interview) error {
		return i.UpdateStatus(cmd.Actor, status, cmd.Reason, h.clock.Now())
	})
}

// Cancel executes a CancelInterviewCommand.
func (h *UpdateInterviewStatusHandler) Cancel(ctx context.Context, cmd CancelInterviewCommand) (*domain.Interview, error) {
	return h.apply(ctx, cmd.InterviewID, cmd.ExpectedVersion, cmd.Actor, func(i *domain.Interview) error {
		return i.Cancel(cmd.Actor, cmd.Reason, h.clock.Now())
	})
}

func (h *UpdateInterviewStatusHandler) apply(ctx context.Context, id uuid.UUID, expected *int, actor sharedDomain.Actor, change func(*domain.Interview) error) (*domain.Interview, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (*domain.Interview, error) {
		interview, err := load(ctx, h.repo, id, expected)
		if err != nil {
			return nil, err
		}
		if err := change(interview); err != nil {
			return nil, err
		}
		if err := h.repo.Save(ctx, interview); err != nil {
			return nil, err
		}
		if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, interview, actor); err != nil {
			return nil, err
		}
		return interview, nil
	})
}

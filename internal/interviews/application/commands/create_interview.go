package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateInterviewCommand opens scheduling for an application.
type CreateInterviewCommand struct {
	Actor           sharedDomain.Actor
	ApplicationID   uuid.UUID
	CandidateID     string
	EmployerID      string
	DurationMinutes int
}

// CreateInterviewHandler handles CreateInterviewCommand.
type CreateInterviewHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewCreateInterviewHandler creates a new handler.
func NewCreateInterviewHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock) *CreateInterviewHandler {
	return &CreateInterviewHandler{repo: repo, outboxRepo: outboxRepo, uow: uow, clock: clock}
}

// Handle executes the command and returns the new interview ID.
func (h *CreateInterviewHandler) Handle(ctx context.Context, cmd CreateInterviewCommand) (uuid.UUID, error) {
	if err := cmd.Actor.Require("create interviews", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin); err != nil {
		return uuid.Nil, err
	}
	employerID := cmd.EmployerID
	if cmd.Actor.Role == sharedDomain.RoleEmployer {
		if employerID != "" && employerID != cmd.Actor.ID {
			return uuid.Nil, sharedDomain.NewForbiddenError("create interviews for another employer", cmd.Actor.Role)
		}
		employerID = cmd.Actor.ID
	}

	interview, err := domain.NewInterview(cmd.ApplicationID, cmd.CandidateID, employerID,
		time.Duration(cmd.DurationMinutes)*time.Minute, h.clock.Now())
	if err != nil {
		return uuid.Nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(ctx context.Context) error {
		if err := h.repo.Save(ctx, interview); err != nil {
			return err
		}
		return sharedApplication.RecordEvents(ctx, h.outboxRepo, interview, cmd.Actor)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return interview.ID(), nil
}

package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RespondToIntroductionCommand is the candidate's answer.
type RespondToIntroductionCommand struct {
	Actor           sharedDomain.Actor
	IntroductionID  uuid.UUID
	ExpectedVersion *int
	Accept          bool
}

// RespondToIntroductionHandler handles RespondToIntroductionCommand.
type RespondToIntroductionHandler struct {
	store
}

// NewRespondToIntroductionHandler creates a new handler.
func NewRespondToIntroductionHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock, policy Policy) *RespondToIntroductionHandler {
	return &RespondToIntroductionHandler{store{repo: repo, outboxRepo: outboxRepo, uow: uow, clock: clock, policy: policy}}
}

// Handle executes the command.
func (h *RespondToIntroductionHandler) Handle(ctx context.Context, cmd RespondToIntroductionCommand) (*domain.Introduction, error) {
	return h.mutate(ctx, cmd.IntroductionID, cmd.ExpectedVersion, cmd.Actor, func(intro *domain.Introduction, now time.Time) error {
		if cmd.Accept {
			return intro.Accept(cmd.Actor, now, h.policy.ProtectionPeriod)
		}
		return intro.Decline(cmd.Actor, now)
	})
}

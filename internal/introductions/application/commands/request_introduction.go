package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
)

// RequestIntroductionCommand is an employer asking to be introduced.
type RequestIntroductionCommand struct {
	Actor       sharedDomain.Actor
	CandidateID string
}

// RequestIntroductionHandler handles RequestIntroductionCommand.
type RequestIntroductionHandler struct {
	store
	directory domain.CandidateDirectory
}

// NewRequestIntroductionHandler creates a new handler.
func NewRequestIntroductionHandler(
	repo domain.Repository,
	directory domain.CandidateDirectory,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	policy Policy,
) *RequestIntroductionHandler {
	return &RequestIntroductionHandler{
		store:     store{repo: repo, outboxRepo: outboxRepo, uow: uow, clock: clock, policy: policy},
		directory: directory,
	}
}

// Handle executes the command. A pending request fails with AlreadyRequested.
func (h *RequestIntroductionHandler) Handle(ctx context.Context, cmd RequestIntroductionCommand) (*domain.Introduction, error) {
	if err := cmd.Actor.Require("request an introduction", sharedDomain.RoleEmployer); err != nil {
		return nil, err
	}
	profile, err := h.directory.FindProfile(ctx, cmd.CandidateID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, sharedDomain.NewNotFoundError("candidate", cmd.CandidateID)
	}

	return outcomeOf(sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (outcome, error) {
		intro, err := h.repo.FindByPair(ctx, cmd.CandidateID, cmd.Actor.ID)
		if err != nil {
			return outcome{}, err
		}
		if intro == nil {
			if intro, err = domain.NewIntroduction(cmd.CandidateID, cmd.Actor.ID, h.clock.Now()); err != nil {
				return outcome{}, err
			}
		}
		refused, err := h.apply(ctx, intro, cmd.Actor, func(intro *domain.Introduction, now time.Time) error {
			return intro.Request(cmd.Actor, now)
		})
		return outcome{intro: intro, refused: refused}, err
	}))
}

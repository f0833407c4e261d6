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

// Advance actions accepted by AdvanceIntroductionCommand.
const (
	ActionStartInterviewing = "start_interviewing"
	ActionExtendOffer       = "extend_offer"
	ActionMarkHired         = "mark_hired"
	ActionCloseNoHire       = "close_no_hire"
)

// AdvanceIntroductionCommand moves an introduction along the hiring pipeline.
type AdvanceIntroductionCommand struct {
	Actor           sharedDomain.Actor
	IntroductionID  uuid.UUID
	ExpectedVersion *int
	Action          string
}

// AdvanceIntroductionHandler handles AdvanceIntroductionCommand and the
// automatic progress triggered by interview scheduling.
type AdvanceIntroductionHandler struct {
	store
}

// NewAdvanceIntroductionHandler creates a new handler.
func NewAdvanceIntroductionHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock, policy Policy) *AdvanceIntroductionHandler {
	return &AdvanceIntroductionHandler{store{repo: repo, outboxRepo: outboxRepo, uow: uow, clock: clock, policy: policy}}
}

// Handle executes the command.
func (h *AdvanceIntroductionHandler) Handle(ctx context.Context, cmd AdvanceIntroductionCommand) (*domain.Introduction, error) {
	var step func(*domain.Introduction, sharedDomain.Actor, time.Time) error
	switch cmd.Action {
	case ActionStartInterviewing:
		step = (*domain.Introduction).StartInterviewing
	case ActionExtendOffer:
		step = (*domain.Introduction).ExtendOffer
	case ActionMarkHired:
		step = (*domain.Introduction).MarkHired
	case ActionCloseNoHire:
		step = (*domain.Introduction).CloseNoHire
	default:
		return nil, sharedDomain.NewInvalidInputError("unknown action "+cmd.Action,
			"Use start_interviewing, extend_offer, mark_hired or close_no_hire.")
	}
	return h.mutate(ctx, cmd.IntroductionID, cmd.ExpectedVersion, cmd.Actor, func(intro *domain.Introduction, now time.Time) error {
		return step(intro, cmd.Actor, now)
	})
}

// MarkInterviewing advances the pair's introduction from INTRODUCED to
// INTERVIEWING. Pairs without an introduction, or past that point, are left alone.
func (h *AdvanceIntroductionHandler) MarkInterviewing(ctx context.Context, candidateID, employerID string) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(ctx context.Context) error {
		intro, err := h.repo.FindByPair(ctx, candidateID, employerID)
		if err != nil || intro == nil || intro.Status() != domain.StatusIntroduced {
			return err
		}
		if err := intro.StartInterviewing(sharedDomain.SystemActor, h.clock.Now()); err != nil {
			return err
		}
		return h.save(ctx, intro, sharedDomain.SystemActor)
	})
}

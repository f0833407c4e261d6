package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
)

// ViewCandidateQuery is an employer opening a candidate profile.
type ViewCandidateQuery struct {
	Actor       sharedDomain.Actor
	CandidateID string
}

// ViewCandidateHandler returns the gated profile. Viewing is not read-only:
// the first view records PROFILE_VIEWED and an overdue request is expired.
type ViewCandidateHandler struct {
	repo         domain.Repository
	directory    domain.CandidateDirectory
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	clock        sharedDomain.Clock
	expiryWindow time.Duration
}

// NewViewCandidateHandler creates a new handler.
func NewViewCandidateHandler(
	repo domain.Repository,
	directory domain.CandidateDirectory,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	expiryWindow time.Duration,
) *ViewCandidateHandler {
	return &ViewCandidateHandler{
		repo:         repo,
		directory:    directory,
		outboxRepo:   outboxRepo,
		uow:          uow,
		clock:        clock,
		expiryWindow: expiryWindow,
	}
}

// Handle executes the query.
func (h *ViewCandidateHandler) Handle(ctx context.Context, query ViewCandidateQuery) (domain.CandidateView, error) {
	if err := query.Actor.Require("view a candidate", sharedDomain.RoleEmployer); err != nil {
		return domain.CandidateView{}, err
	}
	profile, err := h.directory.FindProfile(ctx, query.CandidateID)
	if err != nil {
		return domain.CandidateView{}, err
	}
	if profile == nil {
		return domain.CandidateView{}, sharedDomain.NewNotFoundError("candidate", query.CandidateID)
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (domain.CandidateView, error) {
		now := h.clock.Now()
		intro, err := h.repo.FindByPair(ctx, query.CandidateID, query.Actor.ID)
		if err != nil {
			return domain.CandidateView{}, err
		}
		if intro == nil {
			if intro, err = domain.NewIntroduction(query.CandidateID, query.Actor.ID, now); err != nil {
				return domain.CandidateView{}, err
			}
		}

		changed := intro.RecordProfileView(now)
		if intro.ExpireIfDue(now, h.expiryWindow) {
			changed = true
		}
		if changed {
			if err := h.repo.Save(ctx, intro); err != nil {
				return domain.CandidateView{}, err
			}
			if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, intro, query.Actor); err != nil {
				return domain.CandidateView{}, err
			}
		}
		return domain.GateProfile(*profile, intro), nil
	})
}

package queries

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// IntroductionDTO is the read model of an introduction.
type IntroductionDTO struct {
	ID               string        `json:"id"`
	CandidateID      string        `json:"candidateId"`
	EmployerID       string        `json:"employerId"`
	Status           domain.Status `json:"status"`
	Stage            domain.Stage  `json:"stage"`
	RequestedAt      *time.Time    `json:"requestedAt"`
	RespondedAt      *time.Time    `json:"respondedAt"`
	ProtectionEndsAt *time.Time    `json:"protectionEndsAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	Version          int           `json:"version"`
}

// ToDTO maps an introduction to its read model.
func ToDTO(i *domain.Introduction) IntroductionDTO {
	return IntroductionDTO{
		ID:               i.ID().String(),
		CandidateID:      i.CandidateID(),
		EmployerID:       i.EmployerID(),
		Status:           i.Status(),
		Stage:            i.Stage(),
		RequestedAt:      i.RequestedAt(),
		RespondedAt:      i.RespondedAt(),
		ProtectionEndsAt: i.ProtectionEndsAt(),
		UpdatedAt:        i.UpdatedAt(),
		Version:          i.Version(),
	}
}

// GetIntroductionQuery fetches one introduction.
type GetIntroductionQuery struct {
	Actor          sharedDomain.Actor
	IntroductionID uuid.UUID
}

// ListIntroductionsQuery lists an employer's introductions.
type ListIntroductionsQuery struct {
	Actor      sharedDomain.Actor
	EmployerID string
	Stage      domain.Stage
}

// IntroductionsHandler answers introduction queries. Requests found past
// the expiry window are expired and saved before they are returned.
type IntroductionsHandler struct {
	repo         domain.Repository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	clock        sharedDomain.Clock
	expiryWindow time.Duration
}

// NewIntroductionsHandler creates a new handler.
func NewIntroductionsHandler(
	repo domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	expiryWindow time.Duration,
) *IntroductionsHandler {
	return &IntroductionsHandler{
		repo:         repo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		clock:        clock,
		expiryWindow: expiryWindow,
	}
}

// expireIfDue persists a lazy expiry. The introduction is re-read inside the
// transaction so a concurrent change wins over the stale copy.
func (h *IntroductionsHandler) expireIfDue(ctx context.Context, intro *domain.Introduction) (*domain.Introduction, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (*domain.Introduction, error) {
		current, err := h.repo.FindByID(ctx, intro.ID())
		if err != nil {
			return nil, err
		}
		if current == nil {
			return intro, nil
		}
		if !current.ExpireIfDue(h.clock.Now(), h.expiryWindow) {
			return current, nil
		}
		if err := h.repo.Save(ctx, current); err != nil {
			return nil, err
		}
		if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, current, sharedDomain.SystemActor); err != nil {
			return nil, err
		}
		return current, nil
	})
}

func (h *IntroductionsHandler) overdue(intro *domain.Introduction) bool {
	requestedAt := intro.RequestedAt()
	return intro.Status() == domain.StatusIntroRequested && requestedAt != nil &&
		!h.clock.Now().Before(requestedAt.Add(h.expiryWindow))
}

// Get returns NotFound for introductions the actor is not a party to.
func (h *IntroductionsHandler) Get(ctx context.Context, query GetIntroductionQuery) (*IntroductionDTO, error) {
	intro, err := h.repo.FindByID(ctx, query.IntroductionID)
	if err != nil {
		return nil, err
	}
	if intro == nil || !visibleTo(intro, query.Actor) {
		return nil, sharedDomain.NewNotFoundError("introduction", query.IntroductionID)
	}
	if h.overdue(intro) {
		if intro, err = h.expireIfDue(ctx, intro); err != nil {
			return nil, err
		}
	}
	dto := ToDTO(intro)
	return &dto, nil
}

// List returns introductions most recently updated first.
func (h *IntroductionsHandler) List(ctx context.Context, query ListIntroductionsQuery) ([]IntroductionDTO, error) {
	employerID := query.EmployerID
	switch {
	case query.Actor.Is(sharedDomain.RoleEmployer):
		employerID = query.Actor.ID
	case query.Actor.Is(sharedDomain.RoleAdmin, sharedDomain.RoleSystem):
		if employerID == "" {
			return nil, sharedDomain.NewInvalidInputError("employer is required", "Pass an employer ID.")
		}
	default:
		return nil, sharedDomain.NewForbiddenError("list introductions", query.Actor.Role)
	}

	intros, err := h.repo.FindByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	for n, intro := range intros {
		if !h.overdue(intro) {
			continue
		}
		if intros[n], err = h.expireIfDue(ctx, intro); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(intros, func(a, b int) bool {
		return intros[a].UpdatedAt().After(intros[b].UpdatedAt())
	})

	out := make([]IntroductionDTO, 0, len(intros))
	for _, intro := range intros {
		if query.Stage != "" && intro.Stage() != query.Stage {
			continue
		}
		out = append(out, ToDTO(intro))
	}
	return out, nil
}

func visibleTo(intro *domain.Introduction, actor sharedDomain.Actor) bool {
	switch actor.Role {
	case sharedDomain.RoleAdmin, sharedDomain.RoleSystem:
		return true
	case sharedDomain.RoleEmployer:
		return intro.EmployerID() == actor.ID
	case sharedDomain.RoleCandidate:
		return intro.CandidateID() == actor.ID
	}
	return false
}

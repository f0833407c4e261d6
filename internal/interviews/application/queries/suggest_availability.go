package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// SuggestAvailabilityQuery asks for free slots the employer could propose.
type SuggestAvailabilityQuery struct {
	Actor       sharedDomain.Actor
	InterviewID uuid.UUID
	From        time.Time
	To          time.Time
}

// SuggestAvailabilityHandler handles SuggestAvailabilityQuery.
type SuggestAvailabilityHandler struct {
	repo          domain.Repository
	busy          services.BusyTimeSource
	clock         sharedDomain.Clock
	lookaheadDays int
}

// NewSuggestAvailabilityHandler creates a new handler. lookaheadDays bounds
// the window when the query leaves To empty.
func NewSuggestAvailabilityHandler(repo domain.Repository, busy services.BusyTimeSource, clock sharedDomain.Clock, lookaheadDays int) *SuggestAvailabilityHandler {
	if lookaheadDays <= 0 {
		lookaheadDays = 14
	}
	return &SuggestAvailabilityHandler{repo: repo, busy: busy, clock: clock, lookaheadDays: lookaheadDays}
}

// Handle returns consecutive free slots of the interview's duration.
func (h *SuggestAvailabilityHandler) Handle(ctx context.Context, query SuggestAvailabilityQuery) ([]schedDomain.ProposedSlot, error) {
	if err := query.Actor.Require("suggest availability", sharedDomain.RoleEmployer, sharedDomain.RoleAdmin); err != nil {
		return nil, err
	}
	interview, err := h.repo.FindByID(ctx, query.InterviewID)
	if err != nil {
		return nil, err
	}
	if interview == nil || !interview.VisibleTo(query.Actor) {
		return nil, sharedDomain.NewNotFoundError("interview", query.InterviewID)
	}

	now := h.clock.Now()
	from, to := query.From, query.To
	if from.IsZero() {
		from = now
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, h.lookaheadDays)
	}
	window, err := schedDomain.NewTimeInterval(from, to)
	if err != nil {
		return nil, err
	}

	external, err := h.busy.BusyTimes(ctx, interview.EmployerID(), window)
	if err != nil {
		return nil, err
	}
	busy := append(interview.BusySlots(), external...)
	return schedDomain.FreeSlots(window, busy, interview.Duration(), now), nil
}

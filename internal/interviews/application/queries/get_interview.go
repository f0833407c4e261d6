package queries

import (
	"context"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// GetInterviewQuery reads one interview.
type GetInterviewQuery struct {
	Actor       sharedDomain.Actor
	InterviewID uuid.UUID
}

// GetInterviewHandler handles GetInterviewQuery.
type GetInterviewHandler struct {
	repo  domain.Repository
	clock sharedDomain.Clock
}

// NewGetInterviewHandler creates a new handler.
func NewGetInterviewHandler(repo domain.Repository, clock sharedDomain.Clock) *GetInterviewHandler {
	return &GetInterviewHandler{repo: repo, clock: clock}
}

// Handle returns NotFound both for missing interviews and for ones the actor
// may not see.
func (h *GetInterviewHandler) Handle(ctx context.Context, query GetInterviewQuery) (*InterviewDTO, error) {
	interview, err := h.repo.FindByID(ctx, query.InterviewID)
	if err != nil {
		return nil, err
	}
	if interview == nil || !interview.VisibleTo(query.Actor) {
		return nil, sharedDomain.NewNotFoundError("interview", query.InterviewID)
	}
	dto := ToDTO(interview, h.clock.Now())
	return &dto, nil
}

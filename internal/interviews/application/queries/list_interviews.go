package queries

import (
	"context"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// ListInterviewsQuery lists interviews for one employer or one candidate.
// Parties always see their own; admins must name one.
type ListInterviewsQuery struct {
	Actor       sharedDomain.Actor
	EmployerID  string
	CandidateID string
	Stage       string
}

// ListInterviewsHandler handles ListInterviewsQuery.
type ListInterviewsHandler struct {
	repo  domain.Repository
	clock sharedDomain.Clock
}

// NewListInterviewsHandler creates a new handler.
func NewListInterviewsHandler(repo domain.Repository, clock sharedDomain.Clock) *ListInterviewsHandler {
	return &ListInterviewsHandler{repo: repo, clock: clock}
}

// Handle returns the interviews in display order.
func (h *ListInterviewsHandler) Handle(ctx context.Context, query ListInterviewsQuery) ([]InterviewDTO, error) {
	var (
		interviews []*domain.Interview
		err        error
	)
	switch {
	case query.Actor.Role == sharedDomain.RoleEmployer:
		interviews, err = h.repo.FindByEmployer(ctx, query.Actor.ID)
	case query.Actor.Role == sharedDomain.RoleCandidate:
		interviews, err = h.repo.FindByCandidate(ctx, query.Actor.ID)
	case query.EmployerID != "":
		interviews, err = h.repo.FindByEmployer(ctx, query.EmployerID)
	case query.CandidateID != "":
		interviews, err = h.repo.FindByCandidate(ctx, query.CandidateID)
	default:
		return nil, sharedDomain.NewInvalidInputError("employer_id or candidate_id is required", "")
	}
	if err != nil {
		return nil, err
	}

	domain.SortForDisplay(interviews)

	now := h.clock.Now()
	dtos := make([]InterviewDTO, 0, len(interviews))
	for _, interview := range interviews {
		if query.Stage != "" && string(interview.Stage()) != query.Stage {
			continue
		}
		dtos = append(dtos, ToDTO(interview, now))
	}
	return dtos, nil
}

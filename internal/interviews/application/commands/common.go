package commands

import (
	"context"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// IntroductionProgress advances the introduction between a candidate and an
// employer once an interview is scheduled.
type IntroductionProgress interface {
	MarkInterviewing(ctx context.Context, candidateID, employerID string) error
}

// load reads an interview and applies the caller's expected version.
func load(ctx context.Context, repo domain.Repository, id uuid.UUID, expectedVersion *int) (*domain.Interview, error) {
	interview, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if interview == nil {
		return nil, sharedDomain.NewNotFoundError("interview", id)
	}
	if err := interview.CheckVersion(expectedVersion); err != nil {
		return nil, err
	}
	return interview, nil
}

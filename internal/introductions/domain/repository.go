package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists introductions with optimistic concurrency. There is at
// most one introduction per (candidate, employer) pair.
type Repository interface {
	Save(ctx context.Context, intro *Introduction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Introduction, error)
	FindByPair(ctx context.Context, candidateID, employerID string) (*Introduction, error)
	FindByEmployer(ctx context.Context, employerID string) ([]*Introduction, error)
	// FindRequestedBefore returns pending requests made before cutoff.
	FindRequestedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Introduction, error)
}

// CandidateDirectory supplies candidate profiles.
type CandidateDirectory interface {
	FindProfile(ctx context.Context, candidateID string) (*CandidateProfile, error)
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists interviews with optimistic concurrency: Save fails with
// StaleState when the stored version differs from the aggregate's.
type Repository interface {
	Save(ctx context.Context, interview *Interview) error
	FindByID(ctx context.Context, id uuid.UUID) (*Interview, error)
	FindByEmployer(ctx context.Context, employerID string) ([]*Interview, error)
	FindByCandidate(ctx context.Context, candidateID string) ([]*Interview, error)
	// FindAwaiting returns interviews waiting on the candidate or on confirmation.
	FindAwaiting(ctx context.Context, limit int) ([]*Interview, error)
	// FindNeedingLink returns scheduled interviews whose link is pending or failed
	// and that start after the given instant.
	FindNeedingLink(ctx context.Context, startsAfter time.Time, limit int) ([]*Interview, error)
}

// Package domain holds the employer team roster used to validate interviewers.
package domain

import (
	"context"
	"strings"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// Member is a user who may interview on an employer's behalf.
type Member struct {
	EmployerID string
	UserID     string
	Name       string
	Email      string
}

// NewMember validates and normalizes a roster entry.
func NewMember(employerID, userID, name, email string) (Member, error) {
	employerID = strings.TrimSpace(employerID)
	userID = strings.TrimSpace(userID)
	if employerID == "" || userID == "" {
		return Member{}, sharedDomain.NewInvalidInputError("employer and user are required", "Pass both an employer ID and a user ID.")
	}
	return Member{
		EmployerID: employerID,
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		Email:      strings.ToLower(strings.TrimSpace(email)),
	}, nil
}

// Repository stores rosters.
type Repository interface {
	Add(ctx context.Context, member Member) error
	Remove(ctx context.Context, employerID, userID string) error
	ListByEmployer(ctx context.Context, employerID string) ([]Member, error)
}

// UserIDs returns the user IDs of members in order.
func UserIDs(members []Member) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

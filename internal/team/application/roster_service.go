// Package application manages employer rosters.
package application

import (
	"context"
	"log/slog"

	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/team/domain"
)

// Invalidator drops cached rosters.
type Invalidator interface {
	Invalidate(ctx context.Context, employerID string) error
}

// RosterService adds and removes interviewers.
type RosterService struct {
	repo   domain.Repository
	cache  Invalidator
	logger *slog.Logger
}

// NewRosterService creates a roster service. cache may be nil.
func NewRosterService(repo domain.Repository, cache Invalidator, logger *slog.Logger) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterService{repo: repo, cache: cache, logger: logger}
}

// AddMember puts a user on the employer's roster. Employers may only manage
// their own roster.
func (s *RosterService) AddMember(ctx context.Context, actor sharedDomain.Actor, member domain.Member) error {
	if err := authorize(actor, member.EmployerID); err != nil {
		return err
	}
	member, err := domain.NewMember(member.EmployerID, member.UserID, member.Name, member.Email)
	if err != nil {
		return err
	}
	if err := s.repo.Add(ctx, member); err != nil {
		return err
	}
	s.invalidate(ctx, member.EmployerID)
	return nil
}

// RemoveMember takes a user off the employer's roster.
func (s *RosterService) RemoveMember(ctx context.Context, actor sharedDomain.Actor, employerID, userID string) error {
	if err := authorize(actor, employerID); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, employerID, userID); err != nil {
		return err
	}
	s.invalidate(ctx, employerID)
	return nil
}

// ListMembers returns the employer's roster.
func (s *RosterService) ListMembers(ctx context.Context, actor sharedDomain.Actor, employerID string) ([]domain.Member, error) {
	if err := authorize(actor, employerID); err != nil {
		return nil, err
	}
	return s.repo.ListByEmployer(ctx, employerID)
}

func (s *RosterService) invalidate(ctx context.Context, employerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, employerID); err != nil {
		s.logger.Warn("failed to invalidate roster cache", "employer_id", employerID, "error", err)
	}
}

func authorize(actor sharedDomain.Actor, employerID string) error {
	if actor.Is(sharedDomain.RoleAdmin, sharedDomain.RoleSystem) {
		return nil
	}
	if actor.Is(sharedDomain.RoleEmployer) && actor.ID == employerID {
		return nil
	}
	return sharedDomain.NewForbiddenError("manage the team roster", actor.Role)
}

package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// Policy holds the introduction timing rules.
type Policy struct {
	ExpiryWindow     time.Duration
	ProtectionPeriod time.Duration
}

// DefaultPolicy returns a 14 day expiry window and a 12 month protection period.
func DefaultPolicy() Policy {
	return Policy{
		ExpiryWindow:     domain.DefaultExpiryWindow,
		ProtectionPeriod: 365 * 24 * time.Hour,
	}
}

// store bundles what every introduction command needs to persist a change.
type store struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
	policy     Policy
}

func (s store) save(ctx context.Context, intro *domain.Introduction, actor sharedDomain.Actor) error {
	if err := s.repo.Save(ctx, intro); err != nil {
		return err
	}
	return sharedApplication.RecordEvents(ctx, s.outboxRepo, intro, actor)
}

func (s store) load(ctx context.Context, id uuid.UUID, expectedVersion *int) (*domain.Introduction, error) {
	intro, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if intro == nil {
		return nil, sharedDomain.NewNotFoundError("introduction", id)
	}
	if err := intro.CheckVersion(expectedVersion); err != nil {
		return nil, err
	}
	return intro, nil
}

// apply expires intro lazily and then runs change. A lazy expiry is saved
// even though change is then refused; the refusal comes back as refused so
// the caller can commit before reporting it.
func (s store) apply(ctx context.Context, intro *domain.Introduction, actor sharedDomain.Actor, change func(*domain.Introduction, time.Time) error) (refused, err error) {
	now := s.clock.Now()
	if intro.ExpireIfDue(now, s.policy.ExpiryWindow) {
		if err := s.save(ctx, intro, sharedDomain.SystemActor); err != nil {
			return nil, err
		}
	}
	if refused := change(intro, now); refused != nil {
		if intro.Status() == domain.StatusExpired {
			return refused, nil
		}
		return nil, refused
	}
	return nil, s.save(ctx, intro, actor)
}

type outcome struct {
	intro   *domain.Introduction
	refused error
}

// mutate loads an introduction by ID and applies change in one transaction.
func (s store) mutate(ctx context.Context, id uuid.UUID, expectedVersion *int, actor sharedDomain.Actor, change func(*domain.Introduction, time.Time) error) (*domain.Introduction, error) {
	return outcomeOf(sharedApplication.WithUnitOfWorkResult(ctx, s.uow, func(ctx context.Context) (outcome, error) {
		intro, err := s.load(ctx, id, expectedVersion)
		if err != nil {
			return outcome{}, err
		}
		refused, err := s.apply(ctx, intro, actor, change)
		return outcome{intro: intro, refused: refused}, err
	}))
}

func outcomeOf(o outcome, err error) (*domain.Introduction, error) {
	if err != nil {
		return nil, err
	}
	if o.refused != nil {
		return nil, o.refused
	}
	return o.intro, nil
}

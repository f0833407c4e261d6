package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIntroRepo struct {
	mock.Mock
}

func (m *mockIntroRepo) Save(ctx context.Context, intro *domain.Introduction) error {
	args := m.Called(ctx, intro)
	return args.Error(0)
}

func (m *mockIntroRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Introduction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Introduction), args.Error(1)
}

func (m *mockIntroRepo) FindByPair(ctx context.Context, candidateID, employerID string) (*domain.Introduction, error) {
	args := m.Called(ctx, candidateID, employerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Introduction), args.Error(1)
}

func (m *mockIntroRepo) FindByEmployer(ctx context.Context, employerID string) ([]*domain.Introduction, error) {
	args := m.Called(ctx, employerID)
	return args.Get(0).([]*domain.Introduction), args.Error(1)
}

func (m *mockIntroRepo) FindRequestedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Introduction, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]*domain.Introduction), args.Error(1)
}

type mapDirectory map[string]*domain.CandidateProfile

func (d mapDirectory) FindProfile(_ context.Context, candidateID string) (*domain.CandidateProfile, error) {
	return d[candidateID], nil
}

var (
	start     = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	employer  = sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-1")
	candidate = sharedDomain.NewActor(sharedDomain.RoleCandidate, "cand-1")
	policy    = DefaultPolicy()
)

type fixture struct {
	repo   *mockIntroRepo
	outbox *testutil.MockOutboxRepository
	uow    *testutil.MockUnitOfWork
	txCtx  context.Context
	clock  sharedDomain.FixedClock
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		repo:   new(mockIntroRepo),
		outbox: new(testutil.MockOutboxRepository),
		uow:    new(testutil.MockUnitOfWork),
		clock:  sharedDomain.FixedClock{At: now},
	}
	f.txCtx = f.uow.ExpectTransaction(context.Background())
	f.repo.On("Save", f.txCtx, mock.AnythingOfType("*domain.Introduction")).Return(nil).Maybe()
	f.outbox.On("SaveBatch", f.txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil).Maybe()
	return f
}

func (f *fixture) stored(intro *domain.Introduction) {
	f.repo.On("FindByID", mock.Anything, intro.ID()).Return(intro, nil)
}

func requested(t *testing.T) *domain.Introduction {
	t.Helper()
	intro, err := domain.NewIntroduction("cand-1", "emp-1", start)
	require.NoError(t, err)
	require.NoError(t, intro.Request(employer, start))
	intro.ClearDomainEvents()
	return intro
}

func introduced(t *testing.T) *domain.Introduction {
	t.Helper()
	intro := requested(t)
	require.NoError(t, intro.Accept(candidate, start.Add(time.Hour), policy.ProtectionPeriod))
	intro.ClearDomainEvents()
	return intro
}

func savedCount(f *fixture) int {
	n := 0
	for _, call := range f.repo.Calls {
		if call.Method == "Save" {
			n++
		}
	}
	return n
}

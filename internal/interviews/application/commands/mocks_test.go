package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInterviewRepo struct {
	mock.Mock
}

func (m *mockInterviewRepo) Save(ctx context.Context, interview *domain.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

func (m *mockInterviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}

func (m *mockInterviewRepo) FindByEmployer(ctx context.Context, employerID string) ([]*domain.Interview, error) {
	args := m.Called(ctx, employerID)
	return args.Get(0).([]*domain.Interview), args.Error(1)
}

func (m *mockInterviewRepo) FindByCandidate(ctx context.Context, candidateID string) ([]*domain.Interview, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).([]*domain.Interview), args.Error(1)
}

func (m *mockInterviewRepo) FindAwaiting(ctx context.Context, limit int) ([]*domain.Interview, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*domain.Interview), args.Error(1)
}

func (m *mockInterviewRepo) FindNeedingLink(ctx context.Context, startsAfter time.Time, limit int) ([]*domain.Interview, error) {
	args := m.Called(ctx, startsAfter, limit)
	return args.Get(0).([]*domain.Interview), args.Error(1)
}

type mockBusySource struct {
	mock.Mock
}

func (m *mockBusySource) BusyTimes(ctx context.Context, employerID string, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	args := m.Called(ctx, employerID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedDomain.BusySlot), args.Error(1)
}

type staticRoster []string

func (r staticRoster) Members(context.Context, string) ([]string, error) { return r, nil }

type mockLinkProvider struct {
	mock.Mock
}

func (m *mockLinkProvider) Platform() domain.MeetingPlatform { return domain.PlatformZoom }

func (m *mockLinkProvider) CreateMeeting(ctx context.Context, req services.MeetingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockProgress struct {
	mock.Mock
}

func (m *mockProgress) MarkInterviewing(ctx context.Context, candidateID, employerID string) error {
	args := m.Called(ctx, candidateID, employerID)
	return args.Error(0)
}

// Monday 2 March 2026.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
}

var (
	employer  = sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-1")
	candidate = sharedDomain.NewActor(sharedDomain.RoleCandidate, "cand-1")
	clock     = sharedDomain.FixedClock{At: at(0, 8)}
)

func tuesday14() schedDomain.ProposedSlot   { return schedDomain.NewProposedSlot(at(1, 14), time.Hour) }
func wednesday10() schedDomain.ProposedSlot { return schedDomain.NewProposedSlot(at(2, 10), time.Hour) }

type fixture struct {
	repo   *mockInterviewRepo
	busy   *mockBusySource
	outbox *testutil.MockOutboxRepository
	uow    *testutil.MockUnitOfWork
	txCtx  context.Context
}

func newFixture() *fixture {
	f := &fixture{
		repo:   new(mockInterviewRepo),
		busy:   new(mockBusySource),
		outbox: new(testutil.MockOutboxRepository),
		uow:    new(testutil.MockUnitOfWork),
	}
	f.txCtx = f.uow.ExpectTransaction(context.Background())
	f.repo.On("Save", f.txCtx, mock.AnythingOfType("*domain.Interview")).Return(nil).Maybe()
	f.outbox.On("SaveBatch", f.txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil).Maybe()
	return f
}

func (f *fixture) stored(i *domain.Interview) {
	f.repo.On("FindByID", mock.Anything, i.ID()).Return(i, nil)
}

func pending(t *testing.T) *domain.Interview {
	t.Helper()
	i, err := domain.NewInterview(uuid.New(), "cand-1", "emp-1", time.Hour, at(0, 7))
	require.NoError(t, err)
	i.ClearDomainEvents()
	return i
}

func awaitingCandidate(t *testing.T) *domain.Interview {
	t.Helper()
	i := pending(t)
	require.NoError(t, i.ProposeAvailability(employer, []schedDomain.ProposedSlot{tuesday14(), wednesday10()}, at(0, 7)))
	i.ClearDomainEvents()
	return i
}

func awaitingConfirmation(t *testing.T) *domain.Interview {
	t.Helper()
	i := awaitingCandidate(t)
	require.NoError(t, i.SelectSlots(candidate, []uuid.UUID{tuesday14().ID, wednesday10().ID}, nil, at(0, 7)))
	i.ClearDomainEvents()
	return i
}

func scheduled(t *testing.T) *domain.Interview {
	t.Helper()
	i := awaitingConfirmation(t)
	id := tuesday14().ID
	require.NoError(t, i.Confirm(employer, domain.Confirmation{SlotID: &id, InterviewerID: "u1", Platform: "zoom"}, []string{"u1"}, at(0, 7)))
	i.ClearDomainEvents()
	return i
}

func routingKeys(f *fixture) []string {
	var keys []string
	for _, msg := range f.outbox.SavedMessages() {
		keys = append(keys, msg.RoutingKey)
	}
	return keys
}

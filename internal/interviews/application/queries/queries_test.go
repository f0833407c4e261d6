package queries

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInterviewRepo struct {
	mock.Mock
}

func (m *mockInterviewRepo) Save(ctx context.Context, interview *domain.Interview) error {
	return m.Called(ctx, interview).Error(0)
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

type busyFunc func(window schedDomain.TimeInterval) []schedDomain.BusySlot

func (f busyFunc) BusyTimes(_ context.Context, _ string, window schedDomain.TimeInterval) ([]schedDomain.BusySlot, error) {
	return f(window), nil
}

var (
	monday    = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	clock     = sharedDomain.FixedClock{At: monday.Add(8 * time.Hour)}
	employer  = sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-1")
	candidate = sharedDomain.NewActor(sharedDomain.RoleCandidate, "cand-1")
)

func newInterview(t *testing.T, created time.Time) *domain.Interview {
	t.Helper()
	i, err := domain.NewInterview(uuid.New(), "cand-1", "emp-1", time.Hour, created)
	require.NoError(t, err)
	return i
}

func TestGetInterviewHandler_Handle(t *testing.T) {
	repo := new(mockInterviewRepo)
	i := newInterview(t, monday)
	repo.On("FindByID", mock.Anything, i.ID()).Return(i, nil)
	handler := NewGetInterviewHandler(repo, clock)

	t.Run("pending interview has null schedule fields", func(t *testing.T) {
		dto, err := handler.Handle(context.Background(), GetInterviewQuery{Actor: candidate, InterviewID: i.ID()})
		require.NoError(t, err)

		raw, err := json.Marshal(dto)
		require.NoError(t, err)
		var fields map[string]any
		require.NoError(t, json.Unmarshal(raw, &fields))

		for _, key := range []string{"scheduledAt", "meetingPlatform", "interviewerId", "meetingLink"} {
			value, present := fields[key]
			assert.True(t, present, key)
			assert.Nil(t, value, key)
		}
		assert.Equal(t, "scheduling", fields["stage"])
		assert.Equal(t, []any{}, fields["proposedSlots"])
	})

	t.Run("strangers see not found", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), GetInterviewQuery{
			Actor:       sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-9"),
			InterviewID: i.ID(),
		})
		assert.Equal(t, sharedDomain.KindNotFound, sharedDomain.KindOf(err))
	})
}

func TestListInterviewsHandler_Handle(t *testing.T) {
	repo := new(mockInterviewRepo)
	older := newInterview(t, monday)
	newer := newInterview(t, monday.Add(time.Hour))
	proposed := newInterview(t, monday.Add(2*time.Hour))
	require.NoError(t, proposed.ProposeAvailability(employer,
		[]schedDomain.ProposedSlot{schedDomain.NewProposedSlot(monday.AddDate(0, 0, 1).Add(14*time.Hour), time.Hour)},
		monday.Add(2*time.Hour)))
	repo.On("FindByEmployer", mock.Anything, "emp-1").Return([]*domain.Interview{newer, older, proposed}, nil)
	handler := NewListInterviewsHandler(repo, clock)

	dtos, err := handler.Handle(context.Background(), ListInterviewsQuery{Actor: employer, EmployerID: "ignored"})

	require.NoError(t, err)
	require.Len(t, dtos, 3)
	assert.Equal(t, proposed.ID(), dtos[0].ID)
	assert.Len(t, dtos[0].AvailableSlots, 1)
	assert.Equal(t, older.ID(), dtos[1].ID)
	assert.Equal(t, newer.ID(), dtos[2].ID)

	t.Run("admin must name a party", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), ListInterviewsQuery{Actor: sharedDomain.NewActor(sharedDomain.RoleAdmin, "a")})
		assert.Equal(t, sharedDomain.KindInvalidInput, sharedDomain.KindOf(err))
	})
}

func TestSuggestAvailabilityHandler_Handle(t *testing.T) {
	repo := new(mockInterviewRepo)
	i := newInterview(t, monday)
	repo.On("FindByID", mock.Anything, i.ID()).Return(i, nil)
	busy := busyFunc(func(schedDomain.TimeInterval) []schedDomain.BusySlot {
		return []schedDomain.BusySlot{schedDomain.NewBusySlot(monday.Add(9*time.Hour), monday.Add(10*time.Hour), "standup")}
	})
	handler := NewSuggestAvailabilityHandler(repo, busy, clock, 0)

	slots, err := handler.Handle(context.Background(), SuggestAvailabilityQuery{
		Actor:       employer,
		InterviewID: i.ID(),
		To:          monday.Add(12 * time.Hour),
	})

	require.NoError(t, err)
	var starts []int
	for _, s := range slots {
		starts = append(starts, s.Start.Hour())
	}
	assert.Equal(t, []int{8, 10, 11}, starts)
}

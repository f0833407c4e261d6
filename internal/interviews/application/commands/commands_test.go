package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateInterviewHandler_Handle(t *testing.T) {
	t.Run("creates for the calling employer", func(t *testing.T) {
		f := newFixture()
		handler := NewCreateInterviewHandler(f.repo, f.outbox, f.uow, clock)

		id, err := handler.Handle(context.Background(), CreateInterviewCommand{
			Actor:           employer,
			ApplicationID:   uuid.New(),
			CandidateID:     "cand-1",
			DurationMinutes: 45,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		f.repo.AssertCalled(t, "Save", f.txCtx, mock.AnythingOfType("*domain.Interview"))
		assert.Equal(t, []string{domain.RoutingKeyCreated}, routingKeys(f))
	})

	t.Run("rejects another employer", func(t *testing.T) {
		f := newFixture()
		handler := NewCreateInterviewHandler(f.repo, f.outbox, f.uow, clock)

		_, err := handler.Handle(context.Background(), CreateInterviewCommand{
			Actor:           employer,
			ApplicationID:   uuid.New(),
			CandidateID:     "cand-1",
			EmployerID:      "emp-2",
			DurationMinutes: 45,
		})

		assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("candidates cannot create", func(t *testing.T) {
		f := newFixture()
		handler := NewCreateInterviewHandler(f.repo, f.outbox, f.uow, clock)

		_, err := handler.Handle(context.Background(), CreateInterviewCommand{Actor: candidate, ApplicationID: uuid.New(), CandidateID: "cand-1", DurationMinutes: 30})

		assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))
	})
}

func TestProposeAvailabilityHandler_Handle(t *testing.T) {
	t.Run("explicit starts", func(t *testing.T) {
		f := newFixture()
		i := pending(t)
		f.stored(i)
		f.busy.On("BusyTimes", mock.Anything, "emp-1", mock.Anything).Return(nil, nil)
		handler := NewProposeAvailabilityHandler(f.repo, f.busy, f.outbox, f.uow, clock)

		slots, err := handler.Handle(context.Background(), ProposeAvailabilityCommand{
			Actor:       employer,
			InterviewID: i.ID(),
			Starts:      []time.Time{at(2, 10), at(1, 14)},
		})

		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, tuesday14().ID, slots[0].ID)
		assert.Equal(t, domain.StatusAwaitingCandidate, i.Status())
		assert.Equal(t, []string{domain.RoutingKeyAvailabilityProposed}, routingKeys(f))
	})

	t.Run("pattern with an empty hour range", func(t *testing.T) {
		for _, hours := range []schedDomain.HourRange{{StartHour: 9, EndHour: 9}, {StartHour: 9, EndHour: 25}} {
			f := newFixture()
			i := pending(t)
			f.stored(i)
			handler := NewProposeAvailabilityHandler(f.repo, f.busy, f.outbox, f.uow, clock)

			_, err := handler.Handle(context.Background(), ProposeAvailabilityCommand{
				Actor:       employer,
				InterviewID: i.ID(),
				Pattern:     &schedDomain.WeeklyPattern{WeekStart: at(0, 0), Days: []time.Weekday{time.Tuesday}, Hours: hours},
			})

			assert.Equal(t, sharedDomain.KindInvalidInput, sharedDomain.KindOf(err), "hours %+v", hours)
			assert.Equal(t, domain.StatusPendingAvailability, i.Status())
			f.busy.AssertNotCalled(t, "BusyTimes", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("employer calendar conflict", func(t *testing.T) {
		f := newFixture()
		i := pending(t)
		f.stored(i)
		busy := []schedDomain.BusySlot{schedDomain.NewBusySlot(at(1, 14), at(1, 15), schedDomain.LabelCalendarEvent)}
		f.busy.On("BusyTimes", mock.Anything, "emp-1", mock.Anything).Return(busy, nil)
		handler := NewProposeAvailabilityHandler(f.repo, f.busy, f.outbox, f.uow, clock)

		_, err := handler.Handle(context.Background(), ProposeAvailabilityCommand{
			Actor:       employer,
			InterviewID: i.ID(),
			Starts:      []time.Time{at(1, 14)},
		})

		label, ok := sharedDomain.BusyConflictLabel(err)
		require.True(t, ok)
		assert.Equal(t, schedDomain.LabelCalendarEvent, label)
		assert.Equal(t, domain.StatusPendingAvailability, i.Status())
	})

	t.Run("weekly pattern skips busy hours", func(t *testing.T) {
		f := newFixture()
		i := pending(t)
		f.stored(i)
		busy := []schedDomain.BusySlot{schedDomain.NewBusySlot(at(1, 9), at(1, 10), schedDomain.LabelCalendarEvent)}
		f.busy.On("BusyTimes", mock.Anything, "emp-1", mock.Anything).Return(busy, nil)
		handler := NewProposeAvailabilityHandler(f.repo, f.busy, f.outbox, f.uow, clock)

		slots, err := handler.Handle(context.Background(), ProposeAvailabilityCommand{
			Actor:       employer,
			InterviewID: i.ID(),
			Pattern: &schedDomain.WeeklyPattern{
				WeekStart: monday,
				Days:      []time.Weekday{time.Tuesday},
				Hours:     schedDomain.HourRange{StartHour: 9, EndHour: 12},
			},
		})

		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, at(1, 10), slots[0].Start)
	})

	t.Run("stale version", func(t *testing.T) {
		f := newFixture()
		i := pending(t)
		f.stored(i)
		handler := NewProposeAvailabilityHandler(f.repo, f.busy, f.outbox, f.uow, clock)
		expected := 7

		_, err := handler.Handle(context.Background(), ProposeAvailabilityCommand{
			Actor:           employer,
			InterviewID:     i.ID(),
			ExpectedVersion: &expected,
			Starts:          []time.Time{at(1, 14)},
		})

		assert.Equal(t, sharedDomain.KindStaleState, sharedDomain.KindOf(err))
	})

	t.Run("unknown interview", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.repo.On("FindByID", mock.Anything, id).Return(nil, nil)
		handler := NewProposeAvailabilityHandler(f.repo, f.busy, f.outbox, f.uow, clock)

		_, err := handler.Handle(context.Background(), ProposeAvailabilityCommand{Actor: employer, InterviewID: id, Starts: []time.Time{at(1, 14)}})

		assert.Equal(t, sharedDomain.KindNotFound, sharedDomain.KindOf(err))
	})
}

func TestSelectSlotsHandler_Handle(t *testing.T) {
	f := newFixture()
	i := awaitingCandidate(t)
	f.stored(i)
	f.busy.On("BusyTimes", mock.Anything, "emp-1", schedDomain.TimeInterval{Start: at(1, 14), End: at(2, 11)}).Return(nil, nil)
	handler := NewSelectSlotsHandler(f.repo, f.busy, f.outbox, f.uow, clock)

	selected, err := handler.Handle(context.Background(), SelectSlotsCommand{
		Actor:       candidate,
		InterviewID: i.ID(),
		SlotIDs:     []uuid.UUID{tuesday14().ID, wednesday10().ID},
	})

	require.NoError(t, err)
	assert.Len(t, selected, 2)
	assert.Equal(t, domain.StatusAwaitingConfirmation, i.Status())
	f.busy.AssertExpectations(t)
}

func TestConfirmInterviewHandler_Handle(t *testing.T) {
	slotID := tuesday14().ID

	t.Run("schedules, links and advances the introduction", func(t *testing.T) {
		f := newFixture()
		i := awaitingConfirmation(t)
		f.stored(i)
		provider := new(mockLinkProvider)
		provider.On("CreateMeeting", mock.Anything, mock.MatchedBy(func(req services.MeetingRequest) bool {
			return req.Start.Equal(at(1, 14)) && req.InterviewerID == "u1"
		})).Return("https://zoom.us/j/42", nil)
		progress := new(mockProgress)
		progress.On("MarkInterviewing", mock.Anything, "cand-1", "emp-1").Return(nil)
		provisioner := services.NewLinkProvisioner(services.DefaultLinkProvisionerConfig(), nil, provider)
		handler := NewConfirmInterviewHandler(f.repo, staticRoster{"u1", "u2"}, provisioner, progress, f.outbox, f.uow, clock, nil)

		result, err := handler.Handle(context.Background(), ConfirmInterviewCommand{
			Actor:         employer,
			InterviewID:   i.ID(),
			SlotID:        &slotID,
			InterviewerID: "u1",
			Platform:      "zoom",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusScheduled, result.Status())
		assert.Equal(t, at(1, 14), *result.ScheduledAt())
		assert.Equal(t, "https://zoom.us/j/42", *result.MeetingLink())
		assert.Equal(t, []string{domain.RoutingKeyScheduled, domain.RoutingKeyLinkCreated}, routingKeys(f))
		progress.AssertExpectations(t)
	})

	t.Run("link failure keeps the schedule", func(t *testing.T) {
		f := newFixture()
		i := awaitingConfirmation(t)
		f.stored(i)
		provider := new(mockLinkProvider)
		provider.On("CreateMeeting", mock.Anything, mock.Anything).Return("", errors.New("zoom down"))
		provisioner := services.NewLinkProvisioner(services.DefaultLinkProvisionerConfig(), nil, provider)
		handler := NewConfirmInterviewHandler(f.repo, staticRoster{"u1"}, provisioner, nil, f.outbox, f.uow, clock, nil)

		result, err := handler.Handle(context.Background(), ConfirmInterviewCommand{
			Actor: employer, InterviewID: i.ID(), SlotID: &slotID, InterviewerID: "u1", Platform: "zoom",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusScheduled, result.Status())
		assert.Equal(t, domain.LinkFailed, result.MeetingLinkStatus())
		assert.Equal(t, services.FailureProvider, *result.MeetingLinkError())
		assert.Nil(t, result.MeetingLink())
	})

	t.Run("missing interviewer changes nothing", func(t *testing.T) {
		f := newFixture()
		i := awaitingConfirmation(t)
		f.stored(i)
		handler := NewConfirmInterviewHandler(f.repo, staticRoster{"u1"}, nil, nil, f.outbox, f.uow, clock, nil)

		_, err := handler.Handle(context.Background(), ConfirmInterviewCommand{
			Actor: employer, InterviewID: i.ID(), SlotID: &slotID, Platform: "zoom",
		})

		assert.Equal(t, sharedDomain.KindIncompleteSelection, sharedDomain.KindOf(err))
		assert.Equal(t, domain.StatusAwaitingConfirmation, i.Status())
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.uow.AssertCalled(t, "Rollback", f.txCtx)
	})
}

func TestRescheduleInterviewHandler_Handle(t *testing.T) {
	f := newFixture()
	i := scheduled(t)
	f.stored(i)
	handler := NewRescheduleInterviewHandler(f.repo, f.busy, f.outbox, f.uow, clock)

	result, err := handler.Handle(context.Background(), RescheduleInterviewCommand{Actor: employer, InterviewID: i.ID()})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingCandidate, result.Status())
	assert.Equal(t, []string{domain.RoutingKeyRescheduled}, routingKeys(f))

	f.busy.On("BusyTimes", mock.Anything, "emp-1", mock.Anything).Return(nil, nil)
	selectHandler := NewSelectSlotsHandler(f.repo, f.busy, f.outbox, f.uow, clock)
	_, err = selectHandler.Handle(context.Background(), SelectSlotsCommand{
		Actor:       candidate,
		InterviewID: i.ID(),
		SlotIDs:     []uuid.UUID{tuesday14().ID},
	})

	label, ok := sharedDomain.BusyConflictLabel(err)
	require.True(t, ok)
	assert.Equal(t, schedDomain.LabelPreviouslyScheduled, label)
}

func TestUpdateInterviewStatusHandler(t *testing.T) {
	t.Run("patch to completed after the interview", func(t *testing.T) {
		f := newFixture()
		i := scheduled(t)
		f.stored(i)
		handler := NewUpdateInterviewStatusHandler(f.repo, f.outbox, f.uow, sharedDomain.FixedClock{At: at(1, 16)})

		result, err := handler.Handle(context.Background(), UpdateInterviewStatusCommand{Actor: employer, InterviewID: i.ID(), Status: "COMPLETED"})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, result.Status())
	})

	t.Run("patch to a non-closing status", func(t *testing.T) {
		f := newFixture()
		i := scheduled(t)
		f.stored(i)
		handler := NewUpdateInterviewStatusHandler(f.repo, f.outbox, f.uow, clock)

		_, err := handler.Handle(context.Background(), UpdateInterviewStatusCommand{Actor: employer, InterviewID: i.ID(), Status: "AWAITING_CANDIDATE"})

		assert.Equal(t, sharedDomain.KindInvalidTransition, sharedDomain.KindOf(err))
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture()
		handler := NewUpdateInterviewStatusHandler(f.repo, f.outbox, f.uow, clock)

		_, err := handler.Handle(context.Background(), UpdateInterviewStatusCommand{Actor: employer, InterviewID: uuid.New(), Status: "RESCHEDULED"})

		assert.Equal(t, sharedDomain.KindInvalidInput, sharedDomain.KindOf(err))
	})

	t.Run("cancel emits the notification event", func(t *testing.T) {
		f := newFixture()
		i := awaitingConfirmation(t)
		f.stored(i)
		handler := NewUpdateInterviewStatusHandler(f.repo, f.outbox, f.uow, clock)

		result, err := handler.Cancel(context.Background(), CancelInterviewCommand{Actor: employer, InterviewID: i.ID(), Reason: "role closed"})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, result.Status())
		assert.Equal(t, []string{domain.RoutingKeyCancelled}, routingKeys(f))
	})
}

func TestRetryMeetingLinkHandler(t *testing.T) {
	t.Run("manual retry after failure", func(t *testing.T) {
		f := newFixture()
		i := scheduled(t)
		require.NoError(t, i.RecordMeetingLinkFailure(services.FailureTimeout, at(0, 7)))
		i.ClearDomainEvents()
		f.stored(i)
		provider := new(mockLinkProvider)
		provider.On("CreateMeeting", mock.Anything, mock.Anything).Return("https://zoom.us/j/7", nil)
		provisioner := services.NewLinkProvisioner(services.DefaultLinkProvisionerConfig(), nil, provider)
		handler := NewRetryMeetingLinkHandler(f.repo, provisioner, f.outbox, f.uow, clock, nil)

		result, err := handler.Handle(context.Background(), RetryMeetingLinkCommand{Actor: employer, InterviewID: i.ID()})

		require.NoError(t, err)
		assert.Equal(t, domain.LinkCreated, result.MeetingLinkStatus())
	})

	t.Run("sweep counts created links", func(t *testing.T) {
		f := newFixture()
		i := scheduled(t)
		f.stored(i)
		f.repo.On("FindNeedingLink", mock.Anything, clock.Now(), 50).Return([]*domain.Interview{i}, nil)
		provider := new(mockLinkProvider)
		provider.On("CreateMeeting", mock.Anything, mock.Anything).Return("https://zoom.us/j/8", nil)
		provisioner := services.NewLinkProvisioner(services.DefaultLinkProvisionerConfig(), nil, provider)
		handler := NewRetryMeetingLinkHandler(f.repo, provisioner, f.outbox, f.uow, clock, nil)

		created, err := handler.RetryPending(context.Background(), RetryPendingLinksCommand{Limit: 50})

		require.NoError(t, err)
		assert.Equal(t, 1, created)
	})
}

func TestExpireStaleInterviewsHandler_Handle(t *testing.T) {
	f := newFixture()
	stale := awaitingCandidate(t)
	fresh := awaitingCandidate(t)
	f.stored(stale)
	f.stored(fresh)
	f.repo.On("FindAwaiting", mock.Anything, 100).Return([]*domain.Interview{stale, fresh}, nil)

	// By Thursday both proposed slots have passed.
	handler := NewExpireStaleInterviewsHandler(f.repo, f.outbox, f.uow, sharedDomain.FixedClock{At: at(3, 0)}, nil)

	expired, err := handler.Handle(context.Background(), ExpireStaleInterviewsCommand{Limit: 100})

	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, domain.StatusCancelled, stale.Status())
	assert.Equal(t, domain.ExpiredReason, *stale.CancelReason())
}

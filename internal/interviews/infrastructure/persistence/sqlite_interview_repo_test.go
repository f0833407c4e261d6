package persistence_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	"github.com/felixgeelhaar/hireflow/internal/interviews/infrastructure/persistence"
	schedDomain "github.com/felixgeelhaar/hireflow/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var (
	monday    = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	employer  = sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-1")
	candidate = sharedDomain.NewActor(sharedDomain.RoleCandidate, "cand-1")
)

func at(day, hour int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
}

func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func scheduledInterview(t *testing.T) *domain.Interview {
	t.Helper()
	i, err := domain.NewInterview(uuid.New(), "cand-1", "emp-1", time.Hour, at(0, 7))
	require.NoError(t, err)
	tue := schedDomain.NewProposedSlot(at(1, 14), time.Hour)
	wed := schedDomain.NewProposedSlot(at(2, 10), time.Hour)
	require.NoError(t, i.ProposeAvailability(employer, []schedDomain.ProposedSlot{tue, wed}, at(0, 8)))
	require.NoError(t, i.SelectSlots(candidate, []uuid.UUID{tue.ID, wed.ID}, nil, at(0, 9)))
	require.NoError(t, i.Confirm(employer, domain.Confirmation{SlotID: &tue.ID, InterviewerID: "u1", Platform: "google_meet"}, []string{"u1"}, at(0, 10)))
	return i
}

func TestSQLiteInterviewRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a pending interview with null fields", func(t *testing.T) {
		repo := persistence.NewSQLiteInterviewRepository(setupSQLite(t))
		i, err := domain.NewInterview(uuid.New(), "cand-1", "emp-1", 30*time.Minute, at(0, 7))
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, i))
		assert.Equal(t, 1, i.Version())

		found, err := repo.FindByID(ctx, i.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.StatusPendingAvailability, found.Status())
		assert.Equal(t, 30*time.Minute, found.Duration())
		assert.Nil(t, found.ScheduledAt())
		assert.Nil(t, found.MeetingPlatform())
		assert.Nil(t, found.InterviewerID())
		assert.Empty(t, found.ProposedSlots())
		assert.Equal(t, i.CreatedAt(), found.CreatedAt())
	})

	t.Run("missing interview is nil", func(t *testing.T) {
		repo := persistence.NewSQLiteInterviewRepository(setupSQLite(t))
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("round trips a scheduled interview", func(t *testing.T) {
		repo := persistence.NewSQLiteInterviewRepository(setupSQLite(t))
		i := scheduledInterview(t)
		require.NoError(t, repo.Save(ctx, i))

		found, err := repo.FindByID(ctx, i.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusScheduled, found.Status())
		assert.Equal(t, at(1, 14), *found.ScheduledAt())
		assert.Equal(t, domain.PlatformGoogleMeet, *found.MeetingPlatform())
		assert.Equal(t, "u1", *found.InterviewerID())
		assert.Equal(t, domain.LinkPending, found.MeetingLinkStatus())
		assert.Equal(t, i.ProposedSlots(), found.ProposedSlots())
		assert.Equal(t, i.SelectedSlots(), found.SelectedSlots())
	})

	t.Run("rejects a stale update", func(t *testing.T) {
		repo := persistence.NewSQLiteInterviewRepository(setupSQLite(t))
		i := scheduledInterview(t)
		require.NoError(t, repo.Save(ctx, i))

		first, err := repo.FindByID(ctx, i.ID())
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, i.ID())
		require.NoError(t, err)

		require.NoError(t, first.RecordMeetingLink("https://meet.google.com/a", at(0, 11)))
		require.NoError(t, repo.Save(ctx, first))
		assert.Equal(t, 2, first.Version())

		require.NoError(t, second.Cancel(employer, "", at(0, 12)))
		err = repo.Save(ctx, second)
		assert.Equal(t, sharedDomain.KindStaleState, sharedDomain.KindOf(err))

		found, err := repo.FindByID(ctx, i.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusScheduled, found.Status())
		assert.Equal(t, "https://meet.google.com/a", *found.MeetingLink())
	})

	t.Run("save inside a rolled back unit of work", func(t *testing.T) {
		db := setupSQLite(t)
		repo := persistence.NewSQLiteInterviewRepository(db)
		uow := sharedPersistence.NewSQLiteUnitOfWork(db)
		i := scheduledInterview(t)

		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.Save(txCtx, i))
		require.NoError(t, uow.Rollback(txCtx))

		found, err := repo.FindByID(ctx, i.ID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("sweep queries", func(t *testing.T) {
		repo := persistence.NewSQLiteInterviewRepository(setupSQLite(t))
		sched := scheduledInterview(t)
		require.NoError(t, repo.Save(ctx, sched))

		waiting, err := domain.NewInterview(uuid.New(), "cand-2", "emp-1", time.Hour, at(0, 7))
		require.NoError(t, err)
		require.NoError(t, waiting.ProposeAvailability(employer,
			[]schedDomain.ProposedSlot{schedDomain.NewProposedSlot(at(3, 9), time.Hour)}, at(0, 8)))
		require.NoError(t, repo.Save(ctx, waiting))

		awaiting, err := repo.FindAwaiting(ctx, 10)
		require.NoError(t, err)
		require.Len(t, awaiting, 1)
		assert.Equal(t, waiting.ID(), awaiting[0].ID())

		needing, err := repo.FindNeedingLink(ctx, at(0, 12), 10)
		require.NoError(t, err)
		require.Len(t, needing, 1)
		assert.Equal(t, sched.ID(), needing[0].ID())

		needing, err = repo.FindNeedingLink(ctx, at(1, 15), 10)
		require.NoError(t, err)
		assert.Empty(t, needing)

		byEmployer, err := repo.FindByEmployer(ctx, "emp-1")
		require.NoError(t, err)
		assert.Len(t, byEmployer, 2)

		byCandidate, err := repo.FindByCandidate(ctx, "cand-2")
		require.NoError(t, err)
		assert.Len(t, byCandidate, 1)
	})
}

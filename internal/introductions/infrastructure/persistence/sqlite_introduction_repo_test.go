package persistence_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	"github.com/felixgeelhaar/hireflow/internal/introductions/infrastructure/persistence"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var (
	start    = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	employer = sharedDomain.NewActor(sharedDomain.RoleEmployer, "emp-1")
)

func setupSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func TestSQLiteIntroductionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips and finds by pair", func(t *testing.T) {
		repo := persistence.NewSQLiteIntroductionRepository(setupSQLite(t))
		intro, err := domain.NewIntroduction("cand-1", "emp-1", start)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, intro))
		assert.Equal(t, 1, intro.Version())

		require.NoError(t, intro.Request(employer, start.Add(time.Hour)))
		require.NoError(t, repo.Save(ctx, intro))
		assert.Equal(t, 2, intro.Version())

		got, err := repo.FindByPair(ctx, "cand-1", "emp-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, intro.ID(), got.ID())
		assert.Equal(t, domain.StatusIntroRequested, got.Status())
		require.NotNil(t, got.RequestedAt())
		assert.True(t, start.Add(time.Hour).Equal(*got.RequestedAt()))
		assert.Nil(t, got.RespondedAt())
		assert.Equal(t, 2, got.Version())
	})

	t.Run("missing introduction is nil", func(t *testing.T) {
		repo := persistence.NewSQLiteIntroductionRepository(setupSQLite(t))

		got, err := repo.FindByPair(ctx, "cand-1", "emp-9")

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("stale update is rejected", func(t *testing.T) {
		repo := persistence.NewSQLiteIntroductionRepository(setupSQLite(t))
		intro, err := domain.NewIntroduction("cand-1", "emp-1", start)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, intro))

		copy1, err := repo.FindByID(ctx, intro.ID())
		require.NoError(t, err)
		require.NoError(t, intro.Request(employer, start))
		require.NoError(t, repo.Save(ctx, intro))

		copy1.RecordProfileView(start)
		err = repo.Save(ctx, copy1)
		assert.Equal(t, sharedDomain.KindStaleState, sharedDomain.KindOf(err))
	})

	t.Run("one introduction per pair", func(t *testing.T) {
		repo := persistence.NewSQLiteIntroductionRepository(setupSQLite(t))
		first, err := domain.NewIntroduction("cand-1", "emp-1", start)
		require.NoError(t, err)
		second, err := domain.NewIntroduction("cand-1", "emp-1", start)
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, first))
		err = repo.Save(ctx, second)

		assert.Equal(t, sharedDomain.KindStaleState, sharedDomain.KindOf(err))
		assert.Equal(t, 0, second.Version())
		got, err := repo.FindByPair(ctx, "cand-1", "emp-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID(), got.ID())
	})

	t.Run("finds overdue requests", func(t *testing.T) {
		repo := persistence.NewSQLiteIntroductionRepository(setupSQLite(t))
		for i, requestedAt := range []time.Time{start, start.Add(20 * 24 * time.Hour)} {
			intro, err := domain.NewIntroduction("cand-"+string(rune('a'+i)), "emp-1", start)
			require.NoError(t, err)
			require.NoError(t, intro.Request(employer, requestedAt))
			require.NoError(t, repo.Save(ctx, intro))
		}

		due, err := repo.FindRequestedBefore(ctx, start.Add(domain.DefaultExpiryWindow), 10)

		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, "cand-a", due[0].CandidateID())

		all, err := repo.FindByEmployer(ctx, "emp-1")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestSQLiteCandidateDirectory(t *testing.T) {
	ctx := context.Background()
	directory := persistence.NewSQLiteCandidateDirectory(setupSQLite(t))
	email := "ada@example.com"

	require.NoError(t, directory.SaveProfile(ctx, domain.CandidateProfile{
		ID:      "cand-1",
		Name:    "Ada",
		Skills:  []string{"go", "sql"},
		Contact: domain.ContactDetails{Email: &email},
	}))

	got, err := directory.FindProfile(ctx, "cand-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"go", "sql"}, got.Skills)
	require.NotNil(t, got.Contact.Email)
	assert.Equal(t, email, *got.Contact.Email)
	assert.Nil(t, got.Contact.Phone)
	assert.Empty(t, got.Contact.Links)

	missing, err := directory.FindProfile(ctx, "cand-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

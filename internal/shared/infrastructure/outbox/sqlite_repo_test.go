package outbox_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
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

func newMessage(key string, createdAt time.Time) *outbox.Message {
	return &outbox.Message{
		EventID:       uuid.New(),
		AggregateType: "Interview",
		AggregateID:   uuid.New(),
		RoutingKey:    key,
		Payload:       []byte(`{"status":"SCHEDULED"}`),
		Metadata:      []byte(`{}`),
		CreatedAt:     createdAt,
	}
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save batch inside unit of work is rolled back with it", func(t *testing.T) {
		db := setupSQLite(t)
		repo := outbox.NewSQLiteRepository(db)
		uow := sharedPersistence.NewSQLiteUnitOfWork(db)

		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.SaveBatch(txCtx, []*outbox.Message{newMessage("a", time.Now())}))
		require.NoError(t, uow.Rollback(txCtx))

		msgs, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("lifecycle", func(t *testing.T) {
		db := setupSQLite(t)
		repo := outbox.NewSQLiteRepository(db)
		base := time.Now().Add(-time.Minute)

		first := newMessage("interviews.interview.scheduled", base)
		second := newMessage("interviews.interview.cancelled", base.Add(time.Second))
		require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{second, first}))
		assert.NotZero(t, first.ID)

		msgs, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, first.EventID, msgs[0].EventID)
		assert.JSONEq(t, `{"status":"SCHEDULED"}`, string(msgs[0].Payload))

		require.NoError(t, repo.MarkPublished(ctx, first.ID))
		require.NoError(t, repo.MarkFailed(ctx, second.ID, "boom", time.Now().Add(time.Hour)))

		msgs, err = repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, msgs, "failed message waits for its retry time")

		require.NoError(t, repo.MarkDead(ctx, second.ID, "gave up"))

		deleted, err := repo.DeleteOld(ctx, -1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})
}

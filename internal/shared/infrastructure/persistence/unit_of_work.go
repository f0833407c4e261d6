package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoTransaction is returned by Commit or Rollback when ctx carries no transaction.
var ErrNoTransaction = errors.New("no transaction in context")

type scopeKey struct{}

// scope is the transaction a unit of work placed in the context. Only the
// outermost Begin owns it; nested Begins join and their Commit is a no-op.
type scope struct {
	tx    any
	owned bool
}

func txFrom[T any](ctx context.Context) (T, bool) {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok {
		var zero T
		return zero, false
	}
	tx, ok := s.tx.(T)
	return tx, ok
}

// InTransaction reports whether ctx carries a transaction, so repositories
// can take row locks only when they will be held to commit.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(scopeKey{}).(scope)
	return ok
}

// TxUnitOfWork implements application.UnitOfWork over a driver transaction T.
type TxUnitOfWork[T any] struct {
	begin    func(ctx context.Context) (T, error)
	commit   func(ctx context.Context, tx T) error
	rollback func(ctx context.Context, tx T) error
}

// Begin starts a transaction or joins the one already in ctx.
func (u *TxUnitOfWork[T]) Begin(ctx context.Context) (context.Context, error) {
	if tx, ok := txFrom[T](ctx); ok {
		return context.WithValue(ctx, scopeKey{}, scope{tx: tx}), nil
	}
	tx, err := u.begin(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, scopeKey{}, scope{tx: tx, owned: true}), nil
}

// Commit commits when ctx owns the transaction.
func (u *TxUnitOfWork[T]) Commit(ctx context.Context) error {
	return u.finish(ctx, u.commit)
}

// Rollback rolls back when ctx owns the transaction.
func (u *TxUnitOfWork[T]) Rollback(ctx context.Context) error {
	return u.finish(ctx, u.rollback)
}

func (u *TxUnitOfWork[T]) finish(ctx context.Context, end func(context.Context, T) error) error {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok {
		return ErrNoTransaction
	}
	tx, ok := s.tx.(T)
	if !ok {
		return ErrNoTransaction
	}
	if !s.owned {
		return nil
	}
	return end(ctx, tx)
}

// NewPostgresUnitOfWork runs units of work in pgx transactions.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) *TxUnitOfWork[pgx.Tx] {
	return &TxUnitOfWork[pgx.Tx]{
		begin:    func(ctx context.Context) (pgx.Tx, error) { return pool.Begin(ctx) },
		commit:   func(ctx context.Context, tx pgx.Tx) error { return tx.Commit(ctx) },
		rollback: func(ctx context.Context, tx pgx.Tx) error { return tx.Rollback(ctx) },
	}
}

// NewSQLiteUnitOfWork runs units of work in database/sql transactions.
func NewSQLiteUnitOfWork(db *sql.DB) *TxUnitOfWork[*sql.Tx] {
	return &TxUnitOfWork[*sql.Tx]{
		begin:    func(ctx context.Context) (*sql.Tx, error) { return db.BeginTx(ctx, nil) },
		commit:   func(_ context.Context, tx *sql.Tx) error { return tx.Commit() },
		rollback: func(_ context.Context, tx *sql.Tx) error { return tx.Rollback() },
	}
}

// DBExecutor abstracts pgxpool.Pool and pgx.Tx.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Executor returns the pgx transaction in ctx, otherwise pool.
func Executor(ctx context.Context, pool *pgxpool.Pool) DBExecutor {
	if tx, ok := txFrom[pgx.Tx](ctx); ok {
		return tx
	}
	return pool
}

// PostgresTx returns the pgx transaction in ctx.
func PostgresTx(ctx context.Context) (pgx.Tx, bool) {
	return txFrom[pgx.Tx](ctx)
}

// SQLExecutor abstracts *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteExecutor returns the database/sql transaction in ctx, otherwise db.
func SQLiteExecutor(ctx context.Context, db *sql.DB) SQLExecutor {
	if tx, ok := txFrom[*sql.Tx](ctx); ok {
		return tx
	}
	return db
}

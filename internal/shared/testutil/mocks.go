// Package testutil holds testify mocks shared by application-layer tests.
package testutil

import (
	"context"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/stretchr/testify/mock"
)

type txMarker struct{}

// TxContext derives the context a mocked UnitOfWork hands to the work function.
func TxContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, txMarker{}, "transaction")
}

// MockUnitOfWork is a testify mock of application.UnitOfWork.
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ExpectTransaction wires Begin plus Commit for a successful unit of work,
// and Rollback for a failing one.
func (m *MockUnitOfWork) ExpectTransaction(ctx context.Context) context.Context {
	txCtx := TxContext(ctx)
	m.On("Begin", mock.Anything).Return(txCtx, nil)
	m.On("Commit", txCtx).Return(nil).Maybe()
	m.On("Rollback", txCtx).Return(nil).Maybe()
	return txCtx
}

// MockOutboxRepository is a testify mock of outbox.Repository.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutboxRepository) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockOutboxRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// SavedMessages returns every message passed to SaveBatch.
func (m *MockOutboxRepository) SavedMessages() []*outbox.Message {
	var out []*outbox.Message
	for _, call := range m.Calls {
		if call.Method == "SaveBatch" {
			out = append(out, call.Arguments.Get(1).([]*outbox.Message)...)
		}
	}
	return out
}

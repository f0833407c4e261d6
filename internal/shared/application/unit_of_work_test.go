package application

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/hireflow/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWithUnitOfWork(t *testing.T) {
	fnErr := errors.New("function error")
	commitErr := errors.New("commit error")

	tests := []struct {
		name      string
		fnErr     error
		commitErr error
		rollback  error
		wantErr   error
	}{
		{name: "commits on success"},
		{name: "rolls back on function error", fnErr: fnErr, wantErr: fnErr},
		{name: "surfaces commit error", commitErr: commitErr, wantErr: commitErr},
		{name: "function error wins over rollback error", fnErr: fnErr, rollback: errors.New("rollback"), wantErr: fnErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := new(testutil.MockUnitOfWork)
			ctx := context.Background()
			txCtx := testutil.TxContext(ctx)

			uow.On("Begin", ctx).Return(txCtx, nil)
			if tt.fnErr != nil {
				uow.On("Rollback", txCtx).Return(tt.rollback)
			} else {
				uow.On("Commit", txCtx).Return(tt.commitErr)
			}

			err := WithUnitOfWork(ctx, uow, func(got context.Context) error {
				assert.Equal(t, txCtx, got)
				return tt.fnErr
			})

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
			uow.AssertExpectations(t)
		})
	}

	t.Run("does not run function when begin fails", func(t *testing.T) {
		uow := new(testutil.MockUnitOfWork)
		ctx := context.Background()
		beginErr := errors.New("begin error")
		uow.On("Begin", ctx).Return(ctx, beginErr)

		executed := false
		err := WithUnitOfWork(ctx, uow, func(context.Context) error {
			executed = true
			return nil
		})

		assert.Equal(t, beginErr, err)
		assert.False(t, executed)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func TestWithUnitOfWorkResult(t *testing.T) {
	uow := new(testutil.MockUnitOfWork)
	ctx := context.Background()
	txCtx := testutil.TxContext(ctx)
	uow.On("Begin", ctx).Return(txCtx, nil)
	uow.On("Commit", txCtx).Return(nil)

	got, err := WithUnitOfWorkResult(ctx, uow, func(context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

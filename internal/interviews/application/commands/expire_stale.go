package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ExpireStaleInterviewsCommand cancels interviews whose offered slots all passed.
type ExpireStaleInterviewsCommand struct {
	Limit int
}

// ExpireStaleInterviewsHandler handles ExpireStaleInterviewsCommand.
type ExpireStaleInterviewsHandler struct {
	repo       domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
	logger     *slog.Logger
}

// NewExpireStaleInterviewsHandler creates a new handler.
func NewExpireStaleInterviewsHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock, logger *slog.Logger) *ExpireStaleInterviewsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpireStaleInterviewsHandler{repo: repo, outboxRepo: outboxRepo, uow: uow, clock: clock, logger: logger}
}

// Handle returns the number of interviews cancelled. Each one is expired in
// its own transaction; a stale-state conflict skips it until the next run.
func (h *ExpireStaleInterviewsHandler) Handle(ctx context.Context, cmd ExpireStaleInterviewsCommand) (int, error) {
	candidates, err := h.repo.FindAwaiting(ctx, cmd.Limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, c := range candidates {
		changed, err := h.expire(ctx, c.ID())
		if err != nil {
			h.logger.Warn("failed to expire interview", "interview_id", c.ID(), "error", err)
			continue
		}
		if changed {
			expired++
		}
	}
	return expired, nil
}

func (h *ExpireStaleInterviewsHandler) expire(ctx context.Context, id uuid.UUID) (bool, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (bool, error) {
		interview, err := load(ctx, h.repo, id, nil)
		if err != nil {
			return false, err
		}
		if !interview.ExpireIfStale(h.clock.Now()) {
			return false, nil
		}
		if err := h.repo.Save(ctx, interview); err != nil {
			return false, err
		}
		if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, interview, sharedDomain.SystemActor); err != nil {
			return false, err
		}
		return true, nil
	})
}

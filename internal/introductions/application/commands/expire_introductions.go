package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/hireflow/internal/introductions/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
)

// ExpireIntroductionsCommand expires unanswered requests.
type ExpireIntroductionsCommand struct {
	Limit int
}

// ExpireIntroductionsHandler handles ExpireIntroductionsCommand.
type ExpireIntroductionsHandler struct {
	store
	logger *slog.Logger
}

// NewExpireIntroductionsHandler creates a new handler.
func NewExpireIntroductionsHandler(repo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock, policy Policy, logger *slog.Logger) *ExpireIntroductionsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpireIntroductionsHandler{
		store:  store{repo: repo, outboxRepo: outboxRepo, uow: uow, clock: clock, policy: policy},
		logger: logger,
	}
}

// Handle returns the number of introductions expired.
func (h *ExpireIntroductionsHandler) Handle(ctx context.Context, cmd ExpireIntroductionsCommand) (int, error) {
	cutoff := h.clock.Now().Add(-h.policy.ExpiryWindow)
	due, err := h.repo.FindRequestedBefore(ctx, cutoff, cmd.Limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range due {
		changed, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (bool, error) {
			intro, err := h.load(ctx, candidate.ID(), nil)
			if err != nil {
				return false, err
			}
			if !intro.ExpireIfDue(h.clock.Now(), h.policy.ExpiryWindow) {
				return false, nil
			}
			return true, h.save(ctx, intro, sharedDomain.SystemActor)
		})
		if err != nil {
			h.logger.Warn("failed to expire introduction", "introduction_id", candidate.ID(), "error", err)
			continue
		}
		if changed {
			expired++
		}
	}
	return expired, nil
}

package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RetryMeetingLinkCommand asks for another link attempt.
type RetryMeetingLinkCommand struct {
	Actor       sharedDomain.Actor
	InterviewID uuid.UUID
}

// RetryPendingLinksCommand retries every upcoming interview still missing a link.
type RetryPendingLinksCommand struct {
	Limit int
}

// RetryMeetingLinkHandler handles manual and swept link retries.
type RetryMeetingLinkHandler struct {
	repo  domain.Repository
	uow   sharedApplication.UnitOfWork
	clock sharedDomain.Clock
	links linkAttacher
}

// NewRetryMeetingLinkHandler creates a new handler.
func NewRetryMeetingLinkHandler(
	repo domain.Repository,
	provisioner *services.LinkProvisioner,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *RetryMeetingLinkHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryMeetingLinkHandler{
		repo:  repo,
		uow:   uow,
		clock: clock,
		links: linkAttacher{repo: repo, provisioner: provisioner, outboxRepo: outboxRepo, uow: uow, clock: clock, logger: logger},
	}
}

// Handle executes a manual retry and returns the interview with the outcome.
func (h *RetryMeetingLinkHandler) Handle(ctx context.Context, cmd RetryMeetingLinkCommand) (*domain.Interview, error) {
	interview, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (*domain.Interview, error) {
		interview, err := load(ctx, h.repo, cmd.InterviewID, nil)
		if err != nil {
			return nil, err
		}
		if err := interview.RequestMeetingLinkRetry(cmd.Actor, h.clock.Now()); err != nil {
			return nil, err
		}
		if err := h.repo.Save(ctx, interview); err != nil {
			return nil, err
		}
		return interview, nil
	})
	if err != nil {
		return nil, err
	}
	return h.links.attach(ctx, interview)
}

// RetryPending re-attempts links for upcoming interviews and returns how
// many now have one.
func (h *RetryMeetingLinkHandler) RetryPending(ctx context.Context, cmd RetryPendingLinksCommand) (int, error) {
	interviews, err := h.repo.FindNeedingLink(ctx, h.clock.Now(), cmd.Limit)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, interview := range interviews {
		result, err := h.links.attach(ctx, interview)
		if err != nil {
			h.links.logger.Error("meeting link retry failed", "interview_id", interview.ID(), "error", err)
			continue
		}
		if result.MeetingLinkStatus() == domain.LinkCreated {
			created++
		}
	}
	return created, nil
}

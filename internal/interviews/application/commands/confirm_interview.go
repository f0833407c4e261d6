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

// ConfirmInterviewCommand is the employer's final choice of slot,
// interviewer and platform.
type ConfirmInterviewCommand struct {
	Actor           sharedDomain.Actor
	InterviewID     uuid.UUID
	ExpectedVersion *int
	SlotID          *uuid.UUID
	InterviewerID   string
	Platform        string
}

// ConfirmInterviewHandler handles ConfirmInterviewCommand.
type ConfirmInterviewHandler struct {
	repo       domain.Repository
	roster     services.TeamRoster
	progress   IntroductionProgress
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
	links      linkAttacher
	logger     *slog.Logger
}

// NewConfirmInterviewHandler creates a new handler. provisioner and progress
// may be nil; the link then stays pending for the retry sweep.
func NewConfirmInterviewHandler(
	repo domain.Repository,
	roster services.TeamRoster,
	provisioner *services.LinkProvisioner,
	progress IntroductionProgress,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *ConfirmInterviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfirmInterviewHandler{
		repo:       repo,
		roster:     roster,
		progress:   progress,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		links:      linkAttacher{repo: repo, provisioner: provisioner, outboxRepo: outboxRepo, uow: uow, clock: clock, logger: logger},
		logger:     logger,
	}
}

// Handle executes the command. The returned interview reflects the meeting
// link outcome.
func (h *ConfirmInterviewHandler) Handle(ctx context.Context, cmd ConfirmInterviewCommand) (*domain.Interview, error) {
	current, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
	if err != nil {
		return nil, err
	}
	roster, err := h.roster.Members(ctx, current.EmployerID())
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	interview, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(ctx context.Context) (*domain.Interview, error) {
		interview, err := load(ctx, h.repo, cmd.InterviewID, cmd.ExpectedVersion)
		if err != nil {
			return nil, err
		}
		confirmation := domain.Confirmation{SlotID: cmd.SlotID, InterviewerID: cmd.InterviewerID, Platform: cmd.Platform}
		if err := interview.Confirm(cmd.Actor, confirmation, roster, now); err != nil {
			return nil, err
		}
		if err := h.repo.Save(ctx, interview); err != nil {
			return nil, err
		}
		if err := sharedApplication.RecordEvents(ctx, h.outboxRepo, interview, cmd.Actor); err != nil {
			return nil, err
		}
		return interview, nil
	})
	if err != nil {
		return nil, err
	}

	if h.progress != nil {
		if err := h.progress.MarkInterviewing(ctx, interview.CandidateID(), interview.EmployerID()); err != nil {
			h.logger.Warn("failed to advance introduction",
				"interview_id", interview.ID(),
				"candidate_id", interview.CandidateID(),
				"error", err,
			)
		}
	}

	linked, err := h.links.attach(ctx, interview)
	if err != nil {
		h.logger.Error("failed to record meeting link outcome", "interview_id", interview.ID(), "error", err)
		return interview, nil
	}
	return linked, nil
}

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/hireflow/internal/interviews/application/services"
	"github.com/felixgeelhaar/hireflow/internal/interviews/domain"
	sharedApplication "github.com/felixgeelhaar/hireflow/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
)

// linkAttacher provisions a meeting link for a scheduled interview and
// records the outcome in its own transaction. A failure never undoes the
// schedule.
type linkAttacher struct {
	repo        domain.Repository
	provisioner *services.LinkProvisioner
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedDomain.Clock
	logger      *slog.Logger
}

func (a *linkAttacher) attach(ctx context.Context, interview *domain.Interview) (*domain.Interview, error) {
	if a.provisioner == nil || !interview.NeedsMeetingLink() {
		return interview, nil
	}

	scheduledAt := *interview.ScheduledAt()
	req := services.MeetingRequest{
		InterviewID:   interview.ID(),
		EmployerID:    interview.EmployerID(),
		InterviewerID: *interview.InterviewerID(),
		Topic:         fmt.Sprintf("Interview %s", interview.ApplicationID()),
		Start:         scheduledAt,
		Duration:      interview.Duration(),
	}
	link, kind, provisionErr := a.provisioner.Provision(ctx, *interview.MeetingPlatform(), req)
	if provisionErr != nil {
		a.logger.Warn("meeting link creation failed",
			"interview_id", interview.ID(),
			"platform", *interview.MeetingPlatform(),
			"kind", kind,
			"error", provisionErr,
		)
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, a.uow, func(ctx context.Context) (*domain.Interview, error) {
		fresh, err := load(ctx, a.repo, interview.ID(), nil)
		if err != nil {
			return nil, err
		}
		// A reschedule or cancel in between makes this result obsolete.
		if !fresh.NeedsMeetingLink() || !fresh.ScheduledAt().Equal(scheduledAt) {
			return fresh, nil
		}

		now := a.clock.Now()
		if provisionErr != nil {
			err = fresh.RecordMeetingLinkFailure(kind, now)
		} else {
			err = fresh.RecordMeetingLink(link, now)
		}
		if err != nil {
			return nil, err
		}
		if err := a.repo.Save(ctx, fresh); err != nil {
			return nil, err
		}
		if err := sharedApplication.RecordEvents(ctx, a.outboxRepo, fresh, sharedDomain.SystemActor); err != nil {
			return nil, err
		}
		return fresh, nil
	})
}

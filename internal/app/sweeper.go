package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	interviewCommands "github.com/felixgeelhaar/hireflow/internal/interviews/application/commands"
	introCommands "github.com/felixgeelhaar/hireflow/internal/introductions/application/commands"
	"github.com/felixgeelhaar/hireflow/pkg/observability"
	"github.com/robfig/cron/v3"
)

// Sweep names, used as the "sweep" metric tag.
const (
	SweepIntroductions = "introductions"
	SweepInterviews    = "interviews"
	SweepMeetingLinks  = "meeting_links"
	SweepOutbox        = "outbox_cleanup"
)

// SweepResult reports one sweep's outcome.
type SweepResult struct {
	Name      string
	Processed int
	Err       error
}

// Sweeper runs the periodic expiry, link retry and outbox cleanup jobs.
type Sweeper struct {
	container *Container
	cron      *cron.Cron
	spec      string
	batchSize int
	logger    *slog.Logger
	startup   sync.WaitGroup

	mu      sync.Mutex
	lastRun time.Time
	last    []SweepResult
}

// NewSweeper creates a sweeper on the container's SweepSchedule.
func NewSweeper(c *Container) *Sweeper {
	spec := c.Config.SweepSchedule
	if spec == "" {
		spec = "@every 5m"
	}
	batch := c.Config.SweepBatchSize
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{
		container: c,
		cron:      cron.New(),
		spec:      spec,
		batchSize: batch,
		logger:    c.Logger.With("component", "sweeper"),
	}
}

// Start registers the sweep job and starts the scheduler. One sweep runs
// immediately so a restarted worker catches up without waiting a tick; it
// shares the skip-if-running guard with the scheduled runs.
func (s *Sweeper) Start(ctx context.Context) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).
		Then(cron.FuncJob(func() { s.RunOnce(ctx) }))
	if _, err := s.cron.AddJob(s.spec, job); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("sweeper started", "schedule", s.spec, "batch_size", s.batchSize)

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		job.Run()
	}()
	return nil
}

// Stop halts the scheduler and waits for running sweeps, including the
// startup one, to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.startup.Wait()
	s.logger.Info("sweeper stopped")
}

// RunOnce runs every sweep in order. A failing sweep does not stop the others.
func (s *Sweeper) RunOnce(ctx context.Context) []SweepResult {
	c := s.container
	jobs := []struct {
		name string
		run  func(context.Context) (int, error)
	}{
		{SweepIntroductions, func(ctx context.Context) (int, error) {
			return c.ExpireIntroductionsHandler.Handle(ctx, introCommands.ExpireIntroductionsCommand{Limit: s.batchSize})
		}},
		{SweepInterviews, func(ctx context.Context) (int, error) {
			return c.ExpireInterviewsHandler.Handle(ctx, interviewCommands.ExpireStaleInterviewsCommand{Limit: s.batchSize})
		}},
		{SweepMeetingLinks, func(ctx context.Context) (int, error) {
			return c.RetryMeetingLinkHandler.RetryPending(ctx, interviewCommands.RetryPendingLinksCommand{Limit: s.batchSize})
		}},
		{SweepOutbox, func(ctx context.Context) (int, error) {
			days := c.Config.OutboxRetentionDays
			if days <= 0 {
				days = 14
			}
			deleted, err := c.Repos.Outbox.DeleteOld(ctx, days)
			return int(deleted), err
		}},
	}

	results := make([]SweepResult, 0, len(jobs))
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		tag := observability.T("sweep", job.name)
		timer := observability.StartTimer("sweep", nil, c.Metrics, tag)
		n, err := job.run(ctx)
		timer.Stop(err)
		if err != nil {
			c.Metrics.Counter(observability.MetricSweepFailures, 1, tag)
			s.logger.Error("sweep failed", "sweep", job.name, "error", err)
		} else if n > 0 {
			c.Metrics.Counter(observability.MetricSweepProcessed, int64(n), tag)
			s.logger.Info("sweep processed", "sweep", job.name, "count", n)
		}
		results = append(results, SweepResult{Name: job.name, Processed: n, Err: err})
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.last = results
	s.mu.Unlock()
	return results
}

// LastRun returns when the last sweep finished and its results.
func (s *Sweeper) LastRun() (time.Time, []SweepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, append([]SweepResult(nil), s.last...)
}

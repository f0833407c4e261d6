package app

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/hireflow/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RunOnce(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(ctx, localConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	metrics := observability.NewInMemoryMetrics()
	c.Metrics = metrics

	sweeper := NewSweeper(c)
	results := sweeper.RunOnce(ctx)

	require.Len(t, results, 4)
	names := make([]string, 0, len(results))
	for _, r := range results {
		assert.NoError(t, r.Err, r.Name)
		assert.Zero(t, r.Processed, r.Name)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{SweepIntroductions, SweepInterviews, SweepMeetingLinks, SweepOutbox}, names)
	assert.Len(t, metrics.GetTimings(observability.MetricOperationDuration, observability.T(observability.OperationKey, "sweep"), observability.T("sweep", SweepInterviews)), 1)
	assert.Zero(t, metrics.GetCounter(observability.MetricSweepFailures, observability.T("sweep", SweepInterviews)))

	at, last := sweeper.LastRun()
	assert.False(t, at.IsZero())
	assert.Len(t, last, 4)
}

func TestSweeper_CancelledContextSkipsJobs(t *testing.T) {
	c, err := NewContainer(context.Background(), localConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, NewSweeper(c).RunOnce(ctx))
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	cfg := localConfig(t)
	cfg.SweepSchedule = "every now and then"
	c, err := NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	sweeper := NewSweeper(c)
	assert.Error(t, sweeper.Start(context.Background()))
}

func TestSweeper_StopWaitsForStartupSweep(t *testing.T) {
	cfg := localConfig(t)
	cfg.SweepSchedule = "@every 1h"
	c, err := NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()
	metrics := observability.NewInMemoryMetrics()
	c.Metrics = metrics

	sweeper := NewSweeper(c)
	require.NoError(t, sweeper.Start(context.Background()))
	sweeper.Stop()

	at, last := sweeper.LastRun()
	assert.False(t, at.IsZero())
	assert.Len(t, last, 4)
	assert.Len(t, metrics.GetTimings(observability.MetricOperationDuration, observability.T(observability.OperationKey, "sweep"), observability.T("sweep", SweepOutbox)), 1)
}

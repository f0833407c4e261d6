package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation and reports it on Stop.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
	tags      []Tag
}

// StartTimer starts timing operation. A nil logger or metrics skips that sink.
func StartTimer(operation string, logger *slog.Logger, metrics Metrics, tags ...Tag) *Timer {
	return &Timer{
		operation: operation,
		start:     time.Now(),
		logger:    logger,
		metrics:   metrics,
		tags:      append([]Tag{T(OperationKey, operation)}, tags...),
	}
}

// Stop records duration, total and (when err is set) error metrics.
// Successes log at debug so periodic jobs stay quiet.
func (t *Timer) Stop(err error) time.Duration {
	d := time.Since(t.start)
	if t.metrics != nil {
		t.metrics.Timing(MetricOperationDuration, d, t.tags...)
		t.metrics.Counter(MetricOperationTotal, 1, t.tags...)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, t.tags...)
		}
	}
	if t.logger != nil {
		if err != nil {
			t.logger.Warn("operation failed", OperationKey, t.operation, DurationKey, d.Milliseconds(), ErrorKey, err)
		} else {
			t.logger.Debug("operation completed", OperationKey, t.operation, DurationKey, d.Milliseconds())
		}
	}
	return d
}

// Observe times fn under operation.
func Observe(ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func(context.Context) error, tags ...Tag) error {
	timer := StartTimer(operation, logger, metrics, tags...)
	err := fn(ctx)
	timer.Stop(err)
	return err
}

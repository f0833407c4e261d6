package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/hireflow/pkg/observability"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
)

// requestContext attaches request and correlation IDs to the request context
// and echoes them back to the caller.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), r.Header.Get(headerRequestID))
		ctx = observability.WithCorrelationID(ctx, r.Header.Get(headerCorrelationID))
		if id := r.Header.Get(headerActorID); id != "" {
			ctx = observability.WithActor(ctx, r.Header.Get(headerActorRole)+":"+id)
		}

		w.Header().Set(headerRequestID, observability.RequestIDFromContext(ctx))
		w.Header().Set(headerCorrelationID, observability.CorrelationIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument logs each request and records its count and latency.
func instrument(next http.Handler, logger *slog.Logger, metrics observability.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		tags := []observability.Tag{
			observability.T("route", route),
			observability.T("status", strconv.Itoa(rec.status)),
		}
		metrics.Counter(observability.MetricHTTPRequests, 1, tags...)
		metrics.Timing(observability.MetricHTTPDuration, elapsed, tags...)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "http request",
			"method", r.Method,
			"route", route,
			observability.StatusKey, rec.status,
			observability.DurationKey, elapsed.Milliseconds(),
		)
	})
}

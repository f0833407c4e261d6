package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/hireflow/internal/app"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	"github.com/felixgeelhaar/hireflow/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.ConfigFor("", "info", "hireflow-worker", os.Stdout))

	logger.Info("starting hireflow worker")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = observability.NewLogger(observability.ConfigFor(cfg.AppEnv, cfg.LogLevel, "hireflow-worker", os.Stdout))

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// The worker always relays the outbox, whatever the CLI setting.
	container.OutboxProcessor.Start(ctx)

	sweeper := app.NewSweeper(container)
	if err := sweeper.Start(ctx); err != nil {
		logger.Error("failed to start sweeper", "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthMux(container, sweeper),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down worker")
}

func healthMux(container *app.Container, sweeper *app.Sweeper) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := container.OutboxProcessor.Stats()
		lastSweep, results := sweeper.LastRun()
		sweeps := make(map[string]any, len(results))
		for _, res := range results {
			entry := map[string]any{"processed": res.Processed}
			if res.Err != nil {
				entry["error"] = res.Err.Error()
			}
			sweeps[res.Name] = entry
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":            "ok",
			"outbox_running":    stats.Running,
			"published":         stats.Published,
			"failed":            stats.Failed,
			"dead":              stats.DeadLettered,
			"last_processed_at": stats.LastProcessedAt,
			"last_error":        stats.LastError,
			"last_sweep_at":     lastSweep,
			"sweeps":            sweeps,
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		overall := container.Health.GetOverallHealth(checkCtx)
		w.Header().Set("Content-Type", "application/json")
		if overall.Status == observability.HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(overall)
	})

	if m, ok := container.Metrics.(*observability.InMemoryMetrics); ok {
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(m.Snapshot())
		})
	}
	return mux
}

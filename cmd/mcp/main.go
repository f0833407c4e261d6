package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/internal/app"
	mcpinternal "github.com/felixgeelhaar/hireflow/internal/mcp"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	"github.com/felixgeelhaar/hireflow/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.ConfigFor("", "info", "hireflow-mcp", os.Stdout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = observability.NewLogger(observability.ConfigFor(cfg.AppEnv, cfg.LogLevel, "hireflow-mcp", os.Stdout))

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	actor, err := sharedDomain.ParseActor(cfg.DefaultActor)
	if err != nil {
		logger.Error("invalid HIREFLOW_ACTOR", "error", err)
		os.Exit(1)
	}

	container.StartOutbox(ctx)
	cliApp := cli.NewApp(container, actor)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

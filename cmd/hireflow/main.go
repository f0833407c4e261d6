package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/hireflow/adapter/cli/candidate"
	"github.com/felixgeelhaar/hireflow/adapter/cli/interview"
	"github.com/felixgeelhaar/hireflow/adapter/cli/intro"
	"github.com/felixgeelhaar/hireflow/adapter/cli/mcp"
	"github.com/felixgeelhaar/hireflow/adapter/cli/server"
	"github.com/felixgeelhaar/hireflow/adapter/cli/team"
	"github.com/felixgeelhaar/hireflow/internal/app"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	"github.com/felixgeelhaar/hireflow/pkg/observability"
)

func main() {
	// CLI output owns stdout; logs stay quiet on stderr unless asked for.
	logger := observability.NewLogger(observability.ConfigFor("", "warn", "hireflow", os.Stderr))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development", DefaultActor: "admin:cli"}
	}

	if cfg.LogLevel == "debug" {
		logger = observability.NewLogger(observability.ConfigFor(cfg.AppEnv, "debug", "hireflow", os.Stderr))
	}
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// Commands report "application not initialized" instead of crashing.
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		actor, err := sharedDomain.ParseActor(cfg.DefaultActor)
		if err != nil {
			logger.Error("invalid HIREFLOW_ACTOR", "error", err)
			os.Exit(1)
		}
		cliApp = cli.NewApp(container, actor)
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(interview.Cmd)
	cli.AddCommand(intro.Cmd)
	cli.AddCommand(team.Cmd)
	cli.AddCommand(candidate.Cmd)
	cli.AddCommand(server.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}

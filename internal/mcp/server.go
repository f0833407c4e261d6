// Package mcp runs the hireflow tool server over streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	mcplocal "github.com/felixgeelhaar/hireflow/adapter/mcp"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"
)

var (
	errNoConfig = errors.New("config is required")
	errNoApp    = errors.New("CLI app is required")
)

// Serve exposes the CLI operations as MCP tools on cfg.MCPAddr and blocks
// until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, cliApp *cli.App, logger *slog.Logger) error {
	switch {
	case cfg == nil:
		return errNoConfig
	case cliApp == nil:
		return errNoApp
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "mcp")

	srv, err := mcplocal.NewServer(mcplocal.ToolDependencies{App: cliApp, Logger: logger}, cli.Version)
	if err != nil {
		return err
	}
	if cfg.MCPAuthToken == "" {
		logger.Warn("MCP_AUTH_TOKEN not set; any client may act as the default actor", "actor", cliApp.Actor.String())
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "actor", cliApp.Actor.String())
	stack := Middleware(cfg.MCPAuthToken, cliApp.Actor, logger)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

// Middleware returns the request pipeline. A non-empty token puts bearer
// authentication in front; the caller is identified as the default actor.
func Middleware(token string, actor sharedDomain.Actor, logger *slog.Logger) []middleware.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	log := slogAdapter{logger: logger}
	stack := middleware.DefaultStack(log)
	if token == "" {
		return stack
	}
	identities := middleware.StaticTokens(map[string]*middleware.Identity{
		token: {ID: actor.ID, Name: actor.String()},
	})
	auth := middleware.Auth(middleware.BearerTokenAuthenticator(identities), middleware.WithAuthLogger(log))
	return append([]middleware.Middleware{auth}, stack...)
}

// slogAdapter satisfies the mcp-go middleware logger.
type slogAdapter struct {
	logger *slog.Logger
}

func (l slogAdapter) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, args(fields)...)
}
func (l slogAdapter) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, args(fields)...)
}
func (l slogAdapter) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, args(fields)...)
}
func (l slogAdapter) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, args(fields)...)
}

func args(fields []middleware.Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}

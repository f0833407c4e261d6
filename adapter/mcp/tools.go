// Package mcp exposes the interview and introduction workflows as MCP tools.
package mcp

import (
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App    *cli.App
	Logger *slog.Logger
}

// NewServer builds an MCP server with every tool, resource and prompt registered.
func NewServer(deps ToolDependencies, version string) (*mcp.Server, error) {
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "hireflow-mcp",
		Version: version,
		Capabilities: mcp.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	if err := RegisterCLITools(srv, deps); err != nil {
		return nil, err
	}
	if err := RegisterResources(srv, deps); err != nil {
		return nil, err
	}
	if err := RegisterPrompts(srv); err != nil {
		return nil, err
	}
	return srv, nil
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	tools := newToolset(deps)
	registerCoreTools(srv, tools)
	registerInterviewTools(srv, tools)
	registerIntroductionTools(srv, tools)
	registerTeamTools(srv, tools)
	return nil
}

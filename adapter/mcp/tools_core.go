package mcp

import (
	"context"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

type whoamiInput struct {
	As string `json:"as,omitempty"`
}

type whoamiOutput struct {
	Role    string `json:"role"`
	ID      string `json:"id"`
	Version string `json:"version"`
}

func registerCoreTools(srv *mcp.Server, t *toolset) {
	srv.Tool("cli.whoami").
		Description("Show the identity tools act as and the server version").
		Handler(t.whoami)
}

func (t *toolset) whoami(ctx context.Context, input whoamiInput) (*whoamiOutput, error) {
	actor, err := t.actor(input.As)
	if err != nil {
		return nil, toolError(err)
	}
	return &whoamiOutput{Role: string(actor.Role), ID: actor.ID, Version: cli.Version}, nil
}

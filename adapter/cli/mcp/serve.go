package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/hireflow/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server on MCP_ADDR. Tools act as --as (or HIREFLOW_ACTOR)
unless a call passes its own "as" argument. Set MCP_AUTH_TOKEN to require
a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		actor, err := cli.CurrentActor()
		if err != nil {
			return err
		}
		app.Actor = actor

		container := app.Container
		ctx := cmd.Context()
		container.StartOutbox(ctx)

		err = mcpinternal.Serve(ctx, container.Config, app, container.Logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// Package server provides the command that runs the HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/felixgeelhaar/hireflow/adapter/api"
	"github.com/felixgeelhaar/hireflow/adapter/cli"
	internalApp "github.com/felixgeelhaar/hireflow/internal/app"
	"github.com/spf13/cobra"
)

var addr string

// Cmd starts the HTTP API and the outbox processor.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on HTTP_ADDR (or --addr). Requests identify the
caller with the X-Actor-Role and X-Actor-ID headers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		container := app.Container
		ctx := cmd.Context()

		cfg := api.DefaultServerConfig()
		cfg.Addr = container.Config.HTTPAddr
		if addr != "" {
			cfg.Addr = addr
		}
		srv := api.NewServer(cfg, api.HandlersFromContainer(container), container.Logger)

		container.StartOutbox(ctx)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), internalApp.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
}

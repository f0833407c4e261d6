package team

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	internalApp "github.com/felixgeelhaar/hireflow/internal/app"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{AppEnv: "test", SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(container, sharedDomain.NewActor(sharedDomain.RoleEmployer, "acme"))
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	employerID = ""
	return app
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return buf.String(), err
}

func TestTeamCommands(t *testing.T) {
	app := setupLocalModeTestApp(t)

	memberName, memberEmail = "Grace Hopper", "grace@acme.test"
	out, err := run(t, addCmd, "int-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added int-1 to acme")

	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Grace Hopper")

	employerID = "globex"
	_, err = run(t, addCmd, "int-2")
	assert.Equal(t, sharedDomain.KindForbidden, sharedDomain.KindOf(err))

	app.Actor = sharedDomain.NewActor(sharedDomain.RoleAdmin, "ops")
	_, err = run(t, addCmd, "int-2")
	require.NoError(t, err)

	employerID = "acme"
	_, err = run(t, removeCmd, "int-1")
	require.NoError(t, err)
	out, err = run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No team members.")
}

package mcp

import (
	"bytes"
	"context"
	"testing"

	"github.com/felixgeelhaar/hireflow/adapter/cli"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/pkg/config"
	"github.com/felixgeelhaar/hireflow/pkg/observability"
	"github.com/stretchr/testify/assert"
)

func TestServe_RequiresDependencies(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, Serve(ctx, nil, &cli.App{}, nil), errNoConfig)
	assert.ErrorIs(t, Serve(ctx, &config.Config{}, nil, nil), errNoApp)
}

func TestMiddleware_AuthOnlyWithToken(t *testing.T) {
	actor := sharedDomain.Actor{Role: sharedDomain.RoleEmployer, ID: "acme"}
	open := Middleware("", actor, nil)
	guarded := Middleware("secret", actor, nil)
	assert.Len(t, guarded, len(open)+1)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	log := slogAdapter{logger: observability.NewLogger(observability.LogConfig{Level: observability.LogLevelDebug, Output: &buf})}
	log.Warn("token rejected")
	log.Debug("request", nil...)
	assert.Contains(t, buf.String(), "token rejected")
	assert.Empty(t, args(nil))
}

package mcp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/felixgeelhaar/hireflow/adapter/cli"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

// toolset holds the tool implementations so they can be called without a transport.
type toolset struct {
	app    *cli.App
	logger *slog.Logger
}

func newToolset(deps ToolDependencies) *toolset {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &toolset{app: deps.App, logger: logger}
}

// actor resolves the "as" input, defaulting to the server's configured actor.
// The system role is reserved for sweeps.
func (t *toolset) actor(as string) (sharedDomain.Actor, error) {
	if as == "" {
		return t.app.Actor, nil
	}
	actor, err := sharedDomain.ParseActor(as)
	if err != nil {
		return sharedDomain.Actor{}, err
	}
	if actor.Is(sharedDomain.RoleSystem) {
		return sharedDomain.Actor{}, sharedDomain.NewForbiddenError("act as the system", actor.Role)
	}
	return actor, nil
}

// toolError prefixes the error kind and appends any hint so clients can
// tell a conflict from a bad request.
func toolError(err error) error {
	if err == nil {
		return nil
	}
	kind := sharedDomain.KindOf(err)
	if hint := sharedDomain.Hint(err); hint != "" {
		return fmt.Errorf("[%s] %w (hint: %s)", kind, err, hint)
	}
	return fmt.Errorf("[%s] %w", kind, err)
}

func parseUUID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, errors.Wrapf(sharedDomain.ErrInvalidInput, "%s is required", field)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.Wrapf(sharedDomain.ErrInvalidInput, "invalid %s %q", field, value)
	}
	return id, nil
}

func parseOptionalTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.WithHint(
			errors.Wrapf(sharedDomain.ErrInvalidInput, "invalid %s %q", field, value),
			"use RFC 3339, e.g. 2026-03-02T15:00:00Z",
		)
	}
	return parsed, nil
}

func optionalVersion(v *int) *int {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

package domain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Role identifies which party performs an action.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
	RoleSystem    Role = "system"
)

// ParseRole converts a raw role string into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCandidate, RoleEmployer, RoleAdmin, RoleSystem:
		return Role(raw), nil
	default:
		return "", errors.Wrapf(ErrInvalidInput, "unknown actor role %q", raw)
	}
}

// Actor is the identity performing a state transition.
type Actor struct {
	Role Role
	ID   string
}

// SystemActor is used by sweeps and internal reactions.
var SystemActor = Actor{Role: RoleSystem, ID: "system"}

// NewActor creates an actor.
func NewActor(role Role, id string) Actor {
	return Actor{Role: role, ID: id}
}

// Is reports whether the actor has one of the given roles.
func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Require returns ErrForbidden unless the actor has one of the given roles.
func (a Actor) Require(action string, roles ...Role) error {
	if a.Is(roles...) {
		return nil
	}
	return NewForbiddenError(action, a.Role)
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.Role, a.ID)
}

// ParseActor parses the "role:id" form produced by String.
func ParseActor(raw string) (Actor, error) {
	roleText, id, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || id == "" {
		return Actor{}, errors.WithHint(
			errors.Wrapf(ErrInvalidInput, "malformed actor %q", raw),
			"use the form role:id, e.g. employer:acme",
		)
	}
	role, err := ParseRole(roleText)
	if err != nil {
		return Actor{}, err
	}
	return NewActor(role, id), nil
}

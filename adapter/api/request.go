package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	headerActorRole = "X-Actor-Role"
	headerActorID   = "X-Actor-ID"
	headerIfMatch   = "If-Match"

	maxBodyBytes = 1 << 20
)

// actorFromRequest reads the caller's identity from the actor headers.
func actorFromRequest(r *http.Request) (sharedDomain.Actor, error) {
	role, err := sharedDomain.ParseRole(r.Header.Get(headerActorRole))
	if err != nil {
		return sharedDomain.Actor{}, errors.WithHint(err, "Set X-Actor-Role to candidate, employer or admin.")
	}
	if role == sharedDomain.RoleSystem {
		return sharedDomain.Actor{}, sharedDomain.NewForbiddenError("act as the system over HTTP", role)
	}
	id := strings.TrimSpace(r.Header.Get(headerActorID))
	if id == "" {
		return sharedDomain.Actor{}, sharedDomain.NewInvalidInputError("missing actor id", "Set the X-Actor-ID header.")
	}
	return sharedDomain.NewActor(role, id), nil
}

// expectedVersion reads the optimistic concurrency token from If-Match,
// falling back to the body's expectedVersion field.
func expectedVersion(r *http.Request, fromBody *int) (*int, error) {
	raw := strings.Trim(strings.TrimSpace(r.Header.Get(headerIfMatch)), `"`)
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		return fromBody, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return nil, sharedDomain.NewInvalidInputError("If-Match must be a version number", "Send the version from the last read.")
	}
	return &v, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, sharedDomain.NewInvalidInputError(name+" must be a UUID", "")
	}
	return id, nil
}

// decodeJSON decodes an optional JSON body into dst. Unknown fields are rejected.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return sharedDomain.NewInvalidInputError("malformed request body: "+err.Error(), "")
	}
	return nil
}

func setVersion(w http.ResponseWriter, version int) {
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(version)))
}

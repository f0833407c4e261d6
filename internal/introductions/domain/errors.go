package domain

import (
	"time"

	"github.com/cockroachdb/errors"
	sharedDomain "github.com/felixgeelhaar/hireflow/internal/shared/domain"
)

// NewAlreadyRequestedError reports a duplicate pending request.
func NewAlreadyRequestedError(requestedAt time.Time) error {
	err := errors.Wrapf(sharedDomain.ErrAlreadyRequested, "introduction requested at %s", requestedAt.Format(time.RFC3339))
	return errors.WithHint(err, "Wait for the candidate to respond.")
}

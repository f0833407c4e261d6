package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Sentinel errors shared by every bounded context. Context-specific errors
// wrap one of these so adapters can classify them with KindOf.
var (
	ErrPastTime            = errors.New("time slot is in the past")
	ErrBusyConflict        = errors.New("time slot conflicts with a busy period")
	ErrAlreadyRequested    = errors.New("already requested")
	ErrIncompleteSelection = errors.New("selection is incomplete")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrStaleState          = errors.New("state changed since it was read")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("action not permitted")
	ErrInvalidInput        = errors.New("invalid input")
)

// ErrorKind is the stable, machine-readable classification of an error.
type ErrorKind string

const (
	KindPastTime            ErrorKind = "PastTime"
	KindBusyConflict        ErrorKind = "BusyConflict"
	KindAlreadyRequested    ErrorKind = "AlreadyRequested"
	KindIncompleteSelection ErrorKind = "IncompleteSelection"
	KindInvalidTransition   ErrorKind = "InvalidTransition"
	KindStaleState          ErrorKind = "StaleState"
	KindNotFound            ErrorKind = "NotFound"
	KindForbidden           ErrorKind = "Forbidden"
	KindInvalidInput        ErrorKind = "InvalidInput"
	KindInternal            ErrorKind = "Internal"
)

var kindSentinels = []struct {
	kind     ErrorKind
	sentinel error
}{
	{KindBusyConflict, ErrBusyConflict},
	{KindPastTime, ErrPastTime},
	{KindAlreadyRequested, ErrAlreadyRequested},
	{KindIncompleteSelection, ErrIncompleteSelection},
	{KindInvalidTransition, ErrInvalidTransition},
	{KindStaleState, ErrStaleState},
	{KindNotFound, ErrNotFound},
	{KindForbidden, ErrForbidden},
	{KindInvalidInput, ErrInvalidInput},
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.sentinel) {
			return ks.kind
		}
	}
	return KindInternal
}

// Hint returns the user-facing hints attached to err, joined by newlines.
func Hint(err error) string {
	return errors.FlattenHints(err)
}

// BusyConflictError carries the label of the busy period a slot collided with.
type BusyConflictError struct {
	Label string
	Start time.Time
	End   time.Time
}

func (e *BusyConflictError) Error() string {
	label := e.Label
	if label == "" {
		label = "busy"
	}
	return fmt.Sprintf("time slot conflicts with %q (%s - %s)",
		label, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrBusyConflict) succeed for every label.
func (e *BusyConflictError) Is(target error) bool {
	return target == ErrBusyConflict
}

// NewBusyConflictError builds a labeled conflict error.
func NewBusyConflictError(label string, start, end time.Time) error {
	err := errors.Mark(&BusyConflictError{Label: label, Start: start, End: end}, ErrBusyConflict)
	return errors.WithHintf(err, "Pick a time that does not overlap %q.", labelOrDefault(label))
}

// BusyConflictLabel extracts the conflicting label from err.
func BusyConflictLabel(err error) (string, bool) {
	var conflict *BusyConflictError
	if errors.As(err, &conflict) {
		return conflict.Label, true
	}
	return "", false
}

// NewPastTimeError reports a slot that does not start in the future.
func NewPastTimeError(start, now time.Time) error {
	err := errors.Wrapf(ErrPastTime, "slot starting %s is not after %s",
		start.Format(time.RFC3339), now.Format(time.RFC3339))
	return errors.WithHint(err, "Choose a time slot that starts in the future.")
}

// NewInvalidTransitionError reports an action that is not legal in the current status.
func NewInvalidTransitionError(entity, from, action string) error {
	err := errors.Wrapf(ErrInvalidTransition, "cannot %s %s in status %s", action, entity, from)
	return errors.WithHintf(err, "Reload the %s; it is currently %s.", entity, from)
}

// NewIncompleteSelectionError names the missing selection fields.
func NewIncompleteSelectionError(missing ...string) error {
	err := errors.Wrapf(ErrIncompleteSelection, "missing %s", strings.Join(missing, " and "))
	return errors.WithHintf(err, "Provide %s before confirming.", strings.Join(missing, " and "))
}

// NewStaleStateError reports a version mismatch on an aggregate.
func NewStaleStateError(id uuid.UUID, expected, actual int) error {
	err := errors.Wrapf(ErrStaleState, "aggregate %s is at version %d, expected %d", id, actual, expected)
	return errors.WithHint(err, "Someone else changed this record. Reload and try again.")
}

// NewConcurrentCreateError reports a record that another request created
// first under the same natural key.
func NewConcurrentCreateError(entity, key string) error {
	err := errors.Wrapf(ErrStaleState, "%s %s was created concurrently", entity, key)
	return errors.WithHint(err, "Someone else changed this record. Reload and try again.")
}

// NewForbiddenError reports an actor role that may not perform the action.
func NewForbiddenError(action string, role Role) error {
	return errors.Wrapf(ErrForbidden, "%s may not %s", role, action)
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity string, id any) error {
	return errors.Wrapf(ErrNotFound, "%s %v", entity, id)
}

// NewInvalidInputError reports malformed input with a hint.
func NewInvalidInputError(msg, hint string) error {
	err := errors.Wrap(ErrInvalidInput, msg)
	if hint == "" {
		return err
	}
	return errors.WithHint(err, hint)
}

func labelOrDefault(label string) string {
	if label == "" {
		return "an existing commitment"
	}
	return label
}

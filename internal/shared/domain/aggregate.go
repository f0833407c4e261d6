package domain

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is what the application layer needs from an aggregate to
// stage its events in the outbox.
type AggregateRoot interface {
	ID() uuid.UUID
	Version() int
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot carries identity, timestamps, pending events and the
// optimistic concurrency token. Version zero means never persisted;
// repositories bump it on every successful save.
type BaseAggregateRoot struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []DomainEvent
}

// NewBaseAggregateRoot assigns a fresh ID stamped at now.
func NewBaseAggregateRoot(now time.Time) BaseAggregateRoot {
	now = now.UTC()
	return BaseAggregateRoot{id: uuid.New(), createdAt: now, updatedAt: now}
}

// RehydrateBaseAggregateRoot restores persisted identity and version.
func RehydrateBaseAggregateRoot(id uuid.UUID, createdAt, updatedAt time.Time, version int) BaseAggregateRoot {
	return BaseAggregateRoot{id: id, createdAt: createdAt.UTC(), updatedAt: updatedAt.UTC(), version: version}
}

func (a *BaseAggregateRoot) ID() uuid.UUID        { return a.id }
func (a *BaseAggregateRoot) CreatedAt() time.Time { return a.createdAt }
func (a *BaseAggregateRoot) UpdatedAt() time.Time { return a.updatedAt }
func (a *BaseAggregateRoot) Version() int         { return a.version }

// Touch records a state change at now.
func (a *BaseAggregateRoot) Touch(now time.Time) {
	a.updatedAt = now.UTC()
}

// DomainEvents returns the events raised since the last save.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.events
}

// ClearDomainEvents drops pending events once they are staged.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.events = nil
}

// AddDomainEvent queues an event for the outbox.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// SetVersion is called by repositories after a successful save.
func (a *BaseAggregateRoot) SetVersion(version int) {
	a.version = version
}

// CheckVersion returns a StaleState error when expected is set and differs
// from the current version.
func (a *BaseAggregateRoot) CheckVersion(expected *int) error {
	if expected == nil || *expected == a.version {
		return nil
	}
	return NewStaleStateError(a.id, *expected, a.version)
}

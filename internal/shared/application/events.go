package application

import (
	"context"

	"github.com/felixgeelhaar/hireflow/internal/shared/domain"
	"github.com/felixgeelhaar/hireflow/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/hireflow/pkg/observability"
	"github.com/google/uuid"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates command-scoped metadata for domain events. The
// correlation ID is taken from the request context when it holds a UUID.
func NewEventMetadata(ctx context.Context, actor domain.Actor) domain.EventMetadata {
	correlationID, err := uuid.Parse(observability.CorrelationIDFromContext(ctx))
	if err != nil {
		correlationID = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
		ActorID:       actor.ID,
		ActorRole:     string(actor.Role),
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}

// RecordEvents writes the aggregate's pending events to the outbox inside the
// current transaction and clears them from the aggregate.
func RecordEvents(ctx context.Context, repo outbox.Repository, aggregate domain.AggregateRoot, actor domain.Actor) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}

	ApplyEventMetadata(events, NewEventMetadata(ctx, actor))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := repo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	aggregate.ClearDomainEvents()
	return nil
}

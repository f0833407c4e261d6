package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher sends serialized domain events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// LogPublisher writes events to the log instead of a broker. The worker uses
// it when RABBITMQ_URL is not set.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.InfoContext(ctx, "event published", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// RecordingPublisher keeps published events in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []Published
}

// Published is one event captured by RecordingPublisher.
type Published struct {
	RoutingKey string
	Payload    []byte
}

func (p *RecordingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, Published{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// RoutingKeys returns the routing keys seen so far.
func (p *RecordingPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.Events))
	for i, e := range p.Events {
		keys[i] = e.RoutingKey
	}
	return keys
}

// Package events publishes domain events to a message broker. The
// broker is pluggable (RabbitMQ or Google Pub/Sub); publishing is
// best-effort and must never fail the request that produced the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chemist-edu/apiserver/internal/logging"
	"github.com/google/uuid"
)

// Event names emitted by the API server.
const (
	AccountCreated  = "account.created"
	PaymentRecorded = "payment.recorded"
)

// Channel is the broker channel (queue or topic) all events go to.
const Channel = "chemist.events"

// Backend defines the broker-agnostic publish operations.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Envelope is the JSON wire form of a published event.
type Envelope struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher serializes events and hands them to the backend. A nil
// Publisher is valid and drops everything, so callers never need to
// branch on whether events are configured.
type Publisher struct {
	backend Backend
	logger  logging.Logger
}

// NewPublisher constructs a Publisher for the provided backend.
func NewPublisher(backend Backend, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Publisher{backend: backend, logger: logger}
}

// Publish emits a named event with the given payload. Failures are
// logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, name string, payload any) {
	if p == nil || p.backend == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error(ctx, "event payload marshal failed", "event", name, "error", err)
		return
	}

	envelope := Envelope{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error(ctx, "event envelope marshal failed", "event", name, "error", err)
		return
	}

	attrs := map[string]string{"event": name}
	if _, err := p.backend.Publish(ctx, Channel, data, attrs); err != nil {
		p.logger.Error(ctx, "event publish failed", "event", name, "error", err)
	}
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Close()
}

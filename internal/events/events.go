package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crumbhouse/bakery-backend/pkg/logger"
)

type Type string

const (
	OrderCreated             Type = "order.created"
	OrderStatusChanged       Type = "order.status_changed"
	OrderDeleted             Type = "order.deleted"
	CustomOrderCreated       Type = "custom_order.created"
	CustomOrderStatusChanged Type = "custom_order.status_changed"
)

const envelopeVersion = 1

// Envelope is the stable payload published for every event.
type Envelope struct {
	Version     int             `json:"version"`
	EventID     string          `json:"eventId"`
	Type        Type            `json:"type"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Data        json.RawMessage `json:"data"`
}

func NewEnvelope(eventType Type, aggregateID string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		Version:     envelopeVersion,
		EventID:     uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        raw,
	}, nil
}

// Publisher delivers envelopes to a downstream transport.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Envelope) error { return nil }

// Noop returns a publisher that drops every event.
func Noop() Publisher { return noopPublisher{} }

// Emitter publishes after a successful write. Publish failures are logged and
// never surface to the caller.
type Emitter struct {
	pub  Publisher
	logg *logger.Logger
}

func NewEmitter(pub Publisher, logg *logger.Logger) *Emitter {
	if pub == nil {
		pub = Noop()
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Emitter{pub: pub, logg: logg}
}

func (e *Emitter) Emit(ctx context.Context, eventType Type, aggregateID string, data any) {
	if e == nil {
		return
	}
	env, err := NewEnvelope(eventType, aggregateID, data)
	if err == nil {
		err = e.pub.Publish(ctx, env)
	}
	if err != nil {
		fields := map[string]any{"event_type": eventType, "aggregate_id": aggregateID}
		e.logg.WarnErr(e.logg.WithFields(ctx, fields), "events.publish_failed", err)
	}
}

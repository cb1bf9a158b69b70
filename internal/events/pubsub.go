package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// OrderTopic is implemented by the Pub/Sub client.
type OrderTopic interface {
	PublishOrderEvent(ctx context.Context, data []byte, attributes map[string]string) (string, error)
}

// PubSubPublisher sends envelopes to the orders topic.
type PubSubPublisher struct {
	topic OrderTopic
}

func NewPubSubPublisher(topic OrderTopic) *PubSubPublisher {
	return &PubSubPublisher{topic: topic}
}

func (p *PubSubPublisher) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	attrs := map[string]string{
		"event_id":     env.EventID,
		"event_type":   string(env.Type),
		"aggregate_id": env.AggregateID,
		"occurred_at":  env.OccurredAt.Format(time.RFC3339Nano),
	}
	if _, err := p.topic.PublishOrderEvent(ctx, data, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", env.Type, err)
	}
	return nil
}

package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbhouse/bakery-backend/pkg/logger"
)

type recordingTopic struct {
	data  [][]byte
	attrs []map[string]string
	err   error
}

func (r *recordingTopic) PublishOrderEvent(_ context.Context, data []byte, attrs map[string]string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.data = append(r.data, data)
	r.attrs = append(r.attrs, attrs)
	return "msg-1", nil
}

func TestPubSubPublisherSendsEnvelope(t *testing.T) {
	topic := &recordingTopic{}
	emitter := NewEmitter(NewPubSubPublisher(topic), nil)

	emitter.Emit(context.Background(), OrderCreated, "ORD0001", map[string]string{"status": "Preparing"})

	require.Len(t, topic.data, 1)
	var env Envelope
	require.NoError(t, json.Unmarshal(topic.data[0], &env))
	assert.Equal(t, OrderCreated, env.Type)
	assert.Equal(t, "ORD0001", env.AggregateID)
	assert.JSONEq(t, `{"status":"Preparing"}`, string(env.Data))
	assert.Equal(t, "order.created", topic.attrs[0]["event_type"])
	assert.Equal(t, env.EventID, topic.attrs[0]["event_id"])
}

func TestEmitterSwallowsPublishFailures(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf, Format: "json"})
	emitter := NewEmitter(NewPubSubPublisher(&recordingTopic{err: errors.New("unavailable")}), logg)

	emitter.Emit(context.Background(), OrderStatusChanged, "ORD0002", nil)

	assert.Contains(t, buf.String(), "events.publish_failed")
	assert.Contains(t, buf.String(), "unavailable")
}

func TestNilEmitterIsSafe(t *testing.T) {
	var emitter *Emitter
	emitter.Emit(context.Background(), OrderDeleted, "ORD0003", nil)
	NewEmitter(nil, nil).Emit(context.Background(), OrderDeleted, "ORD0003", nil)
}

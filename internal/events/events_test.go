package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutBrokersIsNop(t *testing.T) {
	p := New(nil, "meditrack.events")
	_, ok := p.(NopPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), NewEvent(OrderPlaced, 1, nil)))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokersIsKafka(t *testing.T) {
	p := New([]string{"localhost:9092"}, "meditrack.events")
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "meditrack.events", kp.topic)
	assert.NoError(t, kp.Close())
}

func TestEvent_JSONEnvelope(t *testing.T) {
	ev := NewEvent(RestockDelivered, 12, map[string]int{"stock": 200})

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "restock.delivered", decoded["type"])
	assert.EqualValues(t, 12, decoded["entity_id"])
	assert.NotEmpty(t, decoded["occurred_at"])
}

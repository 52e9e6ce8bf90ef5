package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	UserID int64 `json:"user_id"`
	Count  int   `json:"count"`
}

func TestNewEvent_Fields(t *testing.T) {
	event, err := NewEvent("bookstore.cart.updated", "42", "cart", "bookcart-service", testPayload{UserID: 42, Count: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "bookstore.cart.updated", event.EventType)
	assert.Equal(t, "42", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "bookcart-service", event.Source)
	assert.False(t, event.Timestamp.IsZero())
	assert.NotNil(t, event.Metadata)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("type", "id", "agg", "src", make(chan int))
	assert.Error(t, err)
}

func TestNewEvent_DistinctIDs(t *testing.T) {
	e1, err := NewEvent("type", "id", "agg", "src", nil)
	require.NoError(t, err)
	e2, err := NewEvent("type", "id", "agg", "src", nil)
	require.NoError(t, err)

	assert.NotEqual(t, e1.EventID, e2.EventID)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	event, err := NewEvent("type", "id", "agg", "src", nil)
	require.NoError(t, err)

	result := event.WithCorrelationID("corr-123")

	assert.Same(t, event, result)
	assert.Equal(t, "corr-123", event.CorrelationID)
}

func TestEvent_Marshal_RoundTrip(t *testing.T) {
	event, err := NewEvent("bookstore.wishlist.updated", "7", "wishlist", "bookcart-service", testPayload{UserID: 7})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	raw, err := event.Marshal()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, event.EventType, decoded.EventType)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
}

func TestEvent_UnmarshalData(t *testing.T) {
	event, err := NewEvent("type", "id", "agg", "src", testPayload{UserID: 42, Count: 5})
	require.NoError(t, err)

	var payload testPayload
	require.NoError(t, event.UnmarshalData(&payload))
	assert.Equal(t, int64(42), payload.UserID)
	assert.Equal(t, 5, payload.Count)
}

func TestEvent_UnmarshalData_Invalid(t *testing.T) {
	event := &Event{Data: json.RawMessage(`{broken`)}

	var payload testPayload
	assert.Error(t, event.UnmarshalData(&payload))
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"kafka-1:9092", "kafka-2:9092"})

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

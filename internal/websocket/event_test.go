package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"created", EventTypeCreated, "created"},
		{"updated", EventTypeUpdated, "updated"},
		{"read", EventTypeRead, "read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EntityType
		expected string
	}{
		{"message", EntityTypeMessage, "message"},
		{"invitation", EntityTypeInvitation, "invitation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":      1,
		"content": "Hola",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeMessage, payload)
	after := time.Now()

	assert.Equal(t, "message.created", evt.Type)
	assert.Equal(t, EntityTypeMessage, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":      float64(1),
		"content": "Buenos dias",
	}

	evt := Event{
		Type:      "message.created",
		Entity:    EntityTypeMessage,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "Buenos dias", decodedPayload["content"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeInvitation, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "invitation.updated", decoded["type"])
	assert.Equal(t, "invitation", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestMessageEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":      float64(1),
		"content": "Nos vemos el lunes",
	}

	t.Run("MessageCreated", func(t *testing.T) {
		evt := MessageCreated(payload)
		assert.Equal(t, "message.created", evt.Type)
		assert.Equal(t, EntityTypeMessage, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("MessagesRead", func(t *testing.T) {
		evt := MessagesRead(payload)
		assert.Equal(t, "message.read", evt.Type)
		assert.Equal(t, EntityTypeMessage, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestInvitationEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":     float64(3),
		"status": "pending",
	}

	t.Run("InvitationCreated", func(t *testing.T) {
		evt := InvitationCreated(payload)
		assert.Equal(t, "invitation.created", evt.Type)
		assert.Equal(t, EntityTypeInvitation, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("InvitationUpdated", func(t *testing.T) {
		evt := InvitationUpdated(payload)
		assert.Equal(t, "invitation.updated", evt.Type)
		assert.Equal(t, EntityTypeInvitation, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

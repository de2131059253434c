package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, ...)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeRead    EventType = "read"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeMessage    EntityType = "message"
	EntityTypeInvitation EntityType = "invitation"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "message.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "message"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MessageCreated creates a message.created event
func MessageCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeMessage, payload)
}

// MessagesRead creates a message.read event
func MessagesRead(payload interface{}) Event {
	return NewEvent(EventTypeRead, EntityTypeMessage, payload)
}

// InvitationCreated creates an invitation.created event
func InvitationCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeInvitation, payload)
}

// InvitationUpdated creates an invitation.updated event
func InvitationUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeInvitation, payload)
}

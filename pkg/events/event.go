package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ANSWER_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by the constructors below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewAnswerGenerated is emitted after a question resolved successfully.
func NewAnswerGenerated(entityID, entityType, sessionID string, confidence float64) Event {
	return BaseEvent{
		Type: "ANSWER_GENERATED",
		Data: map[string]interface{}{
			"entity_id":   entityID,
			"entity_type": entityType,
			"session_id":  sessionID,
			"confidence":  confidence,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionDeleted is emitted when a conversation session is removed.
func NewSessionDeleted(entityID, sessionID string) Event {
	return BaseEvent{
		Type: "SESSION_DELETED",
		Data: map[string]interface{}{
			"entity_id":  entityID,
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}

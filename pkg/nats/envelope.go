package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"pm-assist-be/pkg/events"
)

// Assistant events live on one stream; subjects are events.<TYPE>
// (events.ANSWER_GENERATED, events.SESSION_DELETED).
const (
	streamName    = "PM_EVENTS"
	subjectPrefix = "events."
	eventMaxAge   = 24 * time.Hour
)

// envelope is the wire form of an event. Carrying the type and timestamp in
// the body keeps consumers independent of subject parsing.
type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

func encodeEvent(event events.Event) (subject string, data []byte, err error) {
	data, err = json.Marshal(envelope{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
		Payload:    event.Payload(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}
	return subjectPrefix + event.EventType(), data, nil
}

func decodeEvent(data []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	occurred := env.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return events.BaseEvent{
		Type:       env.Type,
		Data:       env.Payload,
		OccurredAt: occurred,
	}, nil
}

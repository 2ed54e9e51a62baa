package nats

import (
	"testing"

	"pm-assist-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestEncodeEventDerivesSubjectFromType(t *testing.T) {
	event := events.NewAnswerGenerated("p1", "project", "s1", 0.9)

	subject, data, err := encodeEvent(event)
	assert.NoError(t, err)
	assert.Equal(t, "events.ANSWER_GENERATED", subject)
	assert.NotEmpty(t, data)
}

func TestDecodeEventRestoresTypeAndPayload(t *testing.T) {
	original := events.NewSessionDeleted("p1", "s1")
	_, data, err := encodeEvent(original)
	assert.NoError(t, err)

	decoded, err := decodeEvent(data)
	assert.NoError(t, err)
	assert.Equal(t, "SESSION_DELETED", decoded.EventType())
	assert.Equal(t, "p1", decoded.Payload()["entity_id"])
	assert.Equal(t, "s1", decoded.Payload()["session_id"])
	assert.Equal(t, original.Timestamp().Unix(), decoded.Timestamp().Unix())
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := decodeEvent([]byte("not json"))
	assert.Error(t, err)
}

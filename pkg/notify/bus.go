package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const toastTopic = "askai.toasts"

// Toast is a user-facing banner: answer-ready confirmations, error banners,
// clipboard-copy acknowledgements.
type Toast struct {
	Level    string    `json:"level"` // success | error | info
	Message  string    `json:"message"`
	EntityID string    `json:"entity_id,omitempty"`
	At       time.Time `json:"at"`
}

// Bus is the in-process toast pub/sub. Publishing is fire-and-forget; a
// failed publish only drops the banner, never the operation behind it.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, logger),
	}
}

// Publish emits a toast on the bus.
func (b *Bus) Publish(t Toast) error {
	if t.At.IsZero() {
		t.At = time.Now()
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return b.pubsub.Publish(toastTopic, msg)
}

// Subscribe returns the toast stream. Messages must be Acked.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, toastTopic)
}

// Decode unmarshals a bus message back into a Toast.
func Decode(msg *message.Message) (Toast, error) {
	var t Toast
	err := json.Unmarshal(msg.Payload, &t)
	return t, err
}

// Close shuts the bus down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

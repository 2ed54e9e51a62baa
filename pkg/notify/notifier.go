package notify

import "log"

// BusNotifier adapts the toast bus to the askai.Notifier capability.
type BusNotifier struct {
	bus      *Bus
	entityID string
}

func NewBusNotifier(bus *Bus, entityID string) *BusNotifier {
	return &BusNotifier{bus: bus, entityID: entityID}
}

func (n *BusNotifier) Toast(level, message string) {
	if n.bus == nil {
		return
	}
	if err := n.bus.Publish(Toast{Level: level, Message: message, EntityID: n.entityID}); err != nil {
		log.Printf("[NOTIFY] Failed to publish toast: %v", err)
	}
}

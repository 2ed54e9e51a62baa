package service

import (
	"context"
	"fmt"

	"pm-assist-be/internal/constant"
	"pm-assist-be/internal/pkg/logger"
	"pm-assist-be/pkg/events"
	pktNats "pm-assist-be/pkg/nats"
	"pm-assist-be/pkg/notify"

	"github.com/ThreeDotsLabs/watermill/message"
)

// ToastDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type ToastDelivery interface {
	Send(toast notify.Toast)
}

// NotificationService bridges the in-process toast bus and the NATS event
// stream to connected panels.
type NotificationService struct {
	toastBus   *notify.Bus
	subscriber *pktNats.Subscriber
	delivery   ToastDelivery
	logger     logger.ILogger
}

func NewNotificationService(toastBus *notify.Bus, sub *pktNats.Subscriber, delivery ToastDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		toastBus:   toastBus,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins relaying toasts and domain events. Non-blocking.
func (s *NotificationService) Start(ctx context.Context) error {
	if s.toastBus != nil {
		messages, err := s.toastBus.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("failed to subscribe to toast bus: %w", err)
		}
		go s.relayToasts(messages)
	}

	if s.subscriber != nil {
		if err := s.subscriber.Subscribe(constant.SubjectAllEvents, constant.ConsumerToastRelay, s.handleEvent); err != nil {
			s.logger.Error("NotificationService", "Failed to start event subscriber", map[string]interface{}{"error": err})
			return err
		}
	}

	s.logger.Info("NotificationService", "Notification service started", nil)
	return nil
}

func (s *NotificationService) relayToasts(messages <-chan *message.Message) {
	for msg := range messages {
		toast, err := notify.Decode(msg)
		if err != nil {
			s.logger.Warn("NotificationService", "Dropping undecodable toast", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}
		if s.delivery != nil {
			s.delivery.Send(toast)
		}
		msg.Ack()
	}
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	entityID, _ := event.Payload()["entity_id"].(string)
	if s.delivery != nil {
		s.delivery.Send(notify.Toast{
			Level:    "info",
			Message:  event.EventType(),
			EntityID: entityID,
			At:       event.Timestamp(),
		})
	}
	return nil
}

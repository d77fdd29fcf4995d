package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

// EventPublisher adapts the Kafka producer to the notification-sink interface
// the handlers and the intake service depend on. Each event is wrapped in an
// envelope so consumers can dispatch on the event name. The partition key is
// the event name, which keeps events of one kind ordered.
type EventPublisher struct {
	producer *Producer
}

func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func (p *EventPublisher) Notify(ctx context.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	envelope := domain.Envelope{
		EventID:    uuid.New().String(),
		Event:      event,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}

	return p.producer.Publish(ctx, event, envelope)
}

package events

import (
	"context"
	"fmt"

	"restobook/pkg/kafka"
	"restobook/pkg/middleware"
)

type messageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	producer messageProducer
	source   string
}

// NewKafkaPublisher keys every message by booking id so one booking's events stay ordered.
func NewKafkaPublisher(producer messageProducer, source string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventID("").
		WithEventType(event.Type).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", event.Type, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

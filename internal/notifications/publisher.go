package notifications

import (
	"context"
	"time"

	"slotbook/pkg/kafka"
	"slotbook/pkg/logger"
)

// Publisher hands an event off for delivery. Implementations must be safe
// for concurrent use; callers publish from detached goroutines.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher publishes events to the notifications topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(event.Email).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(p.source).
		WithSchemaVersion("1").
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher records events to the log instead of a broker. Used when
// notifications are disabled so the services keep a single publish path.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.log.Info("Notification event (delivery disabled)",
		"type", event.Type,
		"email", event.Email,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

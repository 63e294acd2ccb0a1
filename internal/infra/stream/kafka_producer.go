package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/corelend/lead-engine/internal/entity"
)

// EventProducer publishes assignment history events to Kafka for downstream
// analytics. Messages are keyed by lead id so all transitions of one lead stay
// ordered within a partition.
type EventProducer struct {
	writer      *kafka.Writer
	maxAttempts int
}

func NewEventProducer(brokers []string, topic string) (*EventProducer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: topic required")
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Async:        false,
	})

	return &EventProducer{writer: w, maxAttempts: 3}, nil
}

func (p *EventProducer) Publish(ctx context.Context, event *entity.AssignmentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.LeadID),
		Value: value,
	}

	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if lastErr = p.writer.WriteMessages(ctx, msg); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return fmt.Errorf("kafka: produce after %d attempts: %w", p.maxAttempts, lastErr)
}

func (p *EventProducer) Close() error {
	return p.writer.Close()
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/corelend/lead-engine/internal/infra/http/middleware"
)

// NotificationPayload is the wire format between the engine and the
// notification worker. Delivery is at-least-once: persistent messages plus
// manual acks on the consumer side.
type NotificationPayload struct {
	ID         string            `json:"id"`
	EmployeeID string            `json:"employee_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{Conn: conn, Ch: ch}
}

func (p *Producer) PublishNotification(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Notifier adapts the producer to the engine's NotificationSink. The engine
// treats delivery as fire-and-forget; durability past the publish is the
// queue's problem.
type Notifier struct {
	Producer *Producer
}

func NewNotifier(producer *Producer) *Notifier {
	return &Notifier{Producer: producer}
}

func (n *Notifier) Send(ctx context.Context, employeeID, title, message, category string, metadata map[string]string) error {
	err := n.Producer.PublishNotification(ctx, NotificationPayload{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Title:      title,
		Message:    message,
		Category:   category,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		middleware.RecordNotificationFailure()
	}
	return err
}

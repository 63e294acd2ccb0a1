package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/corelend/lead-engine/internal/entity"
)

// EmployeeDirectory resolves the delivery address for a notification target.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.Employee, error)
}

// NotificationMailer sends the rendered notification over SMTP.
type NotificationMailer interface {
	SendNotification(to, name, title, message string) error
}

type Worker struct {
	Channel   *amqp.Channel
	Directory EmployeeDirectory
	Mailer    NotificationMailer
}

func NewWorker(ch *amqp.Channel, directory EmployeeDirectory, mailer NotificationMailer) *Worker {
	return &Worker{
		Channel:   ch,
		Directory: directory,
		Mailer:    mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [NOTIFIER] invalid JSON: %s", err)
				// Malformed message: reject without requeue so it cannot jam the queue.
				d.Nack(false, false)
				continue
			}

			if err := w.deliver(context.Background(), payload); err != nil {
				log.Printf("❌ [NOTIFIER] delivery failed for employee %s: %s", payload.EmployeeID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] notification worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) deliver(ctx context.Context, payload NotificationPayload) error {
	employee, err := w.Directory.FindByID(ctx, payload.EmployeeID)
	if err != nil {
		return err
	}
	if employee == nil || employee.Email == "" {
		// Target disappeared or has no address; nothing left to deliver.
		log.Printf("⚠️ [NOTIFIER] employee %s has no deliverable address, dropping %s", payload.EmployeeID, payload.Category)
		return nil
	}

	return w.Mailer.SendNotification(employee.Email, employee.Name, payload.Title, payload.Message)
}

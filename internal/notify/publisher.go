// Package notify publishes notification events to the delivery queue
// consumed by cmd/notifier.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/campus-oit/helpdesk-roster/internal/config"
	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

type Publisher struct {
	channel *amqp.Channel
	queue   string
	timeout time.Duration
}

// NewPublisher declares the queue and returns a publisher bound to it.
func NewPublisher(cfg *config.Config, ch *amqp.Channel) (*Publisher, error) {
	_, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		channel: ch,
		queue:   cfg.RabbitMQ.Queue,
		timeout: time.Duration(cfg.RabbitMQ.PublishTimeout) * time.Second,
	}, nil
}

func (p *Publisher) Publish(event domain.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

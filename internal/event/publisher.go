package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StatusEventPublisher publishes workflow transition events to RabbitMQ.
type StatusEventPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
}

func NewStatusEventPublisher(conn *RabbitMQConnection) *StatusEventPublisher {
	return &StatusEventPublisher{conn: conn}
}

// PublishStatusEvent publishes one transition event to the
// valuation_status_events queue.
func (p *StatusEventPublisher) PublishStatusEvent(ctx context.Context, evt StatusEvent) error {
	_, err := p.conn.Channel.QueueDeclare(
		StatusEventQueue, // queue name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(evt)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",               // exchange
		StatusEventQueue, // routing key (queue name)
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	p.messagesPublished++

	slog.Info("Status event published",
		"queue", StatusEventQueue,
		"unique_id", evt.UniqueID,
		"to_status", evt.ToStatus,
	)

	return nil
}

// GetMetrics returns publisher counters.
func (p *StatusEventPublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished,
		"messages_failed":    p.messagesFailed,
		"queue":              StatusEventQueue,
	}
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/models"
)

func (q *QueueService) PublishIssued(ctx context.Context, event *models.WatermarkIssuedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	q.publishMu.Lock()
	defer q.publishMu.Unlock()

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	q.logger.Debug("Watermark event published", zap.String("event_id", event.ID))
	return nil
}

// NoopPublisher drops events. It stands in when RabbitMQ is not configured.
type NoopPublisher struct {
	logger *zap.Logger
}

func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (n *NoopPublisher) PublishIssued(_ context.Context, event *models.WatermarkIssuedEvent) error {
	n.logger.Debug("Audit queue not configured, dropping event",
		zap.String("event_id", event.ID),
		zap.String("recipient", event.RecipientName))
	return nil
}

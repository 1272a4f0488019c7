package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/phambaophuc/pdf-watermark/internal/models"
)

// EventHandler consumes one audit event. A returned error requeues it.
type EventHandler func(ctx context.Context, event *models.WatermarkIssuedEvent) error

func (q *QueueService) StartWorker(ctx context.Context, workerID int) error {
	msgs, err := q.channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Audit worker started", zap.Int("worker_id", workerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Audit worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
					return
				}

				q.processMessage(ctx, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *QueueService) processMessage(ctx context.Context, msg amqp.Delivery, workerID int) {
	var event models.WatermarkIssuedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		q.logger.Error("Failed to unmarshal event",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // Don't requeue malformed messages
		return
	}

	if err := q.handler(ctx, &event); err != nil {
		q.logger.Error("Audit event handling failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
		msg.Nack(false, true)
		return
	}

	if err := msg.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

func (q *QueueService) logIssued(_ context.Context, event *models.WatermarkIssuedEvent) error {
	q.logger.Info("Watermarked copy issued",
		zap.String("event_id", event.ID),
		zap.String("request_id", event.RequestID),
		zap.String("recipient", event.RecipientName),
		zap.String("email", event.RecipientEmail),
		zap.String("source_hash", event.SourceHash),
		zap.Int("pages", event.PageCount),
		zap.String("placement", event.Placement),
		zap.Time("issued_at", event.IssuedAt))
	return nil
}

package queue

import "fmt"

// QueueStats is a snapshot of the audit queue.
type QueueStats struct {
	Name      string `json:"name"`
	Messages  int    `json:"messages"`
	Consumers int    `json:"consumers"`
}

func (q *QueueService) GetQueueStats() (*QueueStats, error) {
	q.publishMu.Lock()
	defer q.publishMu.Unlock()

	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return &QueueStats{
		Name:      queueInfo.Name,
		Messages:  queueInfo.Messages,
		Consumers: queueInfo.Consumers,
	}, nil
}

// HealthCheck checks if RabbitMQ is available and the audit queue exists
func (q *QueueService) HealthCheck() string {
	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}

	if q.channel == nil {
		return "unhealthy: channel not available"
	}

	if _, err := q.GetQueueStats(); err != nil {
		return "unhealthy: " + err.Error()
	}

	return "healthy"
}

package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

// MessageQueue is satisfied by pkg/aws.Queue.
type MessageQueue interface {
	SendMessage(ctx context.Context, body string, attributes map[string]string) (string, error)
}

// QueueSender enqueues the rendered message for the SQS consumer, which does
// the actual mail delivery.
type QueueSender struct {
	queue MessageQueue
}

func NewQueueSender(queue MessageQueue) *QueueSender {
	return &QueueSender{queue: queue}
}

func (s *QueueSender) Name() string { return models.ChannelQueue }

func (s *QueueSender) Send(ctx context.Context, msg models.NotificationMessage) (SendResult, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal notification: %w", err)
	}
	id, err := s.queue.SendMessage(ctx, string(body), map[string]string{"kind": "contact_submission"})
	if err != nil {
		return SendResult{}, err
	}
	return SendResult{MessageID: id, SentAt: time.Now()}, nil
}

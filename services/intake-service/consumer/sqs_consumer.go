package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/sender"
)

// Poller is satisfied by pkg/aws.Queue.
type Poller interface {
	URL() string
	PollOnce(ctx context.Context, handler awspkg.MessageHandler) (awspkg.PollResult, error)
}

// SQSConsumer drains queued notifications and delivers them by mail. A message
// is deleted only after delivery succeeded or when it can never be delivered.
type SQSConsumer struct {
	queue      Poller
	delivery   sender.Channel
	metrics    awspkg.MetricsRecorder
	logger     *zap.Logger
	errBackoff time.Duration
}

func NewSQSConsumer(queue Poller, delivery sender.Channel, metrics awspkg.MetricsRecorder, logger *zap.Logger) *SQSConsumer {
	if metrics == nil {
		metrics = awspkg.NopMetrics{}
	}
	return &SQSConsumer{
		queue:      queue,
		delivery:   delivery,
		metrics:    metrics,
		logger:     logger,
		errBackoff: 5 * time.Second,
	}
}

// Start polls until ctx is cancelled.
func (c *SQSConsumer) Start(ctx context.Context) error {
	c.logger.Info("SQS consumer started", zap.String("queue", c.queue.URL()))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("SQS consumer shutting down")
			return nil
		default:
			c.poll(ctx)
		}
	}
}

func (c *SQSConsumer) poll(ctx context.Context) {
	res, err := c.queue.PollOnce(ctx, c.handle)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Error("SQS receive error", zap.Error(err))
		select {
		case <-ctx.Done():
		case <-time.After(c.errBackoff):
		}
		return
	}
	if res.Received > 0 {
		c.logger.Debug("SQS poll",
			zap.Int("received", res.Received),
			zap.Int("processed", res.Processed),
			zap.Int("failed", res.Failed),
		)
	}
}

// snsEnvelope unwraps a message that arrived through an SNS subscription.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

func (c *SQSConsumer) handle(ctx context.Context, body string) error {
	if body == "" {
		c.logger.Error("received empty SQS message body")
		return nil
	}

	payload := body
	var envelope snsEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Type == "Notification" && envelope.Message != "" {
		payload = envelope.Message
	}

	var msg models.NotificationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil || msg.To == "" {
		// unparseable: delete, it would fail forever
		c.logger.Error("dropping malformed notification message", zap.Error(err))
		return nil
	}

	result, err := c.delivery.Send(ctx, msg)
	if err != nil {
		c.logger.Error("failed to deliver queued notification",
			zap.String("to", msg.To),
			zap.Error(err),
		)
		c.record(ctx, awspkg.MetricNotificationsFailed)
		return err
	}

	c.logger.Info("queued notification delivered",
		zap.String("to", msg.To),
		zap.String("message_id", result.MessageID),
	)
	c.record(ctx, awspkg.MetricSQSMessages)
	return nil
}

func (c *SQSConsumer) record(ctx context.Context, metric string) {
	if !c.metrics.IsEnabled() {
		return
	}
	_ = c.metrics.RecordCount(ctx, metric, map[string]string{"Service": "intake-service", "Channel": models.ChannelQueue})
}

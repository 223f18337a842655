package sender

import (
	"context"
	"fmt"
	"time"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

// SNSSender publishes the plain-text body to a topic; email subscribers of the
// topic receive it with the notification subject.
type SNSSender struct {
	publisher awspkg.SNSPublisher
	topicArn  string
}

func NewSNSSender(publisher awspkg.SNSPublisher, topicArn string) (*SNSSender, error) {
	if topicArn == "" {
		return nil, fmt.Errorf("NOTIFY_SNS_TOPIC_ARN not set")
	}
	return &SNSSender{publisher: publisher, topicArn: topicArn}, nil
}

func (s *SNSSender) Name() string { return models.ChannelSNS }

func (s *SNSSender) Send(ctx context.Context, msg models.NotificationMessage) (SendResult, error) {
	if err := s.publisher.Publish(ctx, s.topicArn, msg.Subject, []byte(msg.PlainBody)); err != nil {
		return SendResult{}, err
	}
	now := time.Now()
	return SendResult{MessageID: fmt.Sprintf("sns-%d", now.UnixNano()), SentAt: now}, nil
}

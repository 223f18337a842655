package sender

import (
	"context"
	"time"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Channel delivers a rendered notification one way (email, topic, queue).
type Channel interface {
	Name() string
	Send(ctx context.Context, msg models.NotificationMessage) (SendResult, error)
}

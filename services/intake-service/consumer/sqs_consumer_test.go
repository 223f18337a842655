package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/sender"
)

type fakeChannel struct {
	err  error
	sent []models.NotificationMessage
}

func (f *fakeChannel) Name() string { return "smtp" }
func (f *fakeChannel) Send(_ context.Context, msg models.NotificationMessage) (sender.SendResult, error) {
	if f.err != nil {
		return sender.SendResult{}, f.err
	}
	f.sent = append(f.sent, msg)
	return sender.SendResult{MessageID: "m"}, nil
}

// fakePoller hands each body to the handler once, then blocks until cancelled.
type fakePoller struct {
	bodies   []string
	accepted []string
	rejected []string
	done     chan struct{}
}

func (f *fakePoller) URL() string { return "http://localhost:4566/000000000000/contact" }

func (f *fakePoller) PollOnce(ctx context.Context, handler awspkg.MessageHandler) (awspkg.PollResult, error) {
	if f.bodies == nil {
		<-ctx.Done()
		return awspkg.PollResult{}, ctx.Err()
	}
	var res awspkg.PollResult
	for _, b := range f.bodies {
		res.Received++
		if err := handler(ctx, b); err != nil {
			f.rejected = append(f.rejected, b)
			res.Failed++
			continue
		}
		f.accepted = append(f.accepted, b)
		res.Processed++
	}
	f.bodies = nil
	close(f.done)
	return res, nil
}

func encode(t *testing.T, msg models.NotificationMessage) string {
	t.Helper()
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	return string(b)
}

func TestHandle_DeliversAndAccepts(t *testing.T) {
	ch := &fakeChannel{}
	c := NewSQSConsumer(&fakePoller{}, ch, nil, zap.NewNop())

	msg := models.NotificationMessage{To: "owner@example.com", Subject: "s", PlainBody: "p"}
	require.NoError(t, c.handle(context.Background(), encode(t, msg)))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, "owner@example.com", ch.sent[0].To)
}

func TestHandle_UnwrapsSNSEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	c := NewSQSConsumer(&fakePoller{}, ch, nil, zap.NewNop())

	inner := encode(t, models.NotificationMessage{To: "owner@example.com"})
	env, err := json.Marshal(map[string]string{"Type": "Notification", "Message": inner})
	require.NoError(t, err)

	require.NoError(t, c.handle(context.Background(), string(env)))
	assert.Len(t, ch.sent, 1)
}

func TestHandle_MalformedIsDropped(t *testing.T) {
	ch := &fakeChannel{}
	c := NewSQSConsumer(&fakePoller{}, ch, nil, zap.NewNop())

	assert.NoError(t, c.handle(context.Background(), "not json"))
	assert.NoError(t, c.handle(context.Background(), `{"subject":"no recipient"}`))
	assert.NoError(t, c.handle(context.Background(), ""))
	assert.Empty(t, ch.sent)
}

func TestHandle_DeliveryFailureKeepsMessage(t *testing.T) {
	ch := &fakeChannel{err: errors.New("smtp down")}
	c := NewSQSConsumer(&fakePoller{}, ch, nil, zap.NewNop())

	err := c.handle(context.Background(), encode(t, models.NotificationMessage{To: "owner@example.com"}))
	assert.EqualError(t, err, "smtp down")
}

func TestStart_StopsOnCancel(t *testing.T) {
	good := models.NotificationMessage{To: "owner@example.com"}
	poller := &fakePoller{bodies: []string{encode(t, good), "garbage"}, done: make(chan struct{})}
	ch := &fakeChannel{}
	c := NewSQSConsumer(poller, ch, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx) }()

	select {
	case <-poller.done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller was never called")
	}
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Len(t, poller.accepted, 2)
	assert.Len(t, ch.sent, 1)
}

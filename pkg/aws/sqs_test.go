package aws

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	sent     []*sqs.SendMessageInput
	messages []types.Message
	deleted  []string
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.sent = append(f.sent, in)
	return &sqs.SendMessageOutput{MessageId: sdkaws.String("msg-1")}, nil
}

func (f *fakeSQS) ReceiveMessage(context.Context, *sqs.ReceiveMessageInput, ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, sdkaws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func TestQueue_SendMessage(t *testing.T) {
	api := &fakeSQS{}
	q := NewQueueWithAPI(api, "https://sqs.local/contact")

	id, err := q.SendMessage(context.Background(), `{"to":"a@b.c"}`, map[string]string{"kind": "contact_submission"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	require.Len(t, api.sent, 1)
	assert.Equal(t, "contact_submission", sdkaws.ToString(api.sent[0].MessageAttributes["kind"].StringValue))
}

func TestQueue_PollOnceDeletesOnlyHandled(t *testing.T) {
	api := &fakeSQS{messages: []types.Message{
		{Body: sdkaws.String("ok"), ReceiptHandle: sdkaws.String("r1")},
		{Body: sdkaws.String("retry"), ReceiptHandle: sdkaws.String("r2")},
		{Body: nil, ReceiptHandle: sdkaws.String("r3")},
	}}
	q := NewQueueWithAPI(api, "https://sqs.local/contact")

	res, err := q.PollOnce(context.Background(), func(_ context.Context, body string) error {
		if body == "retry" {
			return errors.New("smtp down")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, PollResult{Received: 3, Processed: 1, Failed: 2}, res)
	assert.Equal(t, []string{"r1"}, api.deleted)
}

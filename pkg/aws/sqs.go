package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the subset of the SQS client Queue needs.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// MessageHandler processes one message body. A non-nil error leaves the message
// on the queue so it becomes visible again after the visibility timeout.
type MessageHandler func(ctx context.Context, body string) error

// Queue sends to and long-polls a single SQS queue.
type Queue struct {
	client            SQSAPI
	queueURL          string
	WaitTimeSeconds   int32
	VisibilityTimeout int32
	MaxMessages       int32
}

func NewQueue(cfg sdkaws.Config, queueURL string) *Queue {
	return NewQueueWithAPI(sqs.NewFromConfig(cfg), queueURL)
}

func NewQueueWithAPI(api SQSAPI, queueURL string) *Queue {
	return &Queue{
		client:            api,
		queueURL:          queueURL,
		WaitTimeSeconds:   20,
		VisibilityTimeout: 60,
		MaxMessages:       10,
	}
}

func (q *Queue) URL() string { return q.queueURL }

// SendMessage enqueues body and returns the SQS message id.
func (q *Queue) SendMessage(ctx context.Context, body string, attributes map[string]string) (string, error) {
	input := &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(q.queueURL),
		MessageBody: sdkaws.String(body),
	}
	if len(attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(attributes))
		for k, v := range attributes {
			input.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(v),
			}
		}
	}

	out, err := q.client.SendMessage(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return sdkaws.ToString(out.MessageId), nil
}

// PollResult summarises one receive round.
type PollResult struct {
	Received  int
	Processed int
	Failed    int
}

// PollOnce receives up to MaxMessages messages, hands each to handler and
// deletes the ones the handler accepted. Handler errors are counted, not returned.
func (q *Queue) PollOnce(ctx context.Context, handler MessageHandler) (PollResult, error) {
	var res PollResult

	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            sdkaws.String(q.queueURL),
		MaxNumberOfMessages: q.MaxMessages,
		WaitTimeSeconds:     q.WaitTimeSeconds,
		VisibilityTimeout:   q.VisibilityTimeout,
	})
	if err != nil {
		return res, fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range out.Messages {
		res.Received++
		if msg.Body == nil || msg.ReceiptHandle == nil {
			res.Failed++
			continue
		}
		if err := handler(ctx, *msg.Body); err != nil {
			res.Failed++
			continue
		}
		if _, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      sdkaws.String(q.queueURL),
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			return res, fmt.Errorf("failed to delete message: %w", err)
		}
		res.Processed++
	}

	return res, nil
}

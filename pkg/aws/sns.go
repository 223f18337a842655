package aws

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// maxSubjectRunes is the SNS limit on the email subject line.
const maxSubjectRunes = 100

// SNSPublisher is a minimal interface for publishing messages to SNS.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn, subject string, message []byte) error
}

// SNSAPI is the subset of the SNS client SNSClient needs.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client SNSAPI
}

func NewSNSClient(cfg sdkaws.Config) *SNSClient {
	return NewSNSClientWithAPI(sns.NewFromConfig(cfg))
}

func NewSNSClientWithAPI(api SNSAPI) *SNSClient {
	return &SNSClient{client: api}
}

// Publish publishes a raw message to the given SNS topic ARN. Subject is only
// used by email subscriptions and may be empty.
func (s *SNSClient) Publish(ctx context.Context, topicArn, subject string, message []byte) error {
	if topicArn == "" {
		return fmt.Errorf("empty topicArn")
	}
	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(string(message)),
	}
	if subject = subjectLine(subject); subject != "" {
		input.Subject = sdkaws.String(subject)
	}
	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	return nil
}

// subjectLine flattens control characters to spaces and keeps at most
// maxSubjectRunes whole runes.
func subjectLine(subject string) string {
	subject = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, subject)
	n := 0
	for i := range subject {
		if n == maxSubjectRunes {
			return strings.TrimSpace(subject[:i])
		}
		n++
	}
	return strings.TrimSpace(subject)
}

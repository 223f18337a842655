package aws

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	published []*sns.PublishInput
	err       error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.published = append(f.published, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: sdkaws.String("sns-1")}, nil
}

func TestSNSClient_Publish(t *testing.T) {
	api := &fakeSNS{}
	c := NewSNSClientWithAPI(api)

	require.NoError(t, c.Publish(context.Background(), "arn:topic", "New Contact Form Submission", []byte("- Name: Jane Doe")))
	require.Len(t, api.published, 1)
	assert.Equal(t, "arn:topic", sdkaws.ToString(api.published[0].TopicArn))
	assert.Equal(t, "New Contact Form Submission", sdkaws.ToString(api.published[0].Subject))
	assert.Equal(t, "- Name: Jane Doe", sdkaws.ToString(api.published[0].Message))

	require.NoError(t, c.Publish(context.Background(), "arn:topic", "", []byte("x")))
	assert.Nil(t, api.published[1].Subject)

	assert.EqualError(t, c.Publish(context.Background(), "", "s", nil), "empty topicArn")

	api.err = errors.New("throttled")
	assert.ErrorContains(t, c.Publish(context.Background(), "arn:topic", "s", nil), "sns publish failed for topic arn:topic: throttled")
}

func TestSNSClient_TrimsSubjectOnRuneBoundary(t *testing.T) {
	api := &fakeSNS{}
	c := NewSNSClientWithAPI(api)

	// 99 ASCII bytes then multi-byte runes: a byte cut at 100 would split "é".
	subject := strings.Repeat("a", 99) + "ééé"
	require.NoError(t, c.Publish(context.Background(), "arn:topic", subject, nil))

	got := sdkaws.ToString(api.published[0].Subject)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 100, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("a", 99)+"é", got)
}

func TestSubjectLine(t *testing.T) {
	cases := map[string]struct {
		in, want string
	}{
		"short":        {"Hello", "Hello"},
		"line break":   {"Hello\r\nBcc: x", "Hello  Bcc: x"},
		"exactly 100":  {strings.Repeat("ü", 100), strings.Repeat("ü", 100)},
		"101 runes":    {strings.Repeat("ü", 101), strings.Repeat("ü", 100)},
		"only control": {"\n\t", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, subjectLine(tc.in))
		})
	}
}

package aws

import (
	"context"
	"fmt"
	"os"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsRecorder is what middleware and services record through. A nil
// *MetricsClient is not a valid recorder; use NopMetrics instead.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
	IsEnabled() bool
}

// MetricsClient wraps AWS CloudWatch Metrics operations
type MetricsClient struct {
	client    *cloudwatch.Client
	namespace string
	enabled   bool
}

// NewMetricsClient creates a new CloudWatch Metrics client
func NewMetricsClient(cfg sdkaws.Config) *MetricsClient {
	namespace := os.Getenv("CLOUDWATCH_NAMESPACE")
	if namespace == "" {
		namespace = "ContactIntake"
	}

	return &MetricsClient{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
		enabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
	}
}

// PutMetric sends a single metric data point to CloudWatch
func (m *MetricsClient) PutMetric(ctx context.Context, metricName string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	if !m.enabled {
		return nil
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{
			Name:  sdkaws.String(k),
			Value: sdkaws.String(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: sdkaws.String(metricName),
				Value:      sdkaws.Float64(value),
				Unit:       unit,
				Timestamp:  sdkaws.Time(time.Now()),
				Dimensions: dims,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put metric: %w", err)
	}

	return nil
}

// RecordCount increments a counter metric
func (m *MetricsClient) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions)
}

// RecordLatency records a latency/duration metric in milliseconds
func (m *MetricsClient) RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

func (m *MetricsClient) IsEnabled() bool {
	return m.enabled
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordCount(context.Context, string, map[string]string) error { return nil }
func (NopMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}
func (NopMetrics) IsEnabled() bool { return false }

const (
	// HTTP metrics
	MetricHTTPRequests  = "HTTPRequests"
	MetricHTTPErrors    = "HTTPErrors"
	MetricHTTPLatency   = "HTTPLatency"
	MetricHTTP4xx       = "HTTP4xxErrors"
	MetricHTTP5xx       = "HTTP5xxErrors"
	MetricErrorPayloads = "ErrorPayloads"

	// Intake metrics
	MetricSubmissionsReceived = "SubmissionsReceived"
	MetricSubmissionsStored   = "SubmissionsStored"
	MetricStoreFailures       = "StoreFailures"
	MetricStoreLatency        = "StoreLatency"
	MetricNotificationsSent   = "NotificationsSent"
	MetricNotificationsFailed = "NotificationsFailed"
	MetricSQSMessages         = "SQSMessagesProcessed"
)

package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/sender"
)

// ---- mock store ----

type mockStore struct {
	ensureCreated bool
	ensureErr     error
	appendErr     error
	listErr       error
	appended      []models.SubmissionRecord
}

func (m *mockStore) Name() string { return "mock" }
func (m *mockStore) EnsureStore(_ context.Context) (bool, error) {
	return m.ensureCreated, m.ensureErr
}
func (m *mockStore) Append(_ context.Context, rec models.SubmissionRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, rec)
	return nil
}
func (m *mockStore) List(_ context.Context) ([]models.SubmissionRecord, error) {
	return m.appended, m.listErr
}

// ---- mock notifier ----

type mockNotifier struct {
	outcome models.NotificationOutcome
	calls   int
}

func (m *mockNotifier) NotifySubmission(_ context.Context, _ models.SubmissionRecord) models.NotificationOutcome {
	m.calls++
	return m.outcome
}
func (m *mockNotifier) Render(_ models.SubmissionRecord) (models.NotificationMessage, error) {
	return models.NotificationMessage{}, nil
}

// ---- mock channel ----

type mockChannel struct {
	name  string
	errs  []error
	mu    sync.Mutex
	sent  []models.NotificationMessage
	calls int
}

func (m *mockChannel) Name() string { return m.name }
func (m *mockChannel) Send(_ context.Context, msg models.NotificationMessage) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return sender.SendResult{}, m.errs[i]
	}
	m.sent = append(m.sent, msg)
	return sender.SendResult{MessageID: m.name + "-id", SentAt: time.Now()}, nil
}

// ---- mock metrics ----

type mockMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMockMetrics() *mockMetrics { return &mockMetrics{counts: map[string]int{}} }

func (m *mockMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	return nil
}
func (m *mockMetrics) RecordLatency(_ context.Context, _ string, _ time.Duration, _ map[string]string) error {
	return nil
}
func (m *mockMetrics) IsEnabled() bool { return true }

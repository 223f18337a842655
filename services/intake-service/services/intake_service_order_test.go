package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/services"
)

type MockSubmissionStore struct{ mock.Mock }

func (m *MockSubmissionStore) Name() string { return "mock-store" }

func (m *MockSubmissionStore) EnsureStore(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionStore) Append(ctx context.Context, rec models.SubmissionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockSubmissionStore) List(ctx context.Context) ([]models.SubmissionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubmissionRecord), args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) NotifySubmission(ctx context.Context, rec models.SubmissionRecord) models.NotificationOutcome {
	args := m.Called(ctx, rec)
	return args.Get(0).(models.NotificationOutcome)
}

func (m *MockNotificationService) Render(rec models.SubmissionRecord) (models.NotificationMessage, error) {
	args := m.Called(rec)
	return args.Get(0).(models.NotificationMessage), args.Error(1)
}

func TestSubmit_EnsureThenAppendThenNotify(t *testing.T) {
	store := new(MockSubmissionStore)
	notifier := new(MockNotificationService)
	ctx := context.Background()

	ensure := store.On("EnsureStore", mock.Anything).Return(false, nil).Once()
	appendCall := store.On("Append", mock.Anything, mock.MatchedBy(func(r models.SubmissionRecord) bool {
		return r.Email == "jane@x.com" && r.Timestamp != ""
	})).Return(nil).Once().NotBefore(ensure)
	notifier.On("NotifySubmission", mock.Anything, mock.AnythingOfType("models.SubmissionRecord")).
		Return(models.NotificationOutcome{Status: models.StatusNotifyFailed, Err: errors.New("smtp down")}).
		Once().NotBefore(appendCall)

	res, err := services.NewIntakeService(store, notifier, nil, zap.NewNop()).Submit(ctx, janeDoe())

	assert.NoError(t, err)
	assert.Equal(t, models.StateNotifyFailed, res.State)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmit_EnsureFailureSkipsAppendAndNotify(t *testing.T) {
	store := new(MockSubmissionStore)
	notifier := new(MockNotificationService)

	store.On("EnsureStore", mock.Anything).Return(false, errors.New("permission denied"))

	_, err := services.NewIntakeService(store, notifier, nil, zap.NewNop()).Submit(context.Background(), janeDoe())

	assert.ErrorContains(t, err, "permission denied")
	store.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifySubmission", mock.Anything, mock.Anything)
}

package services

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	apperrors "github.com/metalstreets/contact-backend/services/common/errors"
	"github.com/metalstreets/contact-backend/services/common/logger"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/repository"
)

const SuccessMessage = "Data saved successfully"

type IntakeService interface {
	// Submit runs one record through store and notification. A non-nil error
	// is always a store error; notification failures only show in the result.
	Submit(ctx context.Context, rec models.SubmissionRecord) (*SubmitResult, error)
	// Export writes the whole store as CSV, header first.
	Export(ctx context.Context, w io.Writer) error
}

type SubmitResult struct {
	State        models.SubmissionState
	StoreCreated bool
	Notification models.NotificationOutcome
}

type intakeService struct {
	store    repository.SubmissionStore
	notifier NotificationService
	metrics  awspkg.MetricsRecorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewIntakeService(store repository.SubmissionStore, notifier NotificationService, metrics awspkg.MetricsRecorder, logger *zap.Logger) IntakeService {
	if metrics == nil {
		metrics = awspkg.NopMetrics{}
	}
	return &intakeService{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *intakeService) Submit(ctx context.Context, rec models.SubmissionRecord) (*SubmitResult, error) {
	log := logger.For(ctx, s.logger)
	res := &SubmitResult{State: models.StateReceived}
	s.record(ctx, awspkg.MetricSubmissionsReceived)

	rec.StampIfMissing(s.now())

	start := time.Now()
	created, err := s.store.EnsureStore(ctx)
	if err != nil {
		s.record(ctx, awspkg.MetricStoreFailures)
		log.Error("failed to locate store", zap.String("store", s.store.Name()), zap.Error(err))
		return res, apperrors.Wrap(apperrors.ErrStore, err)
	}
	res.StoreCreated = created
	if created {
		log.Info("created submission store", zap.String("store", s.store.Name()))
	}

	if err := s.store.Append(ctx, rec); err != nil {
		s.record(ctx, awspkg.MetricStoreFailures)
		log.Error("failed to append submission", zap.String("store", s.store.Name()), zap.Error(err))
		return res, apperrors.Wrap(apperrors.ErrStore, err)
	}
	res.State = models.StateStoreAppended
	s.record(ctx, awspkg.MetricSubmissionsStored)
	if s.metrics.IsEnabled() {
		_ = s.metrics.RecordLatency(ctx, awspkg.MetricStoreLatency, time.Since(start), map[string]string{"Store": s.store.Name()})
	}

	res.Notification = s.notifier.NotifySubmission(ctx, rec)
	if res.Notification.Status == models.StatusNotified {
		res.State = models.StateNotified
		s.record(ctx, awspkg.MetricNotificationsSent)
	} else {
		res.State = models.StateNotifyFailed
		s.record(ctx, awspkg.MetricNotificationsFailed)
		log.Error("error sending email notification",
			zap.Error(apperrors.Wrap(apperrors.ErrNotify, res.Notification.Err)),
		)
	}

	log.Info("submission processed",
		zap.String("state", string(res.State)),
		zap.String("store", s.store.Name()),
		zap.Strings("channels", res.Notification.Channels),
	)
	return res, nil
}

func (s *intakeService) Export(ctx context.Context, w io.Writer) error {
	records, err := s.store.List(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStore, err)
	}
	return repository.WriteCSV(w, records)
}

func (s *intakeService) record(ctx context.Context, metric string) {
	if !s.metrics.IsEnabled() {
		return
	}
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "intake-service"}); err != nil {
		s.logger.Debug("failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}

package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"

	"github.com/metalstreets/contact-backend/services/common/logger"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/sender"
	"github.com/metalstreets/contact-backend/services/intake-service/templates"
)

const (
	DefaultRecipient = "metalstreetmedia@gmail.com"
	DefaultFromName  = "Metal Streets Media Contact Form"
	DefaultSubject   = "New Contact Form Submission - Metal Streets Media"
)

// ErrNoChannels is reported when no notification channel is configured.
var ErrNoChannels = errors.New("no notification channels configured")

type NotificationService interface {
	// NotifySubmission renders rec and sends it on every channel. It never
	// returns an error: the outcome says whether any channel succeeded.
	NotifySubmission(ctx context.Context, rec models.SubmissionRecord) models.NotificationOutcome
	Render(rec models.SubmissionRecord) (models.NotificationMessage, error)
}

type NotificationConfig struct {
	Recipient  string
	FromName   string
	Subject    string
	StoreName  string
	Attempts   int
	RetryDelay time.Duration
}

type notificationService struct {
	channels []sender.Channel
	cfg      NotificationConfig
	html     *htmltemplate.Template
	text     *texttemplate.Template
	logger   *zap.Logger
}

func NewNotificationService(channels []sender.Channel, cfg NotificationConfig, logger *zap.Logger) (NotificationService, error) {
	html, text, err := templates.Submission()
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification templates: %w", err)
	}
	if cfg.Recipient == "" {
		cfg.Recipient = DefaultRecipient
	}
	if cfg.FromName == "" {
		cfg.FromName = DefaultFromName
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &notificationService{
		channels: channels,
		cfg:      cfg,
		html:     html,
		text:     text,
		logger:   logger,
	}, nil
}

func (s *notificationService) Render(rec models.SubmissionRecord) (models.NotificationMessage, error) {
	view := models.SubmissionView{SubmissionRecord: rec, StoreName: s.cfg.StoreName}

	var htmlBuf, textBuf bytes.Buffer
	if err := s.html.Execute(&htmlBuf, view); err != nil {
		return models.NotificationMessage{}, fmt.Errorf("template render failed: %w", err)
	}
	if err := s.text.Execute(&textBuf, view); err != nil {
		return models.NotificationMessage{}, fmt.Errorf("template render failed: %w", err)
	}

	return models.NotificationMessage{
		To:        s.cfg.Recipient,
		FromName:  s.cfg.FromName,
		ReplyTo:   sender.ReplyAddress(rec.Email),
		Subject:   s.cfg.Subject,
		PlainBody: textBuf.String(),
		HTMLBody:  htmlBuf.String(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *notificationService) NotifySubmission(ctx context.Context, rec models.SubmissionRecord) models.NotificationOutcome {
	log := logger.For(ctx, s.logger)

	if len(s.channels) == 0 {
		return models.NotificationOutcome{Status: models.StatusNotifyFailed, Err: ErrNoChannels}
	}

	msg, err := s.Render(rec)
	if err != nil {
		return models.NotificationOutcome{Status: models.StatusNotifyFailed, Err: err}
	}

	outcome := models.NotificationOutcome{Status: models.StatusNotifyFailed}
	var errs []error
	for _, ch := range s.channels {
		result, err := s.sendWithRetry(ctx, log, ch, msg)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		outcome.Status = models.StatusNotified
		outcome.Channels = append(outcome.Channels, ch.Name())
		if outcome.MessageID == "" {
			outcome.MessageID = result.MessageID
		}
	}
	outcome.Err = errors.Join(errs...)
	return outcome
}

func (s *notificationService) sendWithRetry(ctx context.Context, log *zap.Logger, ch sender.Channel, msg models.NotificationMessage) (sender.SendResult, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return sender.SendResult{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.cfg.RetryDelay):
			}
		}

		result, err := ch.Send(ctx, msg)
		if err == nil {
			log.Info("notification sent",
				zap.String("channel", ch.Name()),
				zap.String("message_id", result.MessageID),
			)
			return result, nil
		}
		lastErr = err

		log.Warn("send attempt failed",
			zap.String("channel", ch.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return sender.SendResult{}, lastErr
}

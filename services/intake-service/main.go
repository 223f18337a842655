package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	apperrors "github.com/metalstreets/contact-backend/services/common/errors"
	"github.com/metalstreets/contact-backend/services/common/logger"
	"github.com/metalstreets/contact-backend/services/common/middleware"
	"github.com/metalstreets/contact-backend/services/intake-service/consumer"
	"github.com/metalstreets/contact-backend/services/intake-service/controllers"
	"github.com/metalstreets/contact-backend/services/intake-service/database"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/repository"
	"github.com/metalstreets/contact-backend/services/intake-service/routes"
	"github.com/metalstreets/contact-backend/services/intake-service/sender"
	"github.com/metalstreets/contact-backend/services/intake-service/services"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	var awsCfg sdkaws.Config
	if cfg.usesAWS() {
		awsCfg, err = awspkg.LoadAWSConfig(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "aws config load failed: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := initLogger(ctx, cfg, awsCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// CloudWatch metrics (non-fatal when disabled)
	var metrics awspkg.MetricsRecorder = awspkg.NopMetrics{}
	if cfg.CloudWatchEnabled {
		metrics = awspkg.NewMetricsClient(awsCfg)
	}

	// Store
	store, db, err := buildStore(cfg, awsCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize store", zap.Error(err))
	}
	if created, err := store.EnsureStore(ctx); err != nil {
		log.Warn("Store not ready, will retry per request", zap.String("store", store.Name()), zap.Error(err))
	} else if created {
		log.Info("Created submission store", zap.String("store", store.Name()))
	}

	// Senders
	channels, smtpSender := buildChannels(cfg, awsCfg, log)

	// Dependency injection
	notificationService, err := services.NewNotificationService(channels, services.NotificationConfig{
		Recipient:  cfg.NotifyRecipient,
		StoreName:  cfg.StoreName(),
		Attempts:   cfg.NotifyAttempts,
		RetryDelay: time.Second,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize notification service", zap.Error(err))
	}
	intakeService := services.NewIntakeService(store, notificationService, metrics, log)
	intakeController := controllers.NewIntakeController(intakeService, log)

	// Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(ctx, rate.Limit(float64(cfg.RateLimitPerMinute)/60), cfg.RateLimitPerMinute, 10*time.Minute)

	r := gin.New()
	r.Use(
		logger.RequestID(),
		apperrors.Recovery(log),
		middleware.RequestLogger(log),
		middleware.MetricsMiddleware(metrics, routes.ServiceName),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimitMiddleware(limiter),
		middleware.Timeout(30*time.Second),
		apperrors.ErrorMiddleware(log),
	)
	routes.RegisterRoutes(r, intakeController, []byte(cfg.AdminJWTSecret))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Intake service started",
			zap.String("port", cfg.Port),
			zap.String("store", store.Name()),
			zap.Strings("channels", cfg.NotifyChannels),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if cfg.ConsumerEnabled {
		if smtpSender == nil {
			log.Warn("NOTIFY_CONSUMER_ENABLED set but SMTP is not configured; consumer not started")
		} else {
			sqsConsumer := consumer.NewSQSConsumer(awspkg.NewQueue(awsCfg, cfg.SQSQueueURL), smtpSender, metrics, log)
			g.Go(func() error { return sqsConsumer.Start(gctx) })
		}
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Intake service stopped with error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Intake service stopped gracefully")
}

func initLogger(ctx context.Context, cfg *Config, awsCfg sdkaws.Config) (*zap.Logger, error) {
	if !cfg.CloudWatchEnabled {
		return logger.Initialize(cfg.AppEnv)
	}
	cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, routes.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CloudWatch Logs init failed (non-fatal): %v\n", err)
		return logger.Initialize(cfg.AppEnv)
	}
	return logger.InitializeWithWriter(cfg.AppEnv, cwLogs)
}

func buildStore(cfg *Config, awsCfg sdkaws.Config, log *zap.Logger) (repository.SubmissionStore, *gorm.DB, error) {
	switch cfg.StoreBackend {
	case StoreS3:
		objects := awspkg.NewObjectClient(awspkg.NewS3Client(awsCfg), cfg.S3Bucket)
		return repository.NewS3Store(objects, cfg.S3Key), nil, nil
	case StoreDynamoDB:
		return repository.NewDynamoStore(awspkg.NewDynamoDBClient(awsCfg), cfg.DynamoTable), nil, nil
	case StorePostgres:
		db, err := database.ConnectPostgres(cfg.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormStore(db), db, nil
	default:
		return repository.NewFileStore(cfg.StoreFilePath), nil, nil
	}
}

// buildChannels returns the configured notification channels plus the SMTP
// sender (nil when SMTP is not configured) for the queue consumer. A channel
// that cannot be built is logged and skipped; notification is best effort.
func buildChannels(cfg *Config, awsCfg sdkaws.Config, log *zap.Logger) ([]sender.Channel, *sender.SMTPSender) {
	smtpSender, smtpErr := sender.NewSMTPSender(cfg.SMTP)

	var channels []sender.Channel
	for _, name := range cfg.NotifyChannels {
		switch name {
		case models.ChannelEmail:
			if smtpSender == nil {
				log.Warn("SMTP channel disabled", zap.Error(smtpErr))
				continue
			}
			channels = append(channels, smtpSender)
		case models.ChannelSNS:
			s, err := sender.NewSNSSender(awspkg.NewSNSClient(awsCfg), cfg.SNSTopicARN)
			if err != nil {
				log.Warn("SNS channel disabled", zap.Error(err))
				continue
			}
			channels = append(channels, s)
		case models.ChannelQueue:
			channels = append(channels, sender.NewQueueSender(awspkg.NewQueue(awsCfg, cfg.SQSQueueURL)))
		}
	}
	if len(channels) == 0 {
		log.Warn("No notification channel configured; submissions are stored without notification")
	}
	return channels, smtpSender
}

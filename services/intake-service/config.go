package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	"github.com/metalstreets/contact-backend/services/intake-service/database"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/sender"
	"github.com/metalstreets/contact-backend/services/intake-service/services"
)

const (
	StoreFile     = "file"
	StoreS3       = "s3"
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"

	defaultStoreName = "Metal_Streets_Media_Contact_Submissions.csv"
)

// Config holds all configuration for the intake service.
type Config struct {
	Port   string
	AppEnv string

	StoreBackend  string
	StoreFilePath string
	S3Bucket      string
	S3Key         string
	DynamoTable   string
	Postgres      database.PostgresConfig

	NotifyRecipient string
	NotifyChannels  []string
	NotifyAttempts  int
	SMTP            sender.SMTPConfig
	SNSTopicARN     string
	SQSQueueURL     string
	ConsumerEnabled bool

	AllowedOrigins     []string
	AdminJWTSecret     string
	RateLimitPerMinute int
	CloudWatchEnabled  bool
}

// StoreName is how notifications refer to the store.
func (c *Config) StoreName() string {
	switch c.StoreBackend {
	case StoreS3:
		return fmt.Sprintf("s3://%s/%s", c.S3Bucket, c.S3Key)
	case StorePostgres:
		return "the submission_records table"
	case StoreDynamoDB:
		return "the " + c.DynamoTable + " table"
	default:
		return c.StoreFilePath
	}
}

func (c *Config) usesAWS() bool {
	if c.StoreBackend == StoreS3 || c.StoreBackend == StoreDynamoDB || c.ConsumerEnabled || c.CloudWatchEnabled {
		return true
	}
	for _, ch := range c.NotifyChannels {
		if ch == models.ChannelSNS || ch == models.ChannelQueue {
			return true
		}
	}
	return false
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig(ctx context.Context) (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8093"),
		AppEnv:        getEnv("APP_ENV", "development"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", StoreFile)),
		StoreFilePath: getEnv("STORE_FILE_PATH", "data/"+defaultStoreName),
		S3Bucket:      os.Getenv("STORE_S3_BUCKET"),
		S3Key:         getEnv("STORE_S3_KEY", defaultStoreName),
		DynamoTable:   getEnv("STORE_DYNAMODB_TABLE", "contact_submissions"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		NotifyRecipient: getEnv("NOTIFY_RECIPIENT", services.DefaultRecipient),
		NotifyChannels:  splitList(getEnv("NOTIFY_CHANNELS", models.ChannelEmail)),
		NotifyAttempts:  getEnvInt("NOTIFY_ATTEMPTS", 1),
		SMTP: sender.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
		},
		SNSTopicARN:        os.Getenv("NOTIFY_SNS_TOPIC_ARN"),
		SQSQueueURL:        os.Getenv("NOTIFY_SQS_QUEUE_URL"),
		ConsumerEnabled:    os.Getenv("NOTIFY_CONSUMER_ENABLED") == "true",
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		AdminJWTSecret:     os.Getenv("ADMIN_JWT_SECRET"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		CloudWatchEnabled:  os.Getenv("CLOUDWATCH_ENABLED") == "true",
	}

	// Override credentials from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(ctx); err == nil {
			applySecrets(ctx, cfg, awspkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecrets overrides credentials with whatever the secrets hold. Missing
// secrets keep the environment values.
func applySecrets(ctx context.Context, cfg *Config, sg awspkg.SecretsGetter) {
	if m, err := awspkg.SecretFields(ctx, sg, "contact/SMTP_CREDENTIALS"); err == nil {
		if v, ok := m["SMTP_HOST"]; ok {
			cfg.SMTP.Host = v
		}
		if v, ok := m["SMTP_USER"]; ok {
			cfg.SMTP.Username = v
		}
		if v, ok := m["SMTP_PASS"]; ok {
			cfg.SMTP.Password = v
		}
	}
	if m, err := awspkg.SecretFields(ctx, sg, "contact/DB_CREDENTIALS"); err == nil {
		if v, ok := m["POSTGRES_USER"]; ok {
			cfg.Postgres.User = v
		}
		if v, ok := m["POSTGRES_PASSWORD"]; ok {
			cfg.Postgres.Password = v
		}
		if v, ok := m["POSTGRES_DB"]; ok {
			cfg.Postgres.DB = v
		}
		if v, ok := m["POSTGRES_HOST"]; ok {
			cfg.Postgres.Host = v
		}
	}
	if v, err := sg.GetSecret(ctx, "contact/ADMIN_JWT_SECRET"); err == nil && v != "" {
		cfg.AdminJWTSecret = v
	}
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreFile:
		if c.StoreFilePath == "" {
			return fmt.Errorf("STORE_FILE_PATH not set")
		}
	case StoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("STORE_S3_BUCKET not set")
		}
	case StoreDynamoDB:
		if c.DynamoTable == "" {
			return fmt.Errorf("STORE_DYNAMODB_TABLE not set")
		}
	case StorePostgres:
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DB == "" {
			return fmt.Errorf("database config incomplete")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	for _, ch := range c.NotifyChannels {
		switch ch {
		case models.ChannelEmail:
		case models.ChannelSNS:
			if c.SNSTopicARN == "" {
				return fmt.Errorf("NOTIFY_SNS_TOPIC_ARN not set")
			}
		case models.ChannelQueue:
			if c.SQSQueueURL == "" {
				return fmt.Errorf("NOTIFY_SQS_QUEUE_URL not set")
			}
		default:
			return fmt.Errorf("unknown notification channel %q", ch)
		}
	}
	if c.ConsumerEnabled && c.SQSQueueURL == "" {
		return fmt.Errorf("NOTIFY_SQS_QUEUE_URL not set")
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

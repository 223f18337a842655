package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	awspkg "github.com/metalstreets/contact-backend/pkg/aws"
	"github.com/metalstreets/contact-backend/services/intake-service/database"
	"github.com/metalstreets/contact-backend/services/intake-service/models"
	"github.com/metalstreets/contact-backend/services/intake-service/repository"
)

const defaultStoreKey = "Metal_Streets_Media_Contact_Submissions.csv"

func migrateCmd(opts *rootOptions) *cobra.Command {
	var (
		from   string
		to     string
		toPath string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy submissions from a CSV file store into another store backend",
		Long: `Copy every submission from a CSV file store into another backend.

Targets are configured with the same variables as the intake service:
  s3        STORE_S3_BUCKET, STORE_S3_KEY
  dynamodb  STORE_DYNAMODB_TABLE
  postgres  POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB, POSTGRES_HOST, POSTGRES_PORT
  file      --to-path

Examples:
  contact-submit migrate --from data/submissions.csv --to dynamodb
  contact-submit migrate --from data/submissions.csv --to file --to-path backup.csv --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" {
				return errors.New("--from (or STORE_FILE_PATH) is required")
			}
			log := opts.logger()
			defer log.Sync()

			ctx := cmd.Context()
			src := repository.NewFileStore(from)
			records, err := src.List(ctx)
			if err != nil {
				return fmt.Errorf("read %s: %w", src.Name(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d submissions in %s\n", len(records), src.Name())
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "Dry run - no changes made")
				return nil
			}

			dst, closeFn, err := openTarget(ctx, to, toPath, log)
			if err != nil {
				return err
			}
			defer closeFn()

			migrated, failed, err := migrateRecords(ctx, records, dst, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration complete. migrated=%d failed=%d target=%s\n", migrated, failed, dst.Name())
			if failed > 0 {
				return fmt.Errorf("%d submissions could not be written", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", os.Getenv("STORE_FILE_PATH"), "source CSV file store")
	cmd.Flags().StringVar(&to, "to", "dynamodb", "target backend: s3, dynamodb, postgres or file")
	cmd.Flags().StringVar(&toPath, "to-path", "", "target path for the file backend")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "count the submissions without writing anything")
	return cmd
}

// migrateRecords appends records to dst, creating dst first. A record that
// fails to write is logged and skipped.
func migrateRecords(ctx context.Context, records []models.SubmissionRecord, dst repository.SubmissionStore, log *zap.Logger) (migrated, failed int, err error) {
	created, err := dst.EnsureStore(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("prepare %s: %w", dst.Name(), err)
	}
	if created {
		log.Info("created target store", zap.String("store", dst.Name()))
	}

	for _, rec := range records {
		if err := dst.Append(ctx, rec); err != nil {
			log.Warn("failed to write submission",
				zap.String("email", rec.Email),
				zap.String("timestamp", rec.Timestamp),
				zap.Error(err),
			)
			failed++
			continue
		}
		migrated++
		if migrated%100 == 0 {
			log.Info("migration progress", zap.Int("migrated", migrated))
		}
	}
	return migrated, failed, nil
}

func openTarget(ctx context.Context, backend, path string, log *zap.Logger) (repository.SubmissionStore, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(backend) {
	case "file":
		if path == "" {
			return nil, nil, errors.New("--to-path is required for the file backend")
		}
		return repository.NewFileStore(path), noop, nil
	case "postgres":
		db, err := database.ConnectPostgres(database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormStore(db), func() error { return database.Close(db) }, nil
	case "s3", "dynamodb":
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("aws config: %w", err)
		}
		if strings.EqualFold(backend, "s3") {
			bucket := os.Getenv("STORE_S3_BUCKET")
			if bucket == "" {
				return nil, nil, errors.New("STORE_S3_BUCKET not set")
			}
			objects := awspkg.NewObjectClient(awspkg.NewS3Client(awsCfg), bucket)
			return repository.NewS3Store(objects, getEnv("STORE_S3_KEY", defaultStoreKey)), noop, nil
		}
		table := getEnv("STORE_DYNAMODB_TABLE", "contact_submissions")
		return repository.NewDynamoStore(awspkg.NewDynamoDBClient(awsCfg), table), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown target backend %q", backend)
	}
}

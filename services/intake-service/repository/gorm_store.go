package repository

import (
	"context"
	"fmt"

	"github.com/metalstreets/contact-backend/services/intake-service/models"

	"gorm.io/gorm"
)

// GormStore keeps one row per record in submission_records. Rows are only
// ever inserted.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Name() string { return "postgres:submission_records" }

func (s *GormStore) EnsureStore(ctx context.Context) (bool, error) {
	db := s.db.WithContext(ctx)
	if db.Migrator().HasTable(&models.SubmissionRow{}) {
		return false, nil
	}
	if err := db.AutoMigrate(&models.SubmissionRow{}); err != nil {
		return false, fmt.Errorf("create submission_records: %w", err)
	}
	return true, nil
}

func (s *GormStore) Append(ctx context.Context, rec models.SubmissionRecord) error {
	row := models.RowFromRecord(rec)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context) ([]models.SubmissionRecord, error) {
	var rows []models.SubmissionRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	records := make([]models.SubmissionRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return records, nil
}

package models

import "time"

// SubmissionRow is the postgres rendition of a SubmissionRecord. ID is the
// append order.
type SubmissionRow struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Timestamp    string    `gorm:"type:text;not null"`
	Name         string    `gorm:"type:text;not null"`
	Email        string    `gorm:"type:text;not null"`
	Phone        string    `gorm:"type:text;not null"`
	Country      string    `gorm:"type:text;not null"`
	BusinessType string    `gorm:"type:text;not null"`
	Services     string    `gorm:"type:text;not null"`
	Budget       string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (SubmissionRow) TableName() string { return "submission_records" }

func RowFromRecord(rec SubmissionRecord) SubmissionRow {
	return SubmissionRow{
		Timestamp:    rec.Timestamp,
		Name:         rec.Name,
		Email:        rec.Email,
		Phone:        rec.Phone,
		Country:      rec.Country,
		BusinessType: rec.BusinessType,
		Services:     rec.Services,
		Budget:       rec.Budget,
	}
}

func (r SubmissionRow) Record() SubmissionRecord {
	return SubmissionRecord{
		Timestamp:    r.Timestamp,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Country:      r.Country,
		BusinessType: r.BusinessType,
		Services:     r.Services,
		Budget:       r.Budget,
	}
}

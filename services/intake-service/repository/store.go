package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

// SubmissionStore is an append-only record store. Records are never updated
// or deleted through this interface.
type SubmissionStore interface {
	// EnsureStore locates the store, creating it (with its header) when absent.
	// It reports whether this call created it. Calling it repeatedly is safe.
	EnsureStore(ctx context.Context) (bool, error)
	// Append adds one record after every existing record.
	Append(ctx context.Context, rec models.SubmissionRecord) error
	// List returns every record in append order.
	List(ctx context.Context) ([]models.SubmissionRecord, error)
	// Name identifies the backend in logs.
	Name() string
}

// ErrStoreMissing is returned by Append/List when EnsureStore was never run.
var ErrStoreMissing = errors.New("submission store does not exist")

// HeaderLine is the first line of every CSV rendition of the store.
func HeaderLine() string {
	return strings.Join(models.Columns, ",") + "\n"
}

// FormatLine renders rec as one store line: every value double-quoted, embedded
// quotes doubled, comma separated, newline terminated.
func FormatLine(rec models.SubmissionRecord) string {
	fields := rec.Fields()
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	return b.String()
}

// ParseLine is the inverse of FormatLine.
func ParseLine(line string) (models.SubmissionRecord, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = len(models.Columns)
	fields, err := r.Read()
	if err != nil {
		return models.SubmissionRecord{}, fmt.Errorf("parse store line: %w", err)
	}
	return models.RecordFromFields(fields), nil
}

// ParseCSV reads a whole store rendition, header included.
func ParseCSV(src io.Reader) ([]models.SubmissionRecord, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = len(models.Columns)

	var records []models.SubmissionRecord
	first := true
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse store: %w", err)
		}
		if first {
			first = false
			if strings.EqualFold(fields[0], models.Columns[0]) {
				continue
			}
		}
		records = append(records, models.RecordFromFields(fields))
	}
	return records, nil
}

// WriteCSV renders records with the header, the same bytes a file store holds.
func WriteCSV(w io.Writer, records []models.SubmissionRecord) error {
	if _, err := io.WriteString(w, HeaderLine()); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := io.WriteString(w, FormatLine(rec)); err != nil {
			return err
		}
	}
	return nil
}

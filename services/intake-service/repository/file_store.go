package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

// FileStore keeps the store as a CSV file on local disk.
//
// The header is written to a temp file that is then hard-linked into place, so
// the file never exists without its header and two racing creators produce one
// header. Appends are single write(2) calls on an O_APPEND descriptor, which
// the OS serializes for regular files.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Name() string { return "file:" + s.path }

func (s *FileStore) EnsureStore(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.csv")
	if err != nil {
		return false, fmt.Errorf("create store: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(HeaderLine()); err != nil {
		tmp.Close()
		return false, fmt.Errorf("write store header: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return false, fmt.Errorf("chmod store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close store: %w", err)
	}

	if err := os.Link(tmpName, s.path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("publish store: %w", err)
	}
	return true, nil
}

func (s *FileStore) Append(ctx context.Context, rec models.SubmissionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrStoreMissing
		}
		return fmt.Errorf("open store: %w", err)
	}

	if _, err := f.WriteString(FormatLine(rec)); err != nil {
		f.Close()
		return fmt.Errorf("append to store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]models.SubmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrStoreMissing
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmcdole/shelf/internal/domain"
)

var _ domain.Storage = (*FileStore)(nil)

// FileStore keeps the catalog as a single JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the document at path. Nothing is
// created until the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Location() string { return s.path }

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Load() ([]domain.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Book{}, nil
		}
		return nil, &domain.CorruptStorageError{Location: s.path, Err: err}
	}

	books, err := decodeBooks(data)
	if err != nil {
		return nil, &domain.CorruptStorageError{Location: s.path, Err: err}
	}
	return books, nil
}

// Save writes to a temp file in the target directory, syncs it and renames
// it over the document.
func (s *FileStore) Save(books []domain.Book) error {
	data, err := encodeBooks(books)
	if err != nil {
		return &domain.StorageWriteError{Location: s.path, Err: err}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return &domain.StorageWriteError{Location: s.path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

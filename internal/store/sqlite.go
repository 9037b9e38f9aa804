package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmcdole/shelf/internal/domain"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS books (
	position INTEGER PRIMARY KEY,
	title    TEXT    NOT NULL,
	author   TEXT    NOT NULL,
	year     INTEGER NOT NULL,
	genre    TEXT    NOT NULL,
	read     INTEGER NOT NULL
)`

var _ domain.Storage = (*SQLiteStore)(nil)

// SQLiteStore keeps one row per book; position preserves catalog order.
// The database is opened lazily and the schema is only created by Save, so
// loading never writes to the file.
type SQLiteStore struct {
	path   string
	db     *sql.DB
	schema bool // books table known to exist
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Location() string { return s.path }

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		s.schema = false
		return err
	}
	return nil
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	s.db = db
	return db, nil
}

// hasBooksTable reports whether the schema was created by an earlier Save.
func (s *SQLiteStore) hasBooksTable(db *sql.DB) (bool, error) {
	if s.schema {
		return true, nil
	}
	var n int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'books'`).Scan(&n)
	if err != nil {
		return false, err
	}
	s.schema = n > 0
	return s.schema, nil
}

func (s *SQLiteStore) Load() ([]domain.Book, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			return []domain.Book{}, nil
		}
	}

	db, err := s.open()
	if err != nil {
		return nil, &domain.CorruptStorageError{Location: s.path, Err: err}
	}

	ok, err := s.hasBooksTable(db)
	if err != nil {
		return nil, &domain.CorruptStorageError{Location: s.path, Err: err}
	}
	if !ok {
		return []domain.Book{}, nil
	}

	rows, err := db.Query(`SELECT title, author, year, genre, read FROM books ORDER BY position`)
	if err != nil {
		return nil, &domain.CorruptStorageError{Location: s.path, Err: err}
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.Title, &b.Author, &b.Year, &b.Genre, &b.Read); err != nil {
			return nil, &domain.CorruptStorageError{Location: s.path, Err: err}
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.CorruptStorageError{Location: s.path, Err: err}
	}
	return books, nil
}

// Save replaces every row inside one transaction.
func (s *SQLiteStore) Save(books []domain.Book) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &domain.StorageWriteError{Location: s.path, Err: err}
	}
	db, err := s.open()
	if err != nil {
		return &domain.StorageWriteError{Location: s.path, Err: err}
	}
	if !s.schema {
		if _, err := db.Exec(sqliteSchema); err != nil {
			return &domain.StorageWriteError{Location: s.path, Err: fmt.Errorf("failed to create schema: %w", err)}
		}
		s.schema = true
	}
	if err := replaceRows(db, books); err != nil {
		return &domain.StorageWriteError{Location: s.path, Err: err}
	}
	return nil
}

func replaceRows(db *sql.DB, books []domain.Book) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO books (position, title, author, year, genre, read) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, b := range books {
		if _, err := stmt.Exec(i, b.Title, b.Author, b.Year, b.Genre, b.Read); err != nil {
			return fmt.Errorf("insert %q: %w", b.Title, err)
		}
	}

	return tx.Commit()
}

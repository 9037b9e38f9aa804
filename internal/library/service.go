// Package library implements the catalog service: it owns the in-memory list
// of books, mirrors it to a domain.Storage after every mutation and answers
// queries from memory.
package library

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
)

// Service owns the catalog.
type Service struct {
	storage domain.Storage
	logger  *slog.Logger

	mu    sync.RWMutex // Protects books
	books []domain.Book
}

// New creates a service and loads the catalog from storage.
// A corrupt catalog is returned as an error; nothing is discarded.
func New(storage domain.Storage, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{storage: storage, logger: logger}

	books, err := s.Load()
	if err != nil {
		return nil, err
	}
	s.books = books
	s.logger.Info("catalog loaded", "location", storage.Location(), "count", len(books))
	return s, nil
}

// Location describes the backing storage.
func (s *Service) Location() string {
	return s.storage.Location()
}

// Load reads the stored catalog without touching the one held in memory.
func (s *Service) Load() ([]domain.Book, error) {
	books, err := s.storage.Load()
	if err != nil {
		s.logger.Error("failed to load catalog", "error", err, "location", s.storage.Location())
		return nil, err
	}
	return books, nil
}

// Save overwrites durable storage with records. The in-memory catalog is
// left as is.
func (s *Service) Save(records []domain.Book) error {
	if err := s.storage.Save(records); err != nil {
		s.logger.Error("failed to save catalog", "error", err, "location", s.storage.Location())
		return err
	}
	s.logger.Debug("catalog saved", "count", len(records))
	return nil
}

// Add validates and appends a book, then persists the catalog.
// If persisting fails the book stays in memory and is returned together
// with the *domain.StorageWriteError.
func (s *Service) Add(title, author string, year int, genre string, read bool) (domain.Book, error) {
	book, err := domain.NewBook(title, author, year, genre, read)
	if err != nil {
		s.logger.Debug("rejected book", "error", err)
		return domain.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = append(s.books, book)
	s.logger.Info("book added", "title", book.Title, "author", book.Author)

	if err := s.Save(s.books); err != nil {
		return book, fmt.Errorf("book added but not saved: %w", err)
	}
	return book, nil
}

// Remove deletes every book whose title equals title exactly and persists
// the catalog, even when nothing matched. It returns the number removed.
func (s *Service) Remove(title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.Book, 0, len(s.books))
	for _, b := range s.books {
		if b.Title != title {
			kept = append(kept, b)
		}
	}
	removed := len(s.books) - len(kept)
	s.books = kept
	s.logger.Info("books removed", "title", title, "count", removed)

	if err := s.Save(s.books); err != nil {
		return removed, fmt.Errorf("books removed but not saved: %w", err)
	}
	return removed, nil
}

// Search returns books whose title or author contains query, ignoring case.
func (s *Service) Search(query string) []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := search.Filter(s.books, query)
	s.logger.Debug("searched catalog", "query", query, "results", len(results))
	return results
}

// ListAll returns a copy of the catalog in order.
func (s *Service) ListAll() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]domain.Book, len(s.books))
	copy(books, s.books)
	return books
}

// Statistics summarizes the current catalog.
func (s *Service) Statistics() domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.ComputeStatistics(s.books)
}

// Suggest returns up to limit catalog titles that resemble title.
func (s *Service) Suggest(title string, limit int) []string {
	s.mu.RLock()
	titles := make([]string, len(s.books))
	for i, b := range s.books {
		titles[i] = b.Title
	}
	s.mu.RUnlock()

	return search.SuggestTitles(title, titles, limit)
}

// Close releases the storage backend.
func (s *Service) Close() error {
	return s.storage.Close()
}

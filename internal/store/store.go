package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket and key names
var (
	bucketCatalog = []byte("catalog")
	keyBooks      = []byte("books")
)

// MemoryLocation is reported by stores that do not persist.
const MemoryLocation = ":memory:"

var _ domain.Storage = (*BoltStore)(nil)

// BoltStore keeps the catalog document in a BoltDB file.
// An empty path selects memory-only mode (no persistence).
type BoltStore struct {
	db   *bolt.DB
	path string

	mu  sync.RWMutex // Protects mem
	mem []byte       // Document held in memory-only mode
}

func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return &BoltStore{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	existed := statErr == nil

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		// An existing file that bolt cannot read is not a catalog database
		if existed && !errors.Is(err, bolt.ErrTimeout) {
			return nil, &domain.CorruptStorageError{Location: path, Err: err}
		}
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCatalog)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, path: path}, nil
}

func (s *BoltStore) Location() string {
	if s.db == nil {
		return MemoryLocation
	}
	return s.path
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *BoltStore) Load() ([]domain.Book, error) {
	data, err := s.get()
	if err != nil {
		return nil, &domain.CorruptStorageError{Location: s.Location(), Err: err}
	}
	if data == nil {
		return []domain.Book{}, nil
	}

	books, err := decodeBooks(data)
	if err != nil {
		return nil, &domain.CorruptStorageError{Location: s.Location(), Err: err}
	}
	return books, nil
}

// Save replaces the document in a single bolt transaction.
func (s *BoltStore) Save(books []domain.Book) error {
	data, err := encodeBooks(books)
	if err != nil {
		return &domain.StorageWriteError{Location: s.Location(), Err: err}
	}
	if err := s.set(data); err != nil {
		return &domain.StorageWriteError{Location: s.Location(), Err: err}
	}
	return nil
}

// get returns a copy of the stored document, or nil if none was saved.
func (s *BoltStore) get() ([]byte, error) {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.mem == nil {
			return nil, nil
		}
		return append([]byte(nil), s.mem...), nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCatalog)
		if b == nil {
			return nil
		}
		if v := b.Get(keyBooks); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, err
}

func (s *BoltStore) set(data []byte) error {
	if s.db == nil {
		s.mu.Lock()
		s.mem = data
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketCatalog)
		if err != nil {
			return err
		}
		return b.Put(keyBooks, data)
	})
}

package domain

// Storage persists the full catalog as one ordered document.
// Implementations must make Save atomic: a later Load sees either the
// previous catalog or the new one, never a partial write.
type Storage interface {
	// Load returns the stored records in order. A missing location is an
	// empty catalog, not an error. Undecodable data returns *CorruptStorageError.
	Load() ([]Book, error)

	// Save replaces the stored catalog. Failures return *StorageWriteError.
	Save(books []Book) error

	// Location describes where the catalog lives (file path or ":memory:")
	Location() string

	Close() error
}

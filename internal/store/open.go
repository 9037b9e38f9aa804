package store

import (
	"fmt"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
)

// Backend names accepted by Open
const (
	BackendJSON   = "json"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendJSON, BackendBolt, BackendSQLite}
}

// Open returns the storage backend named by backend, rooted at path.
// An empty backend selects the JSON document.
func Open(backend, path string) (domain.Storage, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		if path == "" {
			return nil, fmt.Errorf("json backend requires a file path")
		}
		return NewFileStore(path), nil
	case BackendBolt:
		s, err := NewBoltStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite backend requires a file path")
		}
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want one of %s)", backend, strings.Join(Backends(), ", "))
	}
}

package storage

import (
	"fmt"

	"github.com/nikbrunner/nt/internal/bookmarks"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Open returns the store for backend. path is ignored by the memory and
// none backends. SQLite stores implement io.Closer.
func Open(backend, path string) (bookmarks.Store, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStore(path)
	case BackendJSON:
		return NewJSONStore(path), nil
	case BackendMemory:
		return NewMemoryStore(nil), nil
	case BackendNone:
		return NoneStore{}, nil
	default:
		return nil, fmt.Errorf("unknown bookmark backend %q", backend)
	}
}

// Persistent reports whether backend writes to a file that can be watched.
func Persistent(backend string) bool {
	return backend == BackendSQLite || backend == BackendJSON || backend == ""
}

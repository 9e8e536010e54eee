// Package cache keeps fetched feed data with a time-to-live and serves
// stale-while-revalidate reads.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// ErrMiss indicates no entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Entry is a cached payload and the time it was written.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix millis
}

// Expired reports whether more than ttl has passed since the entry was written.
func (e Entry) Expired(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-e.Timestamp > ttl.Milliseconds()
}

// Backend stores entries by key.
type Backend interface {
	Get(key string) (Entry, error)
	Set(key string, e Entry) error
}

// MemoryBackend keeps entries in a map.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]Entry)}
}

// Get returns the entry for key or ErrMiss.
func (b *MemoryBackend) Get(key string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[key]
	if !ok {
		return Entry{}, ErrMiss
	}
	return e, nil
}

// Set stores the entry for key.
func (b *MemoryBackend) Set(key string, e Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = e
	return nil
}

var unsafeKey = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileBackend stores one JSON file per key under a directory.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates a FileBackend rooted at dir.
// The directory is created on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Dir returns the cache directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, unsafeKey.ReplaceAllString(key, "_")+".json")
}

// Get reads the entry for key. A missing or unreadable file is a miss.
func (b *FileBackend) Get(key string) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, err
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupt file counts as absent
		return Entry{}, ErrMiss
	}
	return e, nil
}

// Set writes the entry for key atomically.
func (b *FileBackend) Set(key string, e Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := b.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

package storage

import (
	"context"

	"github.com/nikbrunner/nt/internal/model"
)

// MemoryStore keeps the bookmark tree in memory. Nothing is persisted.
type MemoryStore struct {
	*forestStore
}

// NewMemoryStore creates a store seeded with roots, or with the default
// "Bookmarks bar" and "Other bookmarks" folders when roots is empty.
func NewMemoryStore(roots []model.BrowserNode) *MemoryStore {
	f := forestFrom(roots)
	return &MemoryStore{
		forestStore: newForestStore(
			func(context.Context) (*forest, error) { return f, nil },
			func(context.Context, *forest) error { return nil },
		),
	}
}

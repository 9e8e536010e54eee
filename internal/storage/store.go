package storage

import (
	"context"
	"sync"
	"time"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/model"
)

// forestStore implements bookmarks.Store over a forest that is read before
// and written after every operation. The backends supply read and write.
type forestStore struct {
	mu    sync.Mutex
	read  func(ctx context.Context) (*forest, error)
	write func(ctx context.Context, f *forest) error
	newID func() string
	now   func() time.Time
}

func newForestStore(read func(context.Context) (*forest, error), write func(context.Context, *forest) error) *forestStore {
	return &forestStore{
		read:  read,
		write: write,
		newID: model.GenerateUUID,
		now:   time.Now,
	}
}

// GetTree returns the vendor roots.
func (s *forestStore) GetTree(ctx context.Context) ([]model.BrowserNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return f.tree(), nil
}

// Create adds a node under p.ParentID.
func (s *forestStore) Create(ctx context.Context, p bookmarks.CreateParams) (model.BrowserNode, error) {
	var created model.BrowserNode
	err := s.mutate(ctx, func(f *forest) error {
		var err error
		created, err = f.create(p, s.newID(), s.now())
		return err
	})
	return created, err
}

// Move reparents id.
func (s *forestStore) Move(ctx context.Context, id string, dest bookmarks.Destination) (model.BrowserNode, error) {
	var moved model.BrowserNode
	err := s.mutate(ctx, func(f *forest) error {
		var err error
		moved, err = f.move(id, dest)
		return err
	})
	return moved, err
}

// Remove deletes a bookmark or an empty folder.
func (s *forestStore) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(f *forest) error {
		return f.remove(id)
	})
}

// RemoveTree deletes a folder and its subtree.
func (s *forestStore) RemoveTree(ctx context.Context, id string) error {
	return s.mutate(ctx, func(f *forest) error {
		return f.removeTree(id)
	})
}

func (s *forestStore) mutate(ctx context.Context, fn func(*forest) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := s.read(ctx)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.write(ctx, f)
}

// Package bookmarks coordinates mutations of the bookmark tree against an
// external store and keeps the normalized projection in sync with it.
package bookmarks

import (
	"context"

	"github.com/nikbrunner/nt/internal/model"
)

// Store is the external bookmark service. Node IDs are owned by the store.
type Store interface {
	// GetTree returns the vendor roots. The children of the first root are
	// the top-level folders shown to the user.
	GetTree(ctx context.Context) ([]model.BrowserNode, error)
	Create(ctx context.Context, p CreateParams) (model.BrowserNode, error)
	Move(ctx context.Context, id string, dest Destination) (model.BrowserNode, error)
	// Remove deletes a bookmark or an empty folder.
	Remove(ctx context.Context, id string) error
	// RemoveTree deletes a folder and everything below it.
	RemoveTree(ctx context.Context, id string) error
}

// CreateParams describes a new node. An empty URL creates a folder.
type CreateParams struct {
	ParentID  string
	Title     string
	URL       string
	Index     *int
	DateAdded int64 // unix millis; zero means now
}

// Destination describes where Move places a node. A nil Index appends.
type Destination struct {
	ParentID string
	Index    *int
}

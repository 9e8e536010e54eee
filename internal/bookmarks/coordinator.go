package bookmarks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikbrunner/nt/internal/logger"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/navigator"
	"github.com/nikbrunner/nt/internal/tree"
)

// Coordinator applies user mutations to the Store and refreshes the
// normalized tree after each successful one. The tree is never patched
// locally; the store stays the source of truth.
type Coordinator struct {
	store Store
	log   *slog.Logger

	mu           sync.Mutex
	root         *model.Node
	vendorRootID string
	started      uint64 // generation of the newest refetch started
	applied      uint64 // generation of the refetch that produced root
}

// NewCoordinator creates a Coordinator over store. A nil log uses logger.L().
func NewCoordinator(store Store, log *slog.Logger) *Coordinator {
	if log == nil {
		log = logger.L()
	}
	return &Coordinator{
		store: store,
		log:   log,
		root:  model.NewFolder(model.RootKey, model.RootName),
	}
}

// Tree returns the current projection. It is an empty root before Load.
// Callers must treat the returned tree as read-only.
func (c *Coordinator) Tree() *model.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// Load fetches the vendor tree and replaces the projection.
func (c *Coordinator) Load(ctx context.Context) error {
	return c.refetch(ctx)
}

// Refresh refetches after an outside change, such as another process
// writing the store.
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.refetch(ctx)
}

// refetch replaces the projection unless a refetch started later has
// already been applied.
func (c *Coordinator) refetch(ctx context.Context) error {
	c.mu.Lock()
	c.started++
	gen := c.started
	c.mu.Unlock()

	roots, err := c.store.GetTree(ctx)
	if err != nil {
		return c.fail("get tree", err)
	}
	root := tree.Transform(roots)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen < c.applied {
		c.log.Debug("discarding stale tree", "generation", gen, "applied", c.applied)
		return nil
	}
	c.root = root
	c.applied = gen
	if len(roots) > 0 {
		c.vendorRootID = roots[0].ID
	}

	folders, bookmarks := root.Count()
	c.log.Debug("tree loaded", "generation", gen, "folders", folders, "bookmarks", bookmarks)
	return nil
}

// Create adds a folder or bookmark under parentID and refetches.
// The URL is passed to the store only for bookmarks; the store validates it.
func (c *Coordinator) Create(ctx context.Context, parentID string, kind model.Kind, title, url string) (model.BrowserNode, error) {
	params := CreateParams{
		ParentID: c.storeID(parentID),
		Title:    title,
	}
	if kind == model.KindBookmark {
		params.URL = url
	}

	created, err := c.store.Create(ctx, params)
	if err != nil {
		return model.BrowserNode{}, c.fail("create", err)
	}
	c.log.Info("created", "kind", kind, "id", created.ID, "parent", params.ParentID)

	return created, c.refetch(ctx)
}

// Move places itemID at the end of targetFolderID and refetches.
// Moving a node onto itself is a no-op. Moving a folder into its own
// subtree fails with ErrMoveIntoDescendant before the store is called.
func (c *Coordinator) Move(ctx context.Context, itemID, targetFolderID string) error {
	if itemID == targetFolderID {
		return nil
	}

	if item := c.Tree().Find(itemID); item != nil && item.IsFolder() && item.Contains(targetFolderID) {
		c.log.Warn("rejected move", "item", itemID, "target", targetFolderID, "error", ErrMoveIntoDescendant)
		return fmt.Errorf("%w: %s into %s", ErrMoveIntoDescendant, itemID, targetFolderID)
	}

	dest := Destination{ParentID: c.storeID(targetFolderID)}
	if _, err := c.store.Move(ctx, itemID, dest); err != nil {
		return c.fail("move", err)
	}
	c.log.Info("moved", "id", itemID, "parent", dest.ParentID)

	return c.refetch(ctx)
}

// MoveToAncestor moves itemID into the folder at breadcrumb index of path
// and returns the truncated path to navigate to.
func (c *Coordinator) MoveToAncestor(ctx context.Context, itemID string, path navigator.Path, index int) (navigator.Path, error) {
	if index < 0 || index >= len(path) {
		return nil, fmt.Errorf("%w: %d", navigator.ErrIndexOutOfRange, index)
	}

	crumbs, err := navigator.Breadcrumbs(c.Tree(), path[:index+1])
	if err != nil {
		return nil, err
	}
	target := crumbs[len(crumbs)-1]

	if err := c.Move(ctx, itemID, target.ID); err != nil {
		return nil, err
	}
	return path[:index+1].Clone(), nil
}

// Remove deletes a bookmark, or a folder with everything below it.
func (c *Coordinator) Remove(ctx context.Context, itemID string, kind model.Kind) error {
	var err error
	if kind == model.KindFolder {
		err = c.store.RemoveTree(ctx, itemID)
	} else {
		err = c.store.Remove(ctx, itemID)
	}
	if err != nil {
		return c.fail("remove", err)
	}
	c.log.Info("removed", "kind", kind, "id", itemID)

	return c.refetch(ctx)
}

// storeID maps the synthetic root onto the store's own root folder.
func (c *Coordinator) storeID(id string) string {
	if id != model.RootKey {
		return id
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vendorRootID == "" {
		return id
	}
	return c.vendorRootID
}

func (c *Coordinator) fail(op string, err error) error {
	err = fmt.Errorf("%w: %s: %w", ErrExternalStore, op, err)
	c.log.Error("bookmark store failure", "op", op, "error", err)
	return err
}

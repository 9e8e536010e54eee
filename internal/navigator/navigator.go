// Package navigator tracks the folder currently shown in the bookmark
// browser as a path of navigation keys starting at the synthetic root.
package navigator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikbrunner/nt/internal/logger"
	"github.com/nikbrunner/nt/internal/model"
)

var (
	// ErrNotFound indicates a path segment does not resolve to a folder.
	ErrNotFound = errors.New("folder not found")

	// ErrNavigationInconsistency indicates the current path no longer
	// resolves against a refreshed tree.
	ErrNavigationInconsistency = errors.New("navigation path no longer resolves")

	// ErrIndexOutOfRange indicates a breadcrumb index outside the path.
	ErrIndexOutOfRange = errors.New("breadcrumb index out of range")
)

// Path is a sequence of navigation keys; element 0 is always model.RootKey.
type Path []string

// RootPath returns the path to the root folder.
func RootPath() Path {
	return Path{model.RootKey}
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Resolve walks root along path. Segment 0 stands for root itself; every
// later segment is a child key lookup. Fails if a segment is missing or
// names a bookmark.
func Resolve(root *model.Node, path Path) (*model.Node, error) {
	crumbs, err := Breadcrumbs(root, path)
	if err != nil {
		return nil, err
	}
	return crumbs[len(crumbs)-1], nil
}

// Breadcrumbs resolves every prefix of path, returning one node per segment.
func Breadcrumbs(root *model.Node, path Path) ([]*model.Node, error) {
	if root == nil || len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrNotFound)
	}

	crumbs := make([]*model.Node, 0, len(path))
	current := root
	crumbs = append(crumbs, current)

	for i, key := range path[1:] {
		next := current.Child(key)
		if next == nil {
			return nil, fmt.Errorf("%w: %q at depth %d", ErrNotFound, key, i+1)
		}
		if !next.IsFolder() {
			return nil, fmt.Errorf("%w: %q is a bookmark", ErrNotFound, key)
		}
		current = next
		crumbs = append(crumbs, current)
	}

	return crumbs, nil
}

// PathTo builds a path by walking folder names from root. The walk stops at
// the first name with no matching child folder and returns the path matched
// so far. A non-empty leaf is appended the same way after the ancestors.
func PathTo(root *model.Node, folderNames []string, leaf string) Path {
	path := RootPath()
	current := root

	names := folderNames
	if leaf != "" {
		names = append(append([]string{}, folderNames...), leaf)
	}

	for _, name := range names {
		next := current.ChildFolderNamed(name)
		if next == nil {
			break
		}
		path = append(path, next.Key)
		current = next
	}

	return path
}

// Navigator holds the current path of the bookmark browser.
type Navigator struct {
	path Path
	log  *slog.Logger
}

// New creates a Navigator at the root folder.
func New() *Navigator {
	return &Navigator{
		path: RootPath(),
		log:  logger.L(),
	}
}

// Path returns a copy of the current path.
func (n *Navigator) Path() Path {
	return n.path.Clone()
}

// Depth returns the number of folders below root in the current path.
func (n *Navigator) Depth() int {
	return len(n.path) - 1
}

// AtRoot returns true if the root folder is shown.
func (n *Navigator) AtRoot() bool {
	return len(n.path) == 1
}

// Enter appends key to the path. The folder is not validated here; a bad
// key surfaces on the next Resolve or Current.
func (n *Navigator) Enter(key string) {
	n.path = append(n.path, key)
}

// Back moves to the parent folder. No-op at root.
func (n *Navigator) Back() {
	if len(n.path) > 1 {
		n.path = n.path[:len(n.path)-1]
	}
}

// NavigateTo truncates the path to index+1 segments, as a breadcrumb click.
func (n *Navigator) NavigateTo(index int) error {
	if index < 0 || index >= len(n.path) {
		return fmt.Errorf("%w: %d (depth %d)", ErrIndexOutOfRange, index, n.Depth())
	}
	n.path = n.path[:index+1]
	return nil
}

// SetPath replaces the current path. An empty path or one that does not
// start at root is replaced by the root path.
func (n *Navigator) SetPath(p Path) {
	if len(p) == 0 || p[0] != model.RootKey {
		n.path = RootPath()
		return
	}
	n.path = p.Clone()
}

// Reset returns to the root folder.
func (n *Navigator) Reset() {
	n.path = RootPath()
}

// Current resolves the current path against root. If it no longer
// resolves, navigation falls back to the root path and reset is true.
func (n *Navigator) Current(root *model.Node) (folder *model.Node, reset bool) {
	folder, err := Resolve(root, n.path)
	if err == nil {
		return folder, false
	}

	n.log.Warn("resetting navigation to root",
		"error", fmt.Errorf("%w: %w", ErrNavigationInconsistency, err),
		"path", n.path)
	n.Reset()
	return root, true
}

// Contains returns true if the folder with the given ID is on the current
// path (root excluded). Used after a delete to leave a removed folder.
func (n *Navigator) Contains(root *model.Node, id string) bool {
	crumbs, err := Breadcrumbs(root, n.path)
	if err != nil {
		return false
	}
	for _, c := range crumbs[1:] {
		if c.ID == id {
			return true
		}
	}
	return false
}

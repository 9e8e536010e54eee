package bookmarks

import "errors"

var (
	// ErrExternalStore wraps every failure reported by the Store.
	ErrExternalStore = errors.New("bookmark store error")

	// ErrMoveIntoDescendant indicates a folder move into its own subtree.
	ErrMoveIntoDescendant = errors.New("cannot move a folder into itself or its descendants")
)

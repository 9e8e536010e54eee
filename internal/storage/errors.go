package storage

import "errors"

var (
	// ErrNotFound indicates an unknown node id.
	ErrNotFound = errors.New("node not found")

	// ErrNotFolder indicates a folder operation on a bookmark.
	ErrNotFolder = errors.New("not a folder")

	// ErrInvalidURL indicates a bookmark URL without a scheme.
	ErrInvalidURL = errors.New("invalid url")

	// ErrFolderNotEmpty indicates Remove on a folder with children.
	ErrFolderNotEmpty = errors.New("folder not empty")

	// ErrInvalidMove indicates a move into the moved folder's own subtree.
	ErrInvalidMove = errors.New("invalid move")

	// ErrRootNode indicates an attempt to move or remove the root.
	ErrRootNode = errors.New("cannot modify the root folder")

	// ErrUnavailable is returned by every operation of the None store.
	ErrUnavailable = errors.New("bookmark store unavailable")
)

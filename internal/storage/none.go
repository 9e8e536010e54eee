package storage

import (
	"context"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/model"
)

// NoneStore is the store used when bookmarks are disabled.
// Every operation fails with ErrUnavailable.
type NoneStore struct{}

func (NoneStore) GetTree(context.Context) ([]model.BrowserNode, error) {
	return nil, ErrUnavailable
}

func (NoneStore) Create(context.Context, bookmarks.CreateParams) (model.BrowserNode, error) {
	return model.BrowserNode{}, ErrUnavailable
}

func (NoneStore) Move(context.Context, string, bookmarks.Destination) (model.BrowserNode, error) {
	return model.BrowserNode{}, ErrUnavailable
}

func (NoneStore) Remove(context.Context, string) error {
	return ErrUnavailable
}

func (NoneStore) RemoveTree(context.Context, string) error {
	return ErrUnavailable
}

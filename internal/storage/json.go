package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/nikbrunner/nt/internal/model"
)

// JSONStore persists the bookmark tree as a JSON array of vendor roots.
type JSONStore struct {
	*forestStore
	path string
}

// NewJSONStore creates a JSONStore backed by the file at path.
// A missing file reads as the default tree.
func NewJSONStore(path string) *JSONStore {
	s := &JSONStore{path: path}
	s.forestStore = newForestStore(s.load, s.save)
	return s
}

// Path returns the storage file path.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) load(context.Context) (*forest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newForest(), nil
		}
		return nil, err
	}

	var roots []model.BrowserNode
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, err
	}
	return forestFrom(roots), nil
}

// save writes the tree and creates the directory if it doesn't exist.
// The file is replaced by rename so watchers never see a partial write.
func (s *JSONStore) save(_ context.Context, f *forest) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(f.tree(), "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/storage"
)

// storeFactories builds every persistent and in-memory backend fresh.
func storeFactories(t *testing.T) map[string]func() bookmarks.Store {
	t.Helper()
	return map[string]func() bookmarks.Store{
		"memory": func() bookmarks.Store {
			return storage.NewMemoryStore(nil)
		},
		"json": func() bookmarks.Store {
			return storage.NewJSONStore(filepath.Join(t.TempDir(), "bookmarks.json"))
		},
		"sqlite": func() bookmarks.Store {
			s, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "bookmarks.db"))
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func topLevel(t *testing.T, s bookmarks.Store) []model.BrowserNode {
	t.Helper()
	roots, err := s.GetTree(context.Background())
	if err != nil {
		t.Fatalf("GetTree failed: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	return roots[0].Children
}

func TestStores_DefaultTree(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			children := topLevel(t, newStore())

			if len(children) != 2 {
				t.Fatalf("expected 2 permanent folders, got %d", len(children))
			}
			if children[0].Title != "Bookmarks bar" || children[1].Title != "Other bookmarks" {
				t.Errorf("unexpected folders: %q, %q", children[0].Title, children[1].Title)
			}
		})
	}
}

func TestStores_CreateMoveRemove(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()

			work, err := s.Create(ctx, bookmarks.CreateParams{ParentID: storage.BarID, Title: "Work"})
			if err != nil {
				t.Fatalf("create folder failed: %v", err)
			}
			jira, err := s.Create(ctx, bookmarks.CreateParams{ParentID: work.ID, Title: "Jira", URL: "https://j.com"})
			if err != nil {
				t.Fatalf("create bookmark failed: %v", err)
			}
			if jira.ParentID != work.ID || jira.Index != 0 {
				t.Errorf("unexpected placement: parent=%q index=%d", jira.ParentID, jira.Index)
			}

			moved, err := s.Move(ctx, jira.ID, bookmarks.Destination{ParentID: storage.OtherID})
			if err != nil {
				t.Fatalf("move failed: %v", err)
			}
			if moved.ParentID != storage.OtherID {
				t.Errorf("expected parent %s, got %s", storage.OtherID, moved.ParentID)
			}

			children := topLevel(t, s)
			if len(children[0].Children) != 1 || len(children[0].Children[0].Children) != 0 {
				t.Error("expected Work to be empty after move")
			}
			if len(children[1].Children) != 1 || children[1].Children[0].URL != "https://j.com" {
				t.Error("expected Jira under Other bookmarks")
			}

			if err := s.Remove(ctx, work.ID); err != nil {
				t.Fatalf("remove empty folder failed: %v", err)
			}
			if err := s.Remove(ctx, jira.ID); err != nil {
				t.Fatalf("remove bookmark failed: %v", err)
			}

			children = topLevel(t, s)
			if len(children[0].Children) != 0 || len(children[1].Children) != 0 {
				t.Error("expected both permanent folders empty")
			}
		})
	}
}

func TestStores_CreateAtIndex(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			for _, title := range []string{"A", "C"} {
				if _, err := s.Create(ctx, bookmarks.CreateParams{ParentID: storage.BarID, Title: title}); err != nil {
					t.Fatalf("create %s failed: %v", title, err)
				}
			}
			one := 1
			if _, err := s.Create(ctx, bookmarks.CreateParams{ParentID: storage.BarID, Title: "B", Index: &one}); err != nil {
				t.Fatalf("create B failed: %v", err)
			}

			bar := topLevel(t, s)[0]
			var got []string
			for i, c := range bar.Children {
				got = append(got, c.Title)
				if c.Index != i {
					t.Errorf("child %s has index %d, want %d", c.Title, c.Index, i)
				}
			}
			if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
				t.Errorf("order not preserved: %v", got)
			}
		})
	}
}

func TestStores_Errors(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			parent, err := s.Create(ctx, bookmarks.CreateParams{ParentID: storage.BarID, Title: "Parent"})
			if err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			child, err := s.Create(ctx, bookmarks.CreateParams{ParentID: parent.ID, Title: "Child"})
			if err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			link, err := s.Create(ctx, bookmarks.CreateParams{ParentID: storage.BarID, Title: "Go", URL: "https://go.dev"})
			if err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			tests := []struct {
				name string
				op   func() error
				want error
			}{
				{"invalid url", func() error {
					_, err := s.Create(ctx, bookmarks.CreateParams{ParentID: storage.BarID, Title: "x", URL: "not a url"})
					return err
				}, storage.ErrInvalidURL},
				{"unknown parent", func() error {
					_, err := s.Create(ctx, bookmarks.CreateParams{ParentID: "missing", Title: "x"})
					return err
				}, storage.ErrNotFound},
				{"create under bookmark", func() error {
					_, err := s.Create(ctx, bookmarks.CreateParams{ParentID: link.ID, Title: "x"})
					return err
				}, storage.ErrNotFolder},
				{"move into descendant", func() error {
					_, err := s.Move(ctx, parent.ID, bookmarks.Destination{ParentID: child.ID})
					return err
				}, storage.ErrInvalidMove},
				{"move root", func() error {
					_, err := s.Move(ctx, storage.RootID, bookmarks.Destination{ParentID: storage.BarID})
					return err
				}, storage.ErrRootNode},
				{"remove non-empty folder", func() error {
					return s.Remove(ctx, parent.ID)
				}, storage.ErrFolderNotEmpty},
				{"remove tree on bookmark", func() error {
					return s.RemoveTree(ctx, link.ID)
				}, storage.ErrNotFolder},
				{"remove unknown", func() error {
					return s.Remove(ctx, "missing")
				}, storage.ErrNotFound},
			}

			for _, tt := range tests {
				if err := tt.op(); !errors.Is(err, tt.want) {
					t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
				}
			}

			// Failed operations leave the tree untouched
			bar := topLevel(t, s)[0]
			if len(bar.Children) != 2 {
				t.Errorf("expected 2 children after failures, got %d", len(bar.Children))
			}
		})
	}
}

func TestStores_RemoveTree(t *testing.T) {
	ctx := context.Background()

	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore()
			parent, _ := s.Create(ctx, bookmarks.CreateParams{ParentID: storage.BarID, Title: "Parent"})
			child, _ := s.Create(ctx, bookmarks.CreateParams{ParentID: parent.ID, Title: "Child"})
			leaf, _ := s.Create(ctx, bookmarks.CreateParams{ParentID: child.ID, Title: "Leaf", URL: "https://leaf.example"})

			if err := s.RemoveTree(ctx, parent.ID); err != nil {
				t.Fatalf("RemoveTree failed: %v", err)
			}

			if _, err := s.Move(ctx, leaf.ID, bookmarks.Destination{ParentID: storage.OtherID}); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected descendants removed, got %v", err)
			}
			if len(topLevel(t, s)[0].Children) != 0 {
				t.Error("expected Bookmarks bar to be empty")
			}
		})
	}
}

func TestMemoryStore_SeededTree(t *testing.T) {
	s := storage.NewMemoryStore([]model.BrowserNode{{
		ID: "r",
		Children: []model.BrowserNode{
			{ID: "f1", Title: "Work", Children: []model.BrowserNode{
				{ID: "b1", Title: "Jira", URL: "https://j.com"},
			}},
		},
	}})

	children := topLevel(t, s)
	if len(children) != 1 || children[0].ID != "f1" {
		t.Fatalf("expected seeded folder f1, got %+v", children)
	}
	if children[0].Children[0].ParentID != "f1" {
		t.Errorf("expected parent id f1, got %q", children[0].Children[0].ParentID)
	}
	if err := s.Remove(context.Background(), "r"); !errors.Is(err, storage.ErrRootNode) {
		t.Errorf("expected ErrRootNode for seeded root, got %v", err)
	}
}

func TestNoneStore(t *testing.T) {
	var s bookmarks.Store = storage.NoneStore{}
	ctx := context.Background()

	if _, err := s.GetTree(ctx); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("GetTree: expected ErrUnavailable, got %v", err)
	}
	if _, err := s.Create(ctx, bookmarks.CreateParams{}); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Create: expected ErrUnavailable, got %v", err)
	}
	if err := s.RemoveTree(ctx, "x"); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("RemoveTree: expected ErrUnavailable, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{storage.BackendSQLite, filepath.Join(dir, "b.db"), false},
		{storage.BackendJSON, filepath.Join(dir, "b.json"), false},
		{storage.BackendMemory, "", false},
		{storage.BackendNone, "", false},
		{"bogus", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := storage.Open(tt.backend, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for unknown backend")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if c, ok := s.(interface{ Close() error }); ok {
				c.Close()
			}
		})
	}
}

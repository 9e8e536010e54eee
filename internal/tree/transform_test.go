package tree_test

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/tree"
)

func TestTransform_SingleBookmark(t *testing.T) {
	roots := []model.BrowserNode{{
		ID: "0",
		Children: []model.BrowserNode{
			{ID: "1", Title: "A", URL: "http://x"},
		},
	}}

	root := tree.Transform(roots)

	if root.ID != model.RootKey || root.Key != model.RootKey || root.Name != model.RootName {
		t.Errorf("unexpected root: id=%q key=%q name=%q", root.ID, root.Key, root.Name)
	}
	a := root.Child("A")
	if a == nil {
		t.Fatal("expected child A")
	}
	if a.Kind != model.KindBookmark {
		t.Errorf("expected bookmark, got %s", a.Kind)
	}
	if a.URL != "http://x" {
		t.Errorf("expected url http://x, got %q", a.URL)
	}
}

func TestTransform_NestedFolders(t *testing.T) {
	roots := []model.BrowserNode{{
		ID: "0",
		Children: []model.BrowserNode{
			{ID: "1", Title: "Bookmarks bar", Children: []model.BrowserNode{
				{ID: "3", Title: "Work", Children: []model.BrowserNode{
					{ID: "4", Title: "Jira", URL: "https://j.com"},
				}},
			}},
			{ID: "2", Title: "Other bookmarks"},
		},
	}}

	root := tree.Transform(roots)

	if root.Len() != 2 {
		t.Fatalf("expected 2 top-level folders, got %d", root.Len())
	}
	other := root.Child("Other bookmarks")
	if other == nil || !other.IsFolder() || other.Len() != 0 {
		t.Errorf("expected empty folder 'Other bookmarks', got %+v", other)
	}
	jira := root.Child("Bookmarks bar").Child("Work").Child("Jira")
	if jira == nil || jira.ID != "4" {
		t.Errorf("expected Jira bookmark with id 4, got %+v", jira)
	}
}

func TestTransform_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		roots []model.BrowserNode
	}{
		{"nil roots", nil},
		{"root without children", []model.BrowserNode{{ID: "0"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tree.Transform(tt.roots)
			if !root.IsFolder() || root.Len() != 0 {
				t.Errorf("expected empty root folder, got %d children", root.Len())
			}
		})
	}
}

func TestTransform_DuplicateTitlesKeepBothNodes(t *testing.T) {
	roots := []model.BrowserNode{{
		ID: "0",
		Children: []model.BrowserNode{
			{ID: "1", Title: "Docs", URL: "https://a.example"},
			{ID: "2", Title: "Docs", URL: "https://b.example"},
		},
	}}

	root := tree.Transform(roots)

	if root.Len() != 2 {
		t.Fatalf("expected both duplicates to survive, got %d", root.Len())
	}
	if root.Child("Docs").ID != "1" || root.Child("Docs (2)").ID != "2" {
		t.Error("expected first duplicate under plain key, second under suffixed key")
	}
}

// genNode draws a random vendor subtree.
func genNode(t *rapid.T, depth int, next *int) model.BrowserNode {
	*next++
	n := model.BrowserNode{
		ID:    fmt.Sprint(*next),
		Title: rapid.SampledFrom([]string{"A", "B", "Docs", "Work", ""}).Draw(t, "title"),
	}
	if depth > 2 || rapid.Bool().Draw(t, "leaf") {
		n.URL = "https://example.com/" + n.ID
		return n
	}
	count := rapid.IntRange(0, 4).Draw(t, "children")
	for i := 0; i < count; i++ {
		n.Children = append(n.Children, genNode(t, depth+1, next))
	}
	return n
}

func countVendor(nodes []model.BrowserNode) int {
	total := 0
	for _, n := range nodes {
		total += 1 + countVendor(n.Children)
	}
	return total
}

func TestTransform_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		next := 0
		vendorRoot := model.BrowserNode{ID: "0"}
		for i := rapid.IntRange(0, 5).Draw(t, "top"); i > 0; i-- {
			vendorRoot.Children = append(vendorRoot.Children, genNode(t, 0, &next))
		}

		root := tree.Transform([]model.BrowserNode{vendorRoot})

		nodes := 0
		root.Walk(func(n *model.Node, depth int) bool {
			if depth > 0 {
				nodes++
			}
			if !n.IsFolder() {
				if n.URL == "" {
					t.Fatalf("bookmark %s has empty url", n.ID)
				}
				if n.Len() != 0 {
					t.Fatalf("bookmark %s has children", n.ID)
				}
				return true
			}
			for _, c := range n.Children() {
				if n.Child(c.Key) != c {
					t.Fatalf("key %q does not resolve to its child", c.Key)
				}
				if !strings.HasPrefix(c.Key, c.Name) {
					t.Fatalf("key %q does not derive from name %q", c.Key, c.Name)
				}
			}
			return true
		})

		if want := countVendor(vendorRoot.Children); nodes != want {
			t.Fatalf("transform kept %d nodes, vendor tree has %d", nodes, want)
		}
	})
}

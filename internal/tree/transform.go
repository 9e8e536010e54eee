// Package tree converts the vendor bookmark tree into the normalized
// model.Node tree used for navigation and search.
package tree

import "github.com/nikbrunner/nt/internal/model"

// Transform builds the normalized tree from the vendor roots.
// The children of the first vendor root become the children of a
// synthetic root folder (ID and key "root", name "Bookmarks").
// It never fails: missing roots yield an empty root folder.
func Transform(roots []model.BrowserNode) *model.Node {
	root := model.NewFolder(model.RootKey, model.RootName)
	if len(roots) == 0 {
		return root
	}
	for _, child := range roots[0].Children {
		root.AddChild(transform(child))
	}
	return root
}

func transform(n model.BrowserNode) *model.Node {
	if !n.IsFolder() {
		return model.NewBookmark(n.ID, n.Title, n.URL)
	}

	folder := model.NewFolder(n.ID, n.Title)
	for _, child := range n.Children {
		folder.AddChild(transform(child))
	}
	return folder
}

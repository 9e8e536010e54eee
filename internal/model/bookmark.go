package model

// BrowserNode is a node of the vendor bookmark tree, shaped like the
// browser bookmarks API. A node with a URL is a bookmark, a node without
// one is a folder.
type BrowserNode struct {
	ID        string        `json:"id"`
	ParentID  string        `json:"parentId,omitempty"`
	Index     int           `json:"index"`
	Title     string        `json:"title"`
	URL       string        `json:"url,omitempty"`
	DateAdded int64         `json:"dateAdded,omitempty"` // unix millis
	Children  []BrowserNode `json:"children,omitempty"`
}

// IsFolder returns true if the node has no URL.
func (n BrowserNode) IsFolder() bool {
	return n.URL == ""
}
